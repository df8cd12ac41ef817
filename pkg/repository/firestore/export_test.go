package firestore

import (
	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

type WriteJob = writeJob

func AwaitJobs(jobs []WriteJob, recordID model.RecordID) error {
	return awaitJobs(jobs, recordID)
}

// WriteResultFn adapts a function to WriteJob
type WriteResultFn func() (*firestore.WriteResult, error)

func (f WriteResultFn) Results() (*firestore.WriteResult, error) {
	return f()
}

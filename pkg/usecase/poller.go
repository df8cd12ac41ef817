package usecase

import (
	"context"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// fileStatusFunc fetches the current state of an uploaded file
type fileStatusFunc func(ctx context.Context, name string) (*model.RemoteFile, error)

// awaitProcessing drives file through Pending until it becomes Active or Failed.
// The status is checked at most policy.MaxAttempts times after the initial state.
func awaitProcessing(ctx context.Context, policy config.RetryPolicy, file *model.RemoteFile, status fileStatusFunc) (*model.RemoteFile, error) {
	for polls := 0; ; polls++ {
		switch file.State {
		case types.FileStateActive:
			return file, nil

		case types.FileStateFailed:
			reason := file.FailureReason
			if reason == "" {
				reason = "provider reported failure without a reason"
			}
			return nil, goerr.Wrap(model.ErrProcessingFailed, reason,
				goerr.V(model.FileKey, file.Name),
				goerr.V(model.FileNameKey, file.DisplayName))
		}

		if polls >= policy.MaxAttempts {
			return nil, goerr.Wrap(model.ErrProcessingTimeout, "file is still pending",
				goerr.V(model.FileKey, file.Name),
				goerr.V("attempts", polls),
				goerr.V("interval", policy.Interval.String()))
		}

		if err := wait(ctx, policy.Interval); err != nil {
			return nil, goerr.Wrap(err, "polling interrupted", goerr.V(model.FileKey, file.Name))
		}

		next, err := status(ctx, file.Name)
		if err != nil {
			return nil, model.Fail(model.ErrUpload, err, "failed to get file status",
				goerr.V(model.FileKey, file.Name))
		}
		logging.From(ctx).Debug("Polled file status",
			"file", next.Name,
			"state", next.State,
			"attempt", polls+1)
		file = mergeFileStatus(file, next)
	}
}

// mergeFileStatus takes state from next and keeps metadata of prev that the status answer left empty
func mergeFileStatus(prev, next *model.RemoteFile) *model.RemoteFile {
	merged := *next
	if merged.Name == "" {
		merged.Name = prev.Name
	}
	if merged.DisplayName == "" {
		merged.DisplayName = prev.DisplayName
	}
	if merged.MIMEType == "" {
		merged.MIMEType = prev.MIMEType
	}
	return &merged
}

// wait suspends for d. A non-positive d only checks ctx.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

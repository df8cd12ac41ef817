package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const collectionChunks = "chunks"

// chunkDoc stores Embedding as firestore.Vector32 so that FindNearest vector search works.
// Querying requires a composite vector index on (StoreID, Embedding), see the migrate command.
type chunkDoc struct {
	RecordID       string             `firestore:"RecordID"`
	StoreID        string             `firestore:"StoreID"`
	SourceFileName string             `firestore:"SourceFileName"`
	Index          int                `firestore:"Index"`
	Text           string             `firestore:"Text"`
	Embedding      firestore.Vector32 `firestore:"Embedding,omitempty"`
}

func docToChunk(snap *firestore.DocumentSnapshot) (*model.StoredChunk, error) {
	var d chunkDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	c := &model.StoredChunk{
		RecordID:       model.RecordID(d.RecordID),
		StoreID:        model.StoreID(d.StoreID),
		SourceFileName: d.SourceFileName,
		Index:          d.Index,
		Text:           d.Text,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c, nil
}

type chunkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newChunkRepository(client *firestore.Client) *chunkRepository {
	return &chunkRepository{client: client}
}

func (r *chunkRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionChunks)
}

func (r *chunkRepository) refsOf(ctx context.Context, recordID model.RecordID) ([]*firestore.DocumentRef, error) {
	iter := r.collection().Where("RecordID", "==", string(recordID)).Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("record_id", recordID))
		}
		refs = append(refs, snap.Ref)
	}
	return refs, nil
}

func (r *chunkRepository) Replace(ctx context.Context, recordID model.RecordID, chunks []*model.StoredChunk) error {
	refs, err := r.refsOf(ctx, recordID)
	if err != nil {
		return err
	}

	// BulkWriter rejects two writes to the same document in one batch
	next := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		next[chunkDocID(recordID, c.Index)] = true
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	jobs := make([]writeJob, 0, len(refs)+len(chunks))
	for _, ref := range refs {
		if next[ref.ID] {
			continue
		}
		job, err := bulkWriter.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to add Delete operation to bulk writer", goerr.V("record_id", recordID))
		}
		jobs = append(jobs, job)
	}

	for _, c := range chunks {
		doc := &chunkDoc{
			RecordID:       string(recordID),
			StoreID:        c.StoreID.String(),
			SourceFileName: c.SourceFileName,
			Index:          c.Index,
			Text:           c.Text,
		}
		if len(c.Embedding) > 0 {
			doc.Embedding = firestore.Vector32(c.Embedding)
		}
		ref := r.collection().Doc(chunkDocID(recordID, c.Index))
		job, err := bulkWriter.Set(ref, doc)
		if err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer",
				goerr.V("record_id", recordID),
				goerr.V("index", c.Index))
		}
		jobs = append(jobs, job)
	}

	bulkWriter.Flush()
	return awaitJobs(jobs, recordID)
}

func (r *chunkRepository) DeleteByRecord(ctx context.Context, recordID model.RecordID) error {
	refs, err := r.refsOf(ctx, recordID)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	jobs := make([]writeJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bulkWriter.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to add Delete operation to bulk writer", goerr.V("record_id", recordID))
		}
		jobs = append(jobs, job)
	}

	bulkWriter.Flush()
	return awaitJobs(jobs, recordID)
}

// writeJob is the result handle of one BulkWriter operation
type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// awaitJobs returns the first failed write. Flush does not report write errors itself.
func awaitJobs(jobs []writeJob, recordID model.RecordID) error {
	failed := 0
	var first error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return goerr.Wrap(first, "chunk write rejected",
			goerr.V("record_id", recordID),
			goerr.V("failed", failed),
			goerr.V("total", len(jobs)))
	}
	return nil
}

func (r *chunkRepository) FindByEmbedding(ctx context.Context, storeID model.StoreID, embedding []float32, limit int) ([]*model.StoredChunk, error) {
	if limit <= 0 {
		return []*model.StoredChunk{}, nil
	}

	vq := r.collection().
		Where("StoreID", "==", storeID.String()).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.StoredChunk, 0, limit)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results", goerr.V(model.StoreIDKey, storeID))
		}

		c, err := docToChunk(snap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}
		chunks = append(chunks, c)
	}

	return chunks, nil
}

func chunkDocID(recordID model.RecordID, index int) string {
	return fmt.Sprintf("%s-%05d", recordID, index)
}

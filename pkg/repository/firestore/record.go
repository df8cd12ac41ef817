package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collectionRecords = "records"

type recordDoc struct {
	ID             string    `firestore:"ID"`
	StoreID        string    `firestore:"StoreID"`
	SourceFileName string    `firestore:"SourceFileName"`
	Kind           string    `firestore:"Kind"`
	ArtifactRef    string    `firestore:"ArtifactRef"`
	MIMEType       string    `firestore:"MIMEType"`
	ChunkCount     int       `firestore:"ChunkCount"`
	LinkedAt       time.Time `firestore:"LinkedAt"`
}

func toRecordDoc(rec *model.LinkedRecord) *recordDoc {
	return &recordDoc{
		ID:             string(rec.ID),
		StoreID:        rec.StoreID.String(),
		SourceFileName: rec.SourceFileName,
		Kind:           rec.Kind.String(),
		ArtifactRef:    rec.ArtifactRef,
		MIMEType:       rec.MIMEType,
		ChunkCount:     rec.ChunkCount,
		LinkedAt:       rec.LinkedAt,
	}
}

func docToRecord(snap *firestore.DocumentSnapshot) (*model.LinkedRecord, error) {
	var d recordDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	kind, err := types.ParseArtifactKind(d.Kind)
	if err != nil {
		return nil, err
	}
	return &model.LinkedRecord{
		ID:             model.RecordID(d.ID),
		StoreID:        model.StoreID(d.StoreID),
		SourceFileName: d.SourceFileName,
		Kind:           kind,
		ArtifactRef:    d.ArtifactRef,
		MIMEType:       d.MIMEType,
		ChunkCount:     d.ChunkCount,
		LinkedAt:       d.LinkedAt,
	}, nil
}

type recordRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRecordRepository(client *firestore.Client) *recordRepository {
	return &recordRepository{client: client}
}

func (r *recordRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionRecords)
}

func (r *recordRepository) Put(ctx context.Context, record *model.LinkedRecord) error {
	rec := *record
	rec.ID = model.NewRecordID(record.StoreID, record.SourceFileName)

	if _, err := r.collection().Doc(string(rec.ID)).Set(ctx, toRecordDoc(&rec)); err != nil {
		return goerr.Wrap(err, "failed to put record",
			goerr.V(model.StoreIDKey, rec.StoreID),
			goerr.V(model.FileNameKey, rec.SourceFileName))
	}
	return nil
}

func (r *recordRepository) Get(ctx context.Context, storeID model.StoreID, sourceFileName string) (*model.LinkedRecord, error) {
	id := model.NewRecordID(storeID, sourceFileName)
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}

	rec, err := docToRecord(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal record", goerr.V("id", id))
	}
	return rec, nil
}

func (r *recordRepository) List(ctx context.Context, storeID model.StoreID) ([]*model.LinkedRecord, error) {
	iter := r.collection().
		Where("StoreID", "==", storeID.String()).
		OrderBy("SourceFileName", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	records := make([]*model.LinkedRecord, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate records", goerr.V(model.StoreIDKey, storeID))
		}

		rec, err := docToRecord(snap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal record", goerr.V("doc_id", snap.Ref.ID))
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *recordRepository) Delete(ctx context.Context, storeID model.StoreID, sourceFileName string) error {
	id := model.NewRecordID(storeID, sourceFileName)
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}
	return nil
}

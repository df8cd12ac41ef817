package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collectionBindings = "bindings"

type bindingDoc struct {
	ChannelID string    `firestore:"ChannelID"`
	StoreID   string    `firestore:"StoreID"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type bindingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBindingRepository(client *firestore.Client) *bindingRepository {
	return &bindingRepository{client: client}
}

func (r *bindingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionBindings)
}

func (r *bindingRepository) Put(ctx context.Context, binding *model.ChannelBinding) error {
	doc := &bindingDoc{
		ChannelID: binding.ChannelID,
		StoreID:   binding.StoreID.String(),
		UpdatedAt: binding.UpdatedAt,
	}
	if _, err := r.collection().Doc(binding.ChannelID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put channel binding", goerr.V("channel_id", binding.ChannelID))
	}
	return nil
}

func (r *bindingRepository) Get(ctx context.Context, channelID string) (*model.ChannelBinding, error) {
	snap, err := r.collection().Doc(channelID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get channel binding", goerr.V("channel_id", channelID))
	}

	var d bindingDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal channel binding", goerr.V("channel_id", channelID))
	}
	return &model.ChannelBinding{
		ChannelID: d.ChannelID,
		StoreID:   model.StoreID(d.StoreID),
		UpdatedAt: d.UpdatedAt,
	}, nil
}

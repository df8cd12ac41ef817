package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type bindingRepository struct {
	db *badger.DB
}

func (r *bindingRepository) Put(ctx context.Context, binding *model.ChannelBinding) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, makeBindingKey(binding.ChannelID), binding)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put channel binding", goerr.V("channel_id", binding.ChannelID))
	}
	return nil
}

func (r *bindingRepository) Get(ctx context.Context, channelID string) (*model.ChannelBinding, error) {
	var b model.ChannelBinding
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, makeBindingKey(channelID), &b)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get channel binding", goerr.V("channel_id", channelID))
	}
	if !found {
		return nil, nil
	}
	return &b, nil
}

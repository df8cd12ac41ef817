package memory

import (
	"context"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

type bindingRepository struct {
	mu       sync.RWMutex
	bindings map[string]*model.ChannelBinding
}

func newBindingRepository() *bindingRepository {
	return &bindingRepository{
		bindings: make(map[string]*model.ChannelBinding),
	}
}

func (r *bindingRepository) Put(ctx context.Context, binding *model.ChannelBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *binding
	r.bindings[binding.ChannelID] = &copied
	return nil
}

func (r *bindingRepository) Get(ctx context.Context, channelID string) (*model.ChannelBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[channelID]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

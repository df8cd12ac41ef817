package badger

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Badger is an embedded on-disk repository. It is the default backend of the CLI.
type Badger struct {
	db      *badger.DB
	store   *storeRepository
	record  *recordRepository
	chunk   *chunkRepository
	binding *bindingRepository
}

var _ interfaces.Repository = &Badger{}

type loggerAdapter struct{}

var _ badger.Logger = (*loggerAdapter)(nil)

func (loggerAdapter) Errorf(msg string, items ...any) {
	logging.Default().Error(fmt.Sprintf(msg, items...))
}

func (loggerAdapter) Warningf(msg string, items ...any) {
	logging.Default().Warn(fmt.Sprintf(msg, items...))
}

func (loggerAdapter) Infof(msg string, items ...any) {
	logging.Default().Debug(fmt.Sprintf(msg, items...))
}

func (loggerAdapter) Debugf(msg string, items ...any) {
	logging.Default().Debug(fmt.Sprintf(msg, items...))
}

// New opens the database at dir. An empty dir opens an in-memory database.
func New(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = loggerAdapter{}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger database", goerr.V("dir", dir))
	}

	return &Badger{
		db:      db,
		store:   &storeRepository{db: db},
		record:  &recordRepository{db: db},
		chunk:   &chunkRepository{db: db},
		binding: &bindingRepository{db: db},
	}, nil
}

func (b *Badger) Store() interfaces.StoreRepository {
	return b.store
}

func (b *Badger) Record() interfaces.RecordRepository {
	return b.record
}

func (b *Badger) Chunk() interfaces.ChunkRepository {
	return b.chunk
}

func (b *Badger) Binding() interfaces.BindingRepository {
	return b.binding
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal value", goerr.V("key", string(key)))
	}
	return txn.Set(key, raw)
}

// getJSON returns false when key does not exist
func getJSON(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to get value", goerr.V("key", string(key)))
	}

	raw, err := item.ValueCopy(nil)
	if err != nil {
		return false, goerr.Wrap(err, "failed to copy value", goerr.V("key", string(key)))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, goerr.Wrap(err, "failed to unmarshal value", goerr.V("key", string(key)))
	}
	return true, nil
}

// scanPrefix calls fn with the raw value of every key under prefix, in key order
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := txn.NewIterator(opts)
	defer iter.Close()

	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return goerr.Wrap(err, "failed to copy value", goerr.V("key", string(item.Key())))
		}
		if err := fn(item.KeyCopy(nil), raw); err != nil {
			return err
		}
	}
	return nil
}

func unmarshal(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return goerr.Wrap(err, "failed to unmarshal value")
	}
	return nil
}

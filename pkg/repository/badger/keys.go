package badger

import (
	"fmt"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

const (
	storePrefix   = "store:"
	masterKey     = "meta:master"
	recordPrefix  = "record:"
	chunkPrefix   = "chunk:"
	bindingPrefix = "binding:"
)

func makeStoreKey(id model.StoreID) []byte {
	return []byte(storePrefix + id.String())
}

// Record keys sort by file name within a store
func makeRecordStorePrefix(storeID model.StoreID) []byte {
	return []byte(recordPrefix + storeID.String() + "\x00")
}

func makeRecordKey(storeID model.StoreID, sourceFileName string) []byte {
	return append(makeRecordStorePrefix(storeID), sourceFileName...)
}

func makeChunkRecordPrefix(recordID model.RecordID) []byte {
	return []byte(chunkPrefix + string(recordID) + ":")
}

func makeChunkKey(recordID model.RecordID, index int) []byte {
	return append(makeChunkRecordPrefix(recordID), fmt.Sprintf("%05d", index)...)
}

func makeBindingKey(channelID string) []byte {
	return []byte(bindingPrefix + channelID)
}

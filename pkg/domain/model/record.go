package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
)

// RecordID identifies a LinkedRecord. It is derived from (storeID, sourceFileName) so relinking overwrites.
type RecordID string

func NewRecordID(storeID StoreID, sourceFileName string) RecordID {
	sum := sha256.Sum256([]byte(string(storeID) + "\x00" + sourceFileName))
	return RecordID(hex.EncodeToString(sum[:16]))
}

// LinkLockKey is the key serializing writes to the record of (storeID, sourceFileName)
func LinkLockKey(storeID StoreID, sourceFileName string) string {
	return storeID.String() + "\x00" + sourceFileName
}

// LinkedRecord is the association between a store and a processed artifact
type LinkedRecord struct {
	ID             RecordID
	StoreID        StoreID
	SourceFileName string
	Kind           types.ArtifactKind
	// ArtifactRef is the provider document name (fileRef) or the record id owning the stored chunks (chunkSet)
	ArtifactRef string
	MIMEType    string
	ChunkCount  int
	LinkedAt    time.Time
}

// StoredChunk is a chunk persisted for a chunkSet record
type StoredChunk struct {
	RecordID       RecordID
	StoreID        StoreID
	SourceFileName string
	Index          int
	Text           string
	Embedding      []float32
}

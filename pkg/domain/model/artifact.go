package model

import (
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of chunk and question embeddings
const EmbeddingDimension = 768

// Chunk is a bounded slice of a document's text
type Chunk struct {
	Index     int
	Text      string
	Embedding []float32
}

// ProcessedArtifact is the result of ingestion: a remote file reference or a local chunk set
type ProcessedArtifact struct {
	Kind types.ArtifactKind

	// fileRef
	ExternalID    string
	State         types.FileState
	FailureReason string

	// chunkSet
	Chunks []Chunk

	SourceFileName string
	MIMEType       string
}

func NewFileRef(file *RemoteFile) *ProcessedArtifact {
	return &ProcessedArtifact{
		Kind:           types.ArtifactKindFileRef,
		ExternalID:     file.Name,
		State:          file.State,
		FailureReason:  file.FailureReason,
		SourceFileName: file.DisplayName,
		MIMEType:       file.MIMEType,
	}
}

func NewChunkSet(fileName, mimeType string, chunks []Chunk) *ProcessedArtifact {
	return &ProcessedArtifact{
		Kind:           types.ArtifactKindChunkSet,
		Chunks:         chunks,
		SourceFileName: fileName,
		MIMEType:       mimeType,
	}
}

// Linkable returns nil only for an Active file reference or a fully embedded, non-empty chunk set
func (a *ProcessedArtifact) Linkable() error {
	if a == nil {
		return goerr.Wrap(ErrNotLinkable, "artifact is nil")
	}

	switch a.Kind {
	case types.ArtifactKindFileRef:
		if a.ExternalID == "" {
			return goerr.Wrap(ErrNotLinkable, "file reference has no external id")
		}
		if a.State != types.FileStateActive {
			return goerr.Wrap(ErrNotLinkable, "file reference is not active",
				goerr.V("external_id", a.ExternalID), goerr.V("state", a.State))
		}
		return nil

	case types.ArtifactKindChunkSet:
		if len(a.Chunks) == 0 {
			return goerr.Wrap(ErrNotLinkable, "chunk set is empty")
		}
		for i, c := range a.Chunks {
			if c.Text == "" || len(c.Embedding) == 0 {
				return goerr.Wrap(ErrNotLinkable, "chunk set is partially populated", goerr.V("chunk_index", i))
			}
		}
		return nil

	default:
		return goerr.Wrap(ErrNotLinkable, "unknown artifact kind", goerr.V("kind", a.Kind))
	}
}

package types

import "fmt"

// ArtifactKind distinguishes the two ingestion outputs
type ArtifactKind string

const (
	// ArtifactKindFileRef is a document processed and held by the remote provider
	ArtifactKindFileRef ArtifactKind = "fileRef"
	// ArtifactKindChunkSet is locally extracted text split into embedded chunks
	ArtifactKindChunkSet ArtifactKind = "chunkSet"
)

func (k ArtifactKind) IsValid() bool {
	switch k {
	case ArtifactKindFileRef, ArtifactKindChunkSet:
		return true
	default:
		return false
	}
}

func (k ArtifactKind) String() string {
	return string(k)
}

// ParseArtifactKind parses a string into an ArtifactKind
func ParseArtifactKind(s string) (ArtifactKind, error) {
	kind := ArtifactKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid artifact kind: %s", s)
	}
	return kind, nil
}

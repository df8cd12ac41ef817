package types

import "fmt"

// PipelineMode selects which ingestion variant produces artifacts
type PipelineMode string

const (
	// PipelineModeRemote uploads documents to the provider and waits for processing
	PipelineModeRemote PipelineMode = "remote"
	// PipelineModeLocal extracts, chunks and embeds documents in-process
	PipelineModeLocal PipelineMode = "local"
)

func (m PipelineMode) IsValid() bool {
	return m == PipelineModeRemote || m == PipelineModeLocal
}

func (m PipelineMode) String() string {
	return string(m)
}

// ParsePipelineMode parses a string into a PipelineMode. Empty input means remote.
func ParsePipelineMode(s string) (PipelineMode, error) {
	if s == "" {
		return PipelineModeRemote, nil
	}
	mode := PipelineMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid pipeline mode: %s", s)
	}
	return mode, nil
}

package types

import "fmt"

// FileState is the processing state of a document held by the external provider
type FileState string

const (
	FileStatePending FileState = "PENDING"
	FileStateActive  FileState = "ACTIVE"
	FileStateFailed  FileState = "FAILED"
)

// AllFileStates returns all valid file states
func AllFileStates() []FileState {
	return []FileState{
		FileStatePending,
		FileStateActive,
		FileStateFailed,
	}
}

// IsValid checks if the file state is valid
func (s FileState) IsValid() bool {
	switch s {
	case FileStatePending,
		FileStateActive,
		FileStateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether polling can stop at this state
func (s FileState) IsTerminal() bool {
	return s == FileStateActive || s == FileStateFailed
}

func (s FileState) String() string {
	return string(s)
}

// ParseFileState parses a string into a FileState
func ParseFileState(s string) (FileState, error) {
	state := FileState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid file state: %s", s)
	}
	return state, nil
}

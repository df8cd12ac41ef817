package model

import "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"

// RawResponse is the decoded body of a provider response whose shape is not fixed
type RawResponse map[string]any

// RemoteFile is a document uploaded to the provider
type RemoteFile struct {
	Name          string
	DisplayName   string
	MIMEType      string
	State         types.FileState
	FailureReason string
}

// RemoteDocument is a document registered in a provider-side store
type RemoteDocument struct {
	Name        string
	DisplayName string
	State       string
}

// GroundedResponse is the output of a retrieval-augmented generation call
type GroundedResponse struct {
	Text     string
	Passages []GroundingPassage
}

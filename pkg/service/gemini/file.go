package gemini

import (
	"bytes"
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

func (c *Client) UploadFile(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error) {
	file, err := c.genai.Files.Upload(ctx, bytes.NewReader(doc.Content), &genai.UploadFileConfig{
		MIMEType:    doc.MIMEType,
		DisplayName: doc.Name,
	})
	if err != nil {
		return nil, goerr.Wrap(toProviderError(err), "failed to upload file",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("mime_type", doc.MIMEType),
			goerr.V("size", len(doc.Content)))
	}

	remote := toRemoteFile(file)
	if remote.DisplayName == "" {
		remote.DisplayName = doc.Name
	}
	if remote.MIMEType == "" {
		remote.MIMEType = doc.MIMEType
	}
	return remote, nil
}

func (c *Client) GetFile(ctx context.Context, name string) (*model.RemoteFile, error) {
	file, err := c.genai.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, goerr.Wrap(toProviderError(err), "failed to get file", goerr.V(model.FileKey, name))
	}
	return toRemoteFile(file), nil
}

func toRemoteFile(file *genai.File) *model.RemoteFile {
	remote := &model.RemoteFile{
		Name:        file.Name,
		DisplayName: file.DisplayName,
		MIMEType:    file.MIMEType,
		State:       toFileState(file.State),
	}
	if file.Error != nil {
		remote.FailureReason = file.Error.Message
	}
	return remote
}

// toFileState maps provider states onto Pending/Active/Failed. Unknown states are still pending.
func toFileState(s genai.FileState) types.FileState {
	switch s {
	case genai.FileStateActive:
		return types.FileStateActive
	case genai.FileStateFailed:
		return types.FileStateFailed
	default:
		return types.FileStatePending
	}
}

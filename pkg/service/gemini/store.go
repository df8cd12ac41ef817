package gemini

import (
	"context"
	"encoding/json"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// CreateStore creates a File Search store and returns the decoded response body
func (c *Client) CreateStore(ctx context.Context, displayName string) (model.RawResponse, error) {
	store, err := c.genai.FileSearchStores.Create(ctx, &genai.CreateFileSearchStoreConfig{
		DisplayName: displayName,
	})
	if err != nil {
		return nil, goerr.Wrap(toProviderError(err), "failed to create file search store",
			goerr.V("display_name", displayName))
	}

	raw, err := json.Marshal(store)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal file search store")
	}

	var resp model.RawResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode file search store")
	}
	return resp, nil
}

// DeleteStore deletes the store together with its documents
func (c *Client) DeleteStore(ctx context.Context, storeID model.StoreID) error {
	force := true
	if err := c.genai.FileSearchStores.Delete(ctx, storeID.String(), &genai.DeleteFileSearchStoreConfig{
		Force: &force,
	}); err != nil {
		return goerr.Wrap(toProviderError(err), "failed to delete file search store",
			goerr.V(model.StoreIDKey, storeID))
	}
	return nil
}

func (c *Client) ListDocuments(ctx context.Context, storeID model.StoreID) ([]*model.RemoteDocument, error) {
	docs := make([]*model.RemoteDocument, 0)
	for doc, err := range c.genai.FileSearchStores.Documents.All(ctx, storeID.String()) {
		if err != nil {
			return nil, goerr.Wrap(toProviderError(err), "failed to list documents",
				goerr.V(model.StoreIDKey, storeID))
		}
		docs = append(docs, &model.RemoteDocument{
			Name:        doc.Name,
			DisplayName: doc.DisplayName,
			State:       string(doc.State),
		})
	}
	return docs, nil
}

func (c *Client) DeleteDocument(ctx context.Context, documentName string) error {
	force := true
	if err := c.genai.FileSearchStores.Documents.Delete(ctx, documentName, &genai.DeleteDocumentConfig{
		Force: &force,
	}); err != nil {
		return goerr.Wrap(toProviderError(err), "failed to delete document",
			goerr.V("document", documentName))
	}
	return nil
}

package gemini

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GenerateGrounded answers prompt with the File Search tool restricted to the store
func (c *Client) GenerateGrounded(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{
				FileSearch: &genai.FileSearch{
					FileSearchStoreNames: []string{storeID.String()},
				},
			},
		},
	})
	if err != nil {
		return nil, goerr.Wrap(toProviderError(err), "failed to generate content",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V("model", c.model))
	}

	return toGroundedResponse(resp), nil
}

func toGroundedResponse(resp *genai.GenerateContentResponse) *model.GroundedResponse {
	result := &model.GroundedResponse{
		Text:     resp.Text(),
		Passages: []model.GroundingPassage{},
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return result
	}

	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.RetrievedContext == nil {
			continue
		}
		rc := chunk.RetrievedContext
		source := rc.Title
		if source == "" {
			source = rc.DocumentName
		}
		result.Passages = append(result.Passages, model.GroundingPassage{
			SourceFileName: source,
			ExcerptText:    rc.Text,
		})
	}

	return result
}

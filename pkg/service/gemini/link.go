package gemini

import (
	"context"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// ImportFile imports an uploaded file into the store and waits for the import operation to finish
func (c *Client) ImportFile(ctx context.Context, storeID model.StoreID, fileName string) (string, error) {
	op, err := c.genai.FileSearchStores.ImportFile(ctx, storeID.String(), fileName, nil)
	if err != nil {
		return "", goerr.Wrap(toProviderError(err), "failed to import file",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileKey, fileName))
	}

	for i := 0; !op.Done; i++ {
		if i >= c.operationPolls {
			return "", goerr.Wrap(model.ErrProcessingTimeout, "import operation did not finish",
				goerr.V("operation", op.Name),
				goerr.V("polls", i))
		}

		select {
		case <-ctx.Done():
			return "", goerr.Wrap(ctx.Err(), "import operation polling canceled", goerr.V("operation", op.Name))
		case <-time.After(c.operationInterval):
		}

		op, err = c.genai.Operations.GetImportFileOperation(ctx, op, nil)
		if err != nil {
			return "", goerr.Wrap(toProviderError(err), "failed to get import operation",
				goerr.V(model.StoreIDKey, storeID),
				goerr.V(model.FileKey, fileName))
		}
		logging.From(ctx).Debug("import operation polled",
			"operation", op.Name,
			"done", op.Done,
			"poll", i+1)
	}

	if op.Error != nil {
		return "", goerr.Wrap(operationError(op.Error), "import operation failed",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileKey, fileName))
	}

	return documentName(op), nil
}

func documentName(op *genai.ImportFileOperation) string {
	if op.Response == nil {
		return ""
	}
	return op.Response.DocumentName
}

package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"google.golang.org/genai"
)

// toProviderError converts an SDK API error into model.ProviderError. Other errors are returned as is.
func toProviderError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &model.ProviderError{
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Diagnostic: apiErr.Message,
		}
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &model.ProviderError{
			StatusCode: apiErrPtr.Code,
			Status:     apiErrPtr.Status,
			Diagnostic: apiErrPtr.Message,
		}
	}

	return err
}

// rpcHTTPStatus maps google.rpc.Code values carried by long-running operations to HTTP status codes
var rpcHTTPStatus = map[int]int{
	3:  http.StatusBadRequest,          // INVALID_ARGUMENT
	5:  http.StatusNotFound,            // NOT_FOUND
	7:  http.StatusForbidden,           // PERMISSION_DENIED
	8:  http.StatusTooManyRequests,     // RESOURCE_EXHAUSTED
	9:  http.StatusBadRequest,          // FAILED_PRECONDITION
	13: http.StatusInternalServerError, // INTERNAL
	14: http.StatusServiceUnavailable,  // UNAVAILABLE
}

// operationError converts the error object of a finished operation
func operationError(status map[string]any) *model.ProviderError {
	pe := &model.ProviderError{StatusCode: http.StatusInternalServerError}

	if msg, ok := status["message"].(string); ok {
		pe.Diagnostic = msg
	} else {
		pe.Diagnostic = fmt.Sprintf("%v", status)
	}

	var code int
	switch v := status["code"].(type) {
	case float64:
		code = int(v)
	case int:
		code = v
	case int32:
		code = int(v)
	}
	if httpStatus, ok := rpcHTTPStatus[code]; ok {
		pe.StatusCode = httpStatus
	}
	pe.Status = fmt.Sprintf("rpc code %d", code)

	return pe
}

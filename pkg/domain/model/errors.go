package model

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Error taxonomy of the ingestion and retrieval pipeline
var (
	ErrMissingCredential  = goerr.New("API credential is not configured")
	ErrStoreCreation      = goerr.New("failed to create knowledge store")
	ErrUpload             = goerr.New("failed to upload document")
	ErrProcessingTimeout  = goerr.New("document processing did not finish in time")
	ErrProcessingFailed   = goerr.New("document processing failed")
	ErrLink               = goerr.New("failed to link document to store")
	ErrQuery              = goerr.New("failed to query knowledge store")
	ErrQuestionSuggestion = goerr.New("failed to suggest questions")

	ErrEmptyDocument  = goerr.New("document is empty")
	ErrExtraction     = goerr.New("failed to extract text from document")
	ErrNotLinkable    = goerr.New("artifact is not linkable")
	ErrInvalidStoreID = goerr.New("invalid store id")
)

// Context keys for error values
const (
	StoreIDKey  = "store_id"
	FileNameKey = "file_name"
	FileKey     = "file"
	CauseKey    = "cause"
)

// ProviderError is a non-success response of the external provider with its raw diagnostic text
type ProviderError struct {
	StatusCode int
	Status     string
	Diagnostic string
}

func (e *ProviderError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("provider error (%d %s): %s", e.StatusCode, e.Status, e.Diagnostic)
	}
	return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Diagnostic)
}

// Cause classifies the error by status code, then by status text
func (e *ProviderError) Cause() types.Cause {
	switch e.StatusCode {
	case http.StatusForbidden:
		return types.CauseForbidden
	case http.StatusTooManyRequests:
		return types.CauseRateLimited
	case http.StatusBadRequest:
		return types.CauseBadRequest
	case http.StatusNotFound:
		return types.CauseNotFound
	}
	return causeFromText(e.Status + " " + e.Diagnostic)
}

// statusCodePattern matches a status code only where it is reported as one:
// "Error 403", "status: 429", "(404 NOT_FOUND)", "HTTP/1.1 400" or at the start of the text
var statusCodePattern = regexp.MustCompile(`(?i)(?:^|\(|\[|status|code|error|http/[\d.]+)[\s:=]*(\d{3})\b`)

var causeByStatusCode = map[string]types.Cause{
	"403": types.CauseForbidden,
	"429": types.CauseRateLimited,
	"400": types.CauseBadRequest,
	"404": types.CauseNotFound,
}

func causeFromText(s string) types.Cause {
	switch {
	case strings.Contains(s, "PERMISSION_DENIED"):
		return types.CauseForbidden
	case strings.Contains(s, "RESOURCE_EXHAUSTED"):
		return types.CauseRateLimited
	case strings.Contains(s, "INVALID_ARGUMENT") || strings.Contains(s, "FAILED_PRECONDITION"):
		return types.CauseBadRequest
	case strings.Contains(s, "NOT_FOUND"):
		return types.CauseNotFound
	}

	for _, m := range statusCodePattern.FindAllStringSubmatch(s, -1) {
		if cause, ok := causeByStatusCode[m[1]]; ok {
			return cause
		}
	}
	return types.CauseUnknown
}

// ClassifyCause returns the cause of err. Errors without a ProviderError in their chain are classified by message.
func ClassifyCause(err error) types.Cause {
	if err == nil {
		return types.CauseUnknown
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Cause()
	}
	return causeFromText(err.Error())
}

// CauseHint returns the corrective action implied by cause
func CauseHint(cause types.Cause) string {
	switch cause {
	case types.CauseForbidden:
		return "permission denied: check that the API key is valid and has access to the File Search API"
	case types.CauseRateLimited:
		return "quota exceeded: wait before retrying or raise the project quota"
	case types.CauseBadRequest:
		return "invalid request: check the file type and the store id"
	case types.CauseNotFound:
		return "resource not found: the store or file does not exist or is not ready yet"
	default:
		return ""
	}
}

// Describe renders err for an end user, appending the corrective hint of its cause when known
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if hint := CauseHint(ClassifyCause(err)); hint != "" {
		return err.Error() + " (" + hint + ")"
	}
	return err.Error()
}

// Fail tags cause with the taxonomy kind. The result satisfies errors.Is(err, kind)
// and keeps cause reachable through errors.As.
func Fail(kind, cause error, msg string, options ...goerr.Option) *goerr.Error {
	if cause == nil {
		return goerr.Wrap(kind, msg, options...)
	}
	options = append(options, goerr.V(CauseKey, ClassifyCause(cause).String()))
	return goerr.Wrap(fmt.Errorf("%w: %w", kind, cause), msg, options...)
}

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const (
	unstructuredPath         = "/general/v0/general"
	unstructuredAPIKeyHeader = "unstructured-api-key"
	maxErrorBody             = 4096
)

// Unstructured calls the partition endpoint of an Unstructured API server
type Unstructured struct {
	baseURL    string
	apiKey     string
	maxChars   int
	httpClient *http.Client
}

type element struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	ElementID string          `json:"element_id"`
	Metadata  elementMetadata `json:"metadata"`
}

type elementMetadata struct {
	Filename   string `json:"filename,omitempty"`
	Filetype   string `json:"filetype,omitempty"`
	PageNumber int    `json:"page_number,omitempty"`
}

type UnstructuredOption func(*Unstructured)

func WithAPIKey(key string) UnstructuredOption {
	return func(u *Unstructured) {
		u.apiKey = key
	}
}

func WithHTTPClient(client *http.Client) UnstructuredOption {
	return func(u *Unstructured) {
		u.httpClient = client
	}
}

// WithMaxCharacters sets the size of elements produced by the server side chunking
func WithMaxCharacters(n int) UnstructuredOption {
	return func(u *Unstructured) {
		u.maxChars = n
	}
}

func NewUnstructured(baseURL string, opts ...UnstructuredOption) *Unstructured {
	u := &Unstructured{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxChars:   5000,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Unstructured) Extract(ctx context.Context, doc *model.SourceDocument) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("files", doc.Name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create form file")
	}
	if _, err := fw.Write(doc.Content); err != nil {
		return "", goerr.Wrap(err, "failed to write file content")
	}

	fields := map[string]string{
		"chunking_strategy":     "by_title",
		"max_characters":        strconv.Itoa(u.maxChars),
		"combine_under_n_chars": strconv.Itoa(u.maxChars * 7 / 10),
		"output_format":         "application/json",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", goerr.Wrap(err, "failed to write form field", goerr.V("field", k))
		}
	}
	if err := mw.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+unstructuredPath, &body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set(unstructuredAPIKeyHeader, u.apiKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(model.ErrExtraction, "failed to send request to Unstructured",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("error", err.Error()))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg, _ := safe.ReadAll(resp.Body, maxErrorBody)
		return "", model.Fail(model.ErrExtraction, &model.ProviderError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Diagnostic: string(msg),
		}, "Unstructured conversion failed", goerr.V(model.FileNameKey, doc.Name))
	}

	var elements []element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return "", goerr.Wrap(model.ErrExtraction, "failed to parse Unstructured response",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("error", err.Error()))
	}

	texts := make([]string, 0, len(elements))
	for _, e := range elements {
		if t := strings.TrimSpace(e.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

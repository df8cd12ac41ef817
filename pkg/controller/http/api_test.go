package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpctrl "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/controller/http"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/memory"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const testStoreID = "fileSearchStores/manual-rag-1a2b"

func newServer(t *testing.T, provider *mockProvider, opts ...httpctrl.Options) *httpctrl.Server {
	t.Helper()
	ucOpts := []usecase.Option{usecase.WithPipelineConfig(testPipeline())}
	if provider != nil {
		ucOpts = append(ucOpts, usecase.WithProvider(provider))
	}
	return httpctrl.New(usecase.New(memory.New(), ucOpts...), opts...)
}

func doJSON(t *testing.T, srv http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(s))
	} else {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, srv http.Handler, target string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		gt.NoError(t, mw.WriteField(k, v)).Required()
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		gt.NoError(t, err).Required()
		_, err = fw.Write(content)
		gt.NoError(t, err).Required()
	}
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestServer_Health(t *testing.T) {
	srv := newServer(t, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestServer_CreateStore(t *testing.T) {
	t.Run("creates a remote store and makes it master", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})

		rec := doJSON(t, srv, http.MethodPost, "/api/stores", map[string]any{
			"displayName": "manual",
			"master":      true,
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		created := decode[struct {
			StoreID string `json:"storeId"`
			Mode    string `json:"mode"`
		}](t, rec)
		gt.Value(t, created.StoreID).Equal("fileSearchStores/store-1")
		gt.Value(t, created.Mode).Equal("remote")

		rec = doJSON(t, srv, http.MethodGet, "/api/stores", "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		list := decode[struct {
			Stores []struct {
				StoreID string `json:"storeId"`
			} `json:"stores"`
			Master string `json:"master"`
		}](t, rec)
		gt.Array(t, list.Stores).Length(1)
		gt.Value(t, list.Master).Equal("fileSearchStores/store-1")
	})

	t.Run("missing credential is a precondition failure", func(t *testing.T) {
		srv := newServer(t, nil)
		rec := doJSON(t, srv, http.MethodPost, "/api/stores", map[string]any{"displayName": "manual"})
		gt.Value(t, rec.Code).Equal(http.StatusPreconditionFailed)
	})

	t.Run("rejects an empty display name", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodPost, "/api/stores", map[string]any{"displayName": " "})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodPost, "/api/stores", "{not json")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestServer_UploadAndLink(t *testing.T) {
	srv := newServer(t, &mockProvider{})

	rec := doMultipart(t, srv, "/api/upload", map[string]string{"storeId": testStoreID}, "guide.md", []byte("# Guide\nhello"))
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	artifact := decode[struct {
		Kind     string `json:"kind"`
		FileID   string `json:"fileId"`
		State    string `json:"state"`
		MIMEType string `json:"mimeType"`
	}](t, rec)
	gt.Value(t, artifact.Kind).Equal("fileRef")
	gt.Value(t, artifact.FileID).Equal("files/guide.md")
	gt.Value(t, artifact.State).Equal("ACTIVE")
	gt.Value(t, artifact.MIMEType).Equal("text/markdown")

	rec = doJSON(t, srv, http.MethodPost, "/api/link", map[string]any{
		"storeId":  testStoreID,
		"fileId":   artifact.FileID,
		"fileName": "guide.md",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	record := decode[struct {
		FileName string `json:"fileName"`
		Ref      string `json:"ref"`
	}](t, rec)
	gt.Value(t, record.FileName).Equal("guide.md")
	gt.String(t, record.Ref).Contains(testStoreID + "/documents/")

	rec = doJSON(t, srv, http.MethodGet, "/api/files?storeId="+testStoreID, "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	files := decode[struct {
		Files []string `json:"files"`
	}](t, rec)
	gt.Value(t, files.Files).Equal([]string{"guide.md"})
}

func TestServer_Upload(t *testing.T) {
	t.Run("empty file is rejected", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doMultipart(t, srv, "/api/upload", map[string]string{"storeId": testStoreID}, "empty.txt", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing file field is rejected", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doMultipart(t, srv, "/api/upload", map[string]string{"storeId": testStoreID}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("file over the upload limit is rejected", func(t *testing.T) {
		srv := newServer(t, &mockProvider{}, httpctrl.WithMaxUploadBytes(4))
		rec := doMultipart(t, srv, "/api/upload", map[string]string{"storeId": testStoreID}, "big.txt", []byte("0123456789"))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("invalid store id is rejected", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doMultipart(t, srv, "/api/upload", map[string]string{"storeId": "fileSearchStores/"}, "a.txt", []byte("hello"))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("no store and no master is rejected", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doMultipart(t, srv, "/api/upload", nil, "a.txt", []byte("hello"))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestServer_Link(t *testing.T) {
	t.Run("requires fileId or chunks", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodPost, "/api/link", map[string]any{
			"storeId":  testStoreID,
			"fileName": "a.txt",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("links a chunk set", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodPost, "/api/link", map[string]any{
			"storeId":  "local-notes",
			"fileName": "notes.txt",
			"chunks": []map[string]any{
				{"index": 0, "text": "first", "embedding": []float32{1, 0}},
				{"index": 1, "text": "second", "embedding": []float32{0, 1}},
			},
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		record := decode[struct {
			Kind       string `json:"kind"`
			ChunkCount int    `json:"chunkCount"`
		}](t, rec)
		gt.Value(t, record.Kind).Equal("chunkSet")
		gt.Value(t, record.ChunkCount).Equal(2)
	})

	t.Run("chunks without embeddings are not linkable", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodPost, "/api/link", map[string]any{
			"storeId":  "local-notes",
			"fileName": "notes.txt",
			"chunks":   []map[string]any{{"index": 0, "text": "first"}},
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestServer_AddDocumentAndDelete(t *testing.T) {
	provider := &mockProvider{}
	srv := newServer(t, provider)

	rec := doMultipart(t, srv, "/api/documents", map[string]string{
		"storeId":  testStoreID,
		"fileName": "dir/manual.pdf",
		"mimeType": "application/pdf",
	}, "upload.bin", []byte("%PDF-1.4"))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	record := decode[struct {
		FileName string `json:"fileName"`
		MIMEType string `json:"mimeType"`
		Ref      string `json:"ref"`
	}](t, rec)
	gt.Value(t, record.FileName).Equal("manual.pdf")
	gt.Value(t, record.MIMEType).Equal("application/pdf")

	rec = doJSON(t, srv, http.MethodDelete, "/api/files?storeId="+testStoreID+"&fileName=manual.pdf", "")
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)
	gt.Value(t, provider.deleted).Equal([]string{record.Ref})

	rec = doJSON(t, srv, http.MethodGet, "/api/files?storeId="+testStoreID, "")
	files := decode[struct {
		Files []string `json:"files"`
	}](t, rec)
	gt.Array(t, files.Files).Length(0)
}

func TestServer_Chat(t *testing.T) {
	t.Run("returns the answer with grounding chunks", func(t *testing.T) {
		var gotPrompt string
		srv := newServer(t, &mockProvider{
			generateGroundedFn: func(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
				gotPrompt = prompt
				return &model.GroundedResponse{
					Text: "Press the reset button.",
					Passages: []model.GroundingPassage{
						{SourceFileName: "manual.pdf", ExcerptText: "reset button"},
					},
				}, nil
			},
		})

		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
			"storeId": testStoreID,
			"message": "How do I reset?",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		resp := decode[struct {
			Text            string `json:"text"`
			GroundingChunks []struct {
				Source string `json:"source"`
				Text   string `json:"text"`
			} `json:"groundingChunks"`
		}](t, rec)
		gt.Value(t, resp.Text).Equal("Press the reset button.")
		gt.Array(t, resp.GroundingChunks).Length(1)
		gt.Value(t, resp.GroundingChunks[0].Source).Equal("manual.pdf")
		gt.String(t, gotPrompt).Contains("How do I reset?")
	})

	t.Run("missing credential is a precondition failure", func(t *testing.T) {
		srv := newServer(t, nil)
		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
			"storeId": testStoreID,
			"message": "hello",
		})
		gt.Value(t, rec.Code).Equal(http.StatusPreconditionFailed)
	})
}

func TestServer_ListFiles(t *testing.T) {
	t.Run("unknown store yields an empty list", func(t *testing.T) {
		srv := newServer(t, &mockProvider{})
		rec := doJSON(t, srv, http.MethodGet, "/api/files", "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Bool(t, strings.Contains(rec.Body.String(), `"files":[]`)).True()
	})
}

func TestServer_Questions(t *testing.T) {
	t.Run("parses the suggested questions", func(t *testing.T) {
		srv := newServer(t, &mockProvider{
			generateGroundedFn: func(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
				return &model.GroundedResponse{Text: "```json\n[\"What is covered?\", \"Who maintains it?\"]\n```"}, nil
			},
		})

		rec := doJSON(t, srv, http.MethodGet, "/api/questions?storeId="+testStoreID, "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Questions []string `json:"questions"`
		}](t, rec)
		gt.Value(t, resp.Questions).Equal([]string{"What is covered?", "Who maintains it?"})
	})

	t.Run("falls back when the model output is unusable", func(t *testing.T) {
		srv := newServer(t, &mockProvider{
			generateGroundedFn: func(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
				return &model.GroundedResponse{Text: "I cannot help with that"}, nil
			},
		})

		rec := doJSON(t, srv, http.MethodGet, "/api/questions?storeId="+testStoreID, "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Questions []string `json:"questions"`
		}](t, rec)
		gt.Array(t, resp.Questions).Length(4)
	})
}

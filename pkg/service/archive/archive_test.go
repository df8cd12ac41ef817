package archive_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/archive"
	"github.com/m-mizutani/gt"
)

func TestObjectKey(t *testing.T) {
	storeID := model.StoreID("fileSearchStores/manual-rag-1")

	testCases := []struct {
		name     string
		prefix   string
		fileName string
		expected string
	}{
		{name: "with prefix", prefix: "originals", fileName: "a.pdf", expected: "originals/manual-rag-1/a.pdf"},
		{name: "no prefix", prefix: "", fileName: "b.md", expected: "manual-rag-1/b.md"},
		{name: "directories are stripped", prefix: "", fileName: "../../etc/passwd", expected: "manual-rag-1/passwd"},
		{name: "windows path", prefix: "x", fileName: `C:\docs\c.txt`, expected: "x/manual-rag-1/c.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, archive.ObjectKey(tc.prefix, storeID, tc.fileName)).Equal(tc.expected)
		})
	}
}

func TestMinIO_Put(t *testing.T) {
	var (
		mu      sync.Mutex
		putPath string
		putBody string
		putType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodHead:
			// bucket exists
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			putPath = r.URL.Path
			putBody = string(body)
			putType = r.Header.Get("Content-Type")
			w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	m, err := archive.NewMinIO(archive.MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "docs",
		Prefix:    "originals",
		Region:    "us-east-1",
	})
	gt.NoError(t, err).Required()

	doc := model.NewSourceDocument("a.md", []byte("# hello"), "")
	gt.NoError(t, m.Put(context.Background(), "fileSearchStores/s1", doc)).Required()

	mu.Lock()
	defer mu.Unlock()
	gt.Value(t, putPath).Equal("/docs/originals/s1/a.md")
	gt.String(t, putBody).Contains("# hello")
	gt.Value(t, putType).Equal("text/markdown")
}

package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandle(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(context.Background(), nil, "noop"))
	})

	t.Run("returns original error", func(t *testing.T) {
		src := goerr.New("upload failed", goerr.V("file", "a.pdf"))
		err := errutil.Handle(context.Background(), src, "failed")
		gt.Error(t, err).Is(src)
	})
}

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("bad input"), http.StatusBadRequest)

	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Header().Get("Content-Type")).Contains("application/json")

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.String(t, body["error"]).Contains("bad input")
}

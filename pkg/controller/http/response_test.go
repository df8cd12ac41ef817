package http_test

import (
	"errors"
	"net/http"
	"testing"

	httpctrl "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/controller/http"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing credential", err: goerr.Wrap(model.ErrMissingCredential, "no key"), want: http.StatusPreconditionFailed},
		{name: "empty document", err: goerr.Wrap(model.ErrEmptyDocument, "empty"), want: http.StatusBadRequest},
		{name: "extraction", err: goerr.Wrap(model.ErrExtraction, "too short"), want: http.StatusBadRequest},
		{name: "not linkable", err: goerr.Wrap(model.ErrNotLinkable, "failed"), want: http.StatusBadRequest},
		{name: "invalid store id", err: goerr.Wrap(model.ErrInvalidStoreID, "bad"), want: http.StatusBadRequest},
		{name: "too large", err: goerr.Wrap(safe.ErrTooLarge, "big"), want: http.StatusBadRequest},
		{name: "processing timeout", err: goerr.Wrap(model.ErrProcessingTimeout, "pending"), want: http.StatusGatewayTimeout},
		{name: "provider forbidden", err: model.Fail(model.ErrUpload, &model.ProviderError{StatusCode: http.StatusForbidden}, "upload"), want: http.StatusForbidden},
		{name: "provider rate limited", err: model.Fail(model.ErrUpload, &model.ProviderError{StatusCode: http.StatusTooManyRequests}, "upload"), want: http.StatusTooManyRequests},
		{name: "provider not found", err: model.Fail(model.ErrLink, &model.ProviderError{StatusCode: http.StatusNotFound}, "link"), want: http.StatusNotFound},
		{name: "provider other", err: model.Fail(model.ErrLink, &model.ProviderError{StatusCode: http.StatusInternalServerError}, "link"), want: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, httpctrl.ErrorStatus(tc.err)).Equal(tc.want)
		})
	}
}

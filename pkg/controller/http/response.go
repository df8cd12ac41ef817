package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// errorStatus maps the error taxonomy to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.Is(err, model.ErrEmptyDocument),
		errors.Is(err, model.ErrExtraction),
		errors.Is(err, model.ErrNotLinkable),
		errors.Is(err, model.ErrInvalidStoreID),
		errors.Is(err, safe.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProcessingTimeout):
		return http.StatusGatewayTimeout
	}

	var pe *model.ProviderError
	if errors.As(err, &pe) {
		switch pe.Cause() {
		case types.CauseForbidden:
			return http.StatusForbidden
		case types.CauseRateLimited:
			return http.StatusTooManyRequests
		case types.CauseBadRequest:
			return http.StatusBadRequest
		case types.CauseNotFound:
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// writeError writes err with its corrective hint
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if hint := model.CauseHint(model.ClassifyCause(err)); hint != "" {
		err = goerr.Wrap(err, hint)
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string, opts ...goerr.Option) {
	errutil.HandleHTTP(r.Context(), w, goerr.New(msg, opts...), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(r.Context()).Error("failed to write response", "error", err)
	}
}

func decodeJSON(r *http.Request, limit int64, v any) error {
	data, err := safe.ReadAll(r.Body, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "invalid JSON body")
	}
	return nil
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/clinic/pkg/httpx"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
	"github.com/aussiebroadwan/clinic/pkg/validate"
)

const (
	detailNotFound    = "Not found."
	detailServerError = "A server error occurred."
)

// pathID reads the {id} wildcard. Non-numeric IDs cannot match a record so
// they are treated as not found.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeAndValidate reads the JSON body into v and runs the shared form rules.
// It writes the 400 itself and reports false when the request is rejected.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			writeFieldErrors(w, verr.Errors)
			return false
		}
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeFieldErrors(w http.ResponseWriter, errs map[string]string) {
	fields := make(map[string][]string, len(errs))
	for field, msg := range errs {
		fields[field] = []string{msg}
	}
	httpx.WriteFieldErrors(w, fields)
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	httpx.WriteFieldErrors(w, map[string][]string{field: {msg}})
}

func writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slogx.FromContext(r.Context()).Error(msg, "error", err)
	httpx.WriteDetail(w, http.StatusInternalServerError, detailServerError)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/report"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{Error: code, ErrorDescription: description})
}

// fail maps an error kind to its HTTP status. Unclassified errors are logged
// and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, model.ErrConflict):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, model.ErrState):
		writeJSONError(w, http.StatusPreconditionFailed, "precondition_failed", err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", w.Header().Get(RequestIDHeader),
			"error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &model.ValidationError{Entity: "request", Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{Entity: "request", Field: name, Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	return parseID(name, chi.URLParam(r, name))
}

// queryID reads an optional positive integer query parameter, 0 when absent.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	return parseID(name, raw)
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, &model.ValidationError{Entity: "request", Field: name, Message: fmt.Sprintf("invalid date %q, use YYYY-MM-DD", raw)}
	}
	return d, nil
}

// reportQuery reads the year, from and to parameters shared by reports.
func reportQuery(r *http.Request) (report.Query, error) {
	var q report.Query
	var errs model.ValidationErrors
	var err error
	if q.YearID, err = queryID(r, "year"); err != nil {
		errs = append(errs, asValidation(err))
	}
	if q.From, err = queryDate(r, "from"); err != nil {
		errs = append(errs, asValidation(err))
	}
	if q.To, err = queryDate(r, "to"); err != nil {
		errs = append(errs, asValidation(err))
	}
	return q, errs.OrNil()
}

func asValidation(err error) *model.ValidationError {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &model.ValidationError{Entity: "request", Message: err.Error()}
}

// orEmpty keeps empty lists encoding as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

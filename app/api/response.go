// Package api holds what the HTTP handlers share: JSON encoding, error mapping and middleware.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/services"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

const (
	MsgInvalidJSON     = "Invalid JSON body"
	MsgInvalidID       = "Invalid id"
	MsgCategoryInUse   = "Category is still used by products"
	MsgInternalFailure = "Database connection error"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteServiceError maps a service error to its HTTP status.
// notFound is the message used when the entity does not exist.
func WriteServiceError(w http.ResponseWriter, err error, notFound string) {
	if verr, ok := services.IsValidation(err); ok {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Reason, Field: verr.Field})
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		WriteError(w, http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrCategoryInUse):
		WriteError(w, http.StatusConflict, MsgCategoryInUse)
	default:
		WriteError(w, http.StatusInternalServerError, MsgInternalFailure)
	}
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// PathID parses the {id} path segment as a positive integer.
func PathID(r *http.Request) (uint, error) {
	return ParseID(r.PathValue("id"))
}

func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, errors.Wrapf(err, "parse id %q", s)
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse date %q", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

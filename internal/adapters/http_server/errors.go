package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/domain"
)

// problem is an RFC 7807 body. Code is stable and meant for clients to switch on.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Problem codes.
const (
	CodeValidation         = "validation"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeTimeout            = "timeout"
	CodeInternal           = "internal"
)

var errorTable = []struct {
	err    error
	status int
	code   string
	title  string
}{
	{domain.ErrValidation, http.StatusBadRequest, CodeValidation, "Invalid request"},
	{domain.ErrDuplicateEmail, http.StatusConflict, CodeDuplicateEmail, "Email already registered"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, "Authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, CodeForbidden, "Forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound, "Not Found"},
	{domain.ErrConflict, http.StatusConflict, CodeConflict, "Conflict"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout, "Timed out"},
}

func writeProblem(w http.ResponseWriter, status int, code, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Code: code, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps a service error to a problem response. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			writeProblem(w, e.status, e.code, e.title, err.Error())
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		// client went away; nobody reads the body
		w.WriteHeader(499)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, CodeInternal, "Internal Server Error", "")
}

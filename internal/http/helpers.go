package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/records"
)

var (
	errUnknownResource = errors.New("http: unknown resource")
	errUnauthenticated = errors.New("http: unauthenticated")
)

type errorResponse struct {
	Error   string              `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// validationError carries field messages rendered as a 422 response.
type validationError struct {
	fields map[string][]string
}

func (e *validationError) Error() string { return "The given data was invalid." }

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var invalid *validationError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Message: invalid.Error(),
			Errors:  invalid.fields,
		}
	}

	if errors.Is(err, records.ErrNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: "Record not found"}
	}

	if errors.Is(err, errUnknownResource) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: "Unknown resource"}
	}

	if errors.Is(err, errUnauthenticated) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "Unauthenticated."}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "Something went wrong.",
	}
}

func parseID(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("id required")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

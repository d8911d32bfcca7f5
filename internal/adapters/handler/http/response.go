package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       any                 `json:"data"`
	Errors     []domain.FieldError `json:"errors,omitempty"`
	Pagination *pagination         `json:"pagination,omitempty"`
}

type pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondPage(w http.ResponseWriter, data any, page pagination) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &page})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: specific errors come before the families that wrap them.
var errorMappings = []errorMapping{
	{domain.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{domain.ErrUsernameTaken, http.StatusConflict, "Username already taken"},
	{domain.ErrDuplicateUser, http.StatusConflict, "User already exists"},
	{domain.ErrRoleNotFound, http.StatusBadRequest, "Role not found"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrAccountDeactivated, http.StatusUnauthorized, "Account is deactivated"},
	{domain.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid or expired refresh token"},
	{domain.ErrInvalidAccessToken, http.StatusUnauthorized, "Invalid or expired access token"},
	{domain.ErrForbidden, http.StatusForbidden, "Admin access required"},
	{domain.ErrContactNotFound, http.StatusNotFound, "Contact not found"},
	{domain.ErrBrochureRequestNotFound, http.StatusNotFound, "Brochure request not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrNotFound, http.StatusNotFound, "Resource not found"},
}

// writeError maps domain errors to responses. Anything unknown is logged and
// hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  validationErr.Fields,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(w, m.status, m.message)
			return
		}
	}

	logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(urlParam(r, name))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid parameters")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

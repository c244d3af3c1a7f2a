package helpers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"campusbooking/internal/domain"
)

// WriteServiceError maps a service error to its HTTP status and error code.
// Unknown errors are logged and reported as 500 without their message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidStateTransition):
		WriteJSONError(w, http.StatusConflict, ErrCodeInvalidState, err.Error())
	case errors.Is(err, domain.ErrOutOfInventory):
		WriteJSONError(w, http.StatusConflict, ErrCodeSoldOut, err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "email already registered")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

// PathID parses the named path value as a positive identifier. On failure it
// writes a 400 and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

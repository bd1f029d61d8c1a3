package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"devevent/internal/domain"
)

// WriteServiceError maps an error returned by a domain service to a status
// code and error envelope. notFound is the message used for domain.ErrNotFound.
// Unexpected errors are logged and reported without their details.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	if ve, ok := domain.AsValidationError(err); ok {
		writeAPIError(w, validationStatus(ve.Kind), &APIError{
			Code:    validationCode(ve.Kind),
			Message: ve.Error(),
			Field:   ve.Field,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrEventHasBookings):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrConnection):
		logger.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "service unavailable")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

func validationStatus(kind domain.ValidationKind) int {
	switch kind {
	case domain.KindDanglingReference:
		return http.StatusNotFound
	case domain.KindUniqueViolation:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func validationCode(kind domain.ValidationKind) string {
	switch kind {
	case domain.KindDanglingReference:
		return ErrCodeNotFound
	case domain.KindUniqueViolation:
		return ErrCodeConflict
	default:
		return ErrCodeBadRequest
	}
}

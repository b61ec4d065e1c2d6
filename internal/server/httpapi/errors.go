package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// retryAfterSeconds is sent with 503 responses caused by pool exhaustion.
const retryAfterSeconds = "1"

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorResourceExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)

	msg := common.Reason(err)
	switch code {
	case http.StatusInternalServerError:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	case http.StatusServiceUnavailable:
		h.logger.Warn(r.Context(), "store unavailable", "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", retryAfterSeconds)
		msg = "service temporarily unavailable"
	case http.StatusUnauthorized:
		msg = "unauthorized"
	}

	writeJSON(w, code, errorResponse{Error: msg})
}

func forbiddenErr(reason string) error {
	return fmt.Errorf("%w: %s", common.ErrorForbidden, reason)
}

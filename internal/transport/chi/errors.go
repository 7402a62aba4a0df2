package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/homico/browse/internal/domain"
	logpkg "github.com/homico/browse/internal/logger"
)

// ErrorCode is the machine-readable error code in API error responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeSessionNotFound    ErrorCode = "session_not_found"
	CodeTooManySessions    ErrorCode = "too_many_sessions"
	CodeInvalidAction      ErrorCode = "invalid_action"
	CodeCategoryNotFound   ErrorCode = "category_not_found"
	CodeBackendUnavailable ErrorCode = "backend_unavailable"
	CodeBackendRejected    ErrorCode = "backend_rejected"
	CodeNotFound           ErrorCode = "not_found"
	CodeMethodNotAllowed   ErrorCode = "method_not_allowed"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrTooManySessions, http.StatusServiceUnavailable, CodeTooManySessions),
		invalidActionHandler,
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, CodeCategoryNotFound),
		sentinelHandler(domain.ErrBackendRejected, http.StatusBadGateway, CodeBackendRejected),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrTooManySessions,
		domain.ErrInvalidAction,
		domain.ErrCategoryNotFound,
		domain.ErrBackendRejected,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidActionHandler reports the full validation message; it names the
// offending action and op, never internal state.
func invalidActionHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidAction) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidAction, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

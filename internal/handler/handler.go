package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"mini-bookstore/internal/model"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Str("error", code).
		Str("message", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: chimiddleware.GetReqID(r.Context()),
	})
}

// writeServiceError maps a service error onto the HTTP error taxonomy.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status := statusForCode(de.Code)
		logger.Warn().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("error", de.Code).
			Int("status", status).
			Msg(de.Message)
		writeJSON(w, status, model.ErrorResponse{
			Error:         de.Code,
			Message:       de.Message,
			CorrelationID: chimiddleware.GetReqID(r.Context()),
			Fields:        de.Fields,
		})
		return
	}

	logger.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("request failed")
	if isTransient(err) {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeUnavailable, "Service temporarily unavailable, please retry", logger)
		return
	}
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeInvalidAddress,
		model.ErrCodeInvalidCartLine,
		model.ErrCodeEmptyCart,
		model.ErrCodeUnsupportedPayment,
		model.ErrCodePaymentInit,
		model.ErrCodeInvalidAmount,
		model.ErrCodeInvalidMonth:
		return http.StatusBadRequest
	case model.ErrCodeCartItemNotFound,
		model.ErrCodePaymentNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateLine,
		model.ErrCodeChecksumMismatch,
		model.ErrCodeRefundNotAllowed:
		return http.StatusConflict
	case model.ErrCodePaymentNotConfirmed:
		return http.StatusPaymentRequired
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// isTransient recognises storage that is unreachable rather than misbehaving.
func isTransient(err error) bool {
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr),
		pgconn.Timeout(err),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return true
	}
	return false
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
}

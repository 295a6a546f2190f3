package handler

// RESPONSE HELPERS:
// Every response body is JSON. Errors always have one shape:
//
//	{"error": "Todo content is required"}
//
// Client errors carry the AppError message. Internal errors carry the route's
// generic fallback message and the real cause only goes to the log.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/todo-api/internal/apperror"
)

// maxBodyBytes caps request bodies. Todos are short text.
const maxBodyBytes = 1 << 20

const msgInvalidJSON = "Invalid JSON body"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of acknowledgement responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data as JSON with the given status. Headers must be set
// before WriteHeader; once the body starts they are frozen.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; logging is all that is left.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps err to a status code and writes the error body.
//
//	ErrValidation, ErrConflict → 400
//	ErrUnauthorized            → 401
//	ErrForbidden               → 403
//	ErrNotFound                → 404
//	anything else              → 500 with fallback as the message
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{Error: appErr.Message})
			return
		}
	}

	// Never expose the raw error: it may contain SQL or file paths.
	logger.ErrorContext(r.Context(), fallback,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

// decodeJSON reads the request body into dst. An empty body leaves dst at its
// zero value so the route's own presence checks produce the error message.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", msgInvalidJSON)
	}
	return nil
}

// HandleNotFound answers unknown routes in the same JSON shape as every
// other error.
func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// HandleMethodNotAllowed answers known paths called with the wrong method.
func HandleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
}

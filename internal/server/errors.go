package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/lineplanner/pkg/errors"
)

// errorBody is the JSON error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps coded errors to HTTP statuses. Uncoded errors are
// internal and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		if code == "" {
			code = errors.ErrCodeInternal
			msg = "internal server error"
		}
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeHeaderNotFound,
		errors.ErrCodeRequiredColumnMissing,
		errors.ErrCodeNoOperations,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidWorkbook,
		errors.ErrCodeInvalidParameters,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLineNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func badRequest(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

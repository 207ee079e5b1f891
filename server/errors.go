package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

// errorResponse is the JSON body of every failed API request.
type errorResponse struct {
	Error *uerrors.UnitError `json:"error"`
}

// statusFor maps an error class to an HTTP status.
func statusFor(ue *uerrors.UnitError) int {
	switch ue.Class {
	case uerrors.ClassUndefined:
		return http.StatusNotFound
	case uerrors.ClassMismatch, uerrors.ClassValue, uerrors.ClassValidation:
		return http.StatusBadRequest
	case uerrors.ClassLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as JSON. A zero status is derived from the error
// class; errors that are not UnitErrors become 500s and are logged.
func (s *Server) writeError(w http.ResponseWriter, err error, status int) {
	var ue *uerrors.UnitError
	if !errors.As(err, &ue) {
		s.logger.Error("request failed", zap.Error(err))
		ue = uerrors.NewSimple("internal", http.StatusText(http.StatusInternalServerError))
		if status == 0 {
			status = http.StatusInternalServerError
		}
	}
	if status == 0 {
		status = statusFor(ue)
	}
	writeJSON(w, status, errorResponse{Error: ue})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

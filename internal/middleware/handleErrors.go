package middleware

import (
	"encoding/json"
	"net/http"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
)

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func ErrorHandler(logger logging.Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			if !customerrors.IsClientError(err) {
				logger.Error(r.Context(), "request failed", "error", err)
			}
			handleHttpError(w, err)
		}
	}
}

func handleHttpError(w http.ResponseWriter, err error) {
	status := customerrors.GetStatus(err)
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)

	res := &customerrors.Error{
		Code:    status,
		Message: customerrors.GetMessage(err),
	}

	_ = json.NewEncoder(w).Encode(res)
}

package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/dto"
	"mimoapp/internal/learning/service"
)

const maxBodyBytes = 1 << 20

func respond(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customerrors.ErrBadRequest
	}
	return dto.Validate(dst)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.Invalid("invalid id")
	}
	return id, nil
}

// page reads the skip and limit query parameters.
func page(r *http.Request) (service.Page, error) {
	var p service.Page
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, customerrors.Invalid("invalid skip")
		}
		p.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, customerrors.Invalid("invalid limit")
		}
		p.Limit = n
	}
	return p, nil
}

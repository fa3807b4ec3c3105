package controller

import (
	"context"
	"net/http"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/dto"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemController struct {
	db Pinger
}

func NewSystemController(db Pinger) *SystemController {
	return &SystemController{db: db}
}

func (c *SystemController) Root(w http.ResponseWriter, r *http.Request) error {
	return respond(w, http.StatusOK, dto.MessageResponse{Message: "Welcome to MimoApp"})
}

func (c *SystemController) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	if err := c.db.Ping(r.Context()); err != nil {
		return customerrors.ErrDbUnreacheable
	}
	return respond(w, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}

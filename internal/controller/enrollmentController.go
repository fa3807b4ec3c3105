package controller

import (
	"net/http"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/dto"
	"mimoapp/internal/learning/service"
	"mimoapp/internal/middleware"
	"mimoapp/internal/models"
)

type EnrollmentController struct {
	enrollments service.EnrollmentService
}

func NewEnrollmentController(enrollments service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollments: enrollments}
}

func currentUser(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, customerrors.ErrInvalidToken
	}
	return user, nil
}

func (c *EnrollmentController) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var req dto.EnrollmentRequest
	if err := decode(w, r, &req); err != nil {
		return err
	}

	enrollment, err := c.enrollments.Enroll(r.Context(), user, req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, enrollment)
}

func (c *EnrollmentController) List(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	p, err := page(r)
	if err != nil {
		return err
	}

	enrollments, err := c.enrollments.List(r.Context(), user, p)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, enrollments)
}

func (c *EnrollmentController) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}

	enrollment, err := c.enrollments.Get(r.Context(), user, id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, enrollment)
}

func (c *EnrollmentController) Update(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req dto.EnrollmentUpdate
	if err := decode(w, r, &req); err != nil {
		return err
	}

	enrollment, err := c.enrollments.Update(r.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, enrollment)
}

func (c *EnrollmentController) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := c.enrollments.Delete(r.Context(), user, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

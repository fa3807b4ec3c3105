package controller

import (
	"net/http"

	"mimoapp/internal/dto"
	"mimoapp/internal/learning/service"
)

type LessonController struct {
	catalog service.CatalogService
}

func NewLessonController(catalog service.CatalogService) *LessonController {
	return &LessonController{catalog: catalog}
}

func (c *LessonController) Create(w http.ResponseWriter, r *http.Request) error {
	var req dto.LessonRequest
	if err := decode(w, r, &req); err != nil {
		return err
	}

	lesson, err := c.catalog.CreateLesson(r.Context(), req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, lesson)
}

func (c *LessonController) List(w http.ResponseWriter, r *http.Request) error {
	p, err := page(r)
	if err != nil {
		return err
	}

	lessons, err := c.catalog.ListLessons(r.Context(), p)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, lessons)
}

func (c *LessonController) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	lesson, err := c.catalog.GetLesson(r.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, lesson)
}

func (c *LessonController) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req dto.LessonUpdate
	if err := decode(w, r, &req); err != nil {
		return err
	}

	lesson, err := c.catalog.UpdateLesson(r.Context(), id, req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, lesson)
}

func (c *LessonController) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := c.catalog.DeleteLesson(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

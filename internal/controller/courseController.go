package controller

import (
	"net/http"

	"mimoapp/internal/dto"
	"mimoapp/internal/learning/service"
)

type CourseController struct {
	catalog service.CatalogService
}

func NewCourseController(catalog service.CatalogService) *CourseController {
	return &CourseController{catalog: catalog}
}

func (c *CourseController) Create(w http.ResponseWriter, r *http.Request) error {
	var req dto.CourseRequest
	if err := decode(w, r, &req); err != nil {
		return err
	}

	course, err := c.catalog.CreateCourse(r.Context(), req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, course)
}

func (c *CourseController) List(w http.ResponseWriter, r *http.Request) error {
	p, err := page(r)
	if err != nil {
		return err
	}

	courses, err := c.catalog.ListCourses(r.Context(), p)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, courses)
}

func (c *CourseController) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	course, err := c.catalog.GetCourse(r.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, course)
}

func (c *CourseController) Lessons(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	lessons, err := c.catalog.ListCourseLessons(r.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, lessons)
}

func (c *CourseController) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req dto.CourseUpdate
	if err := decode(w, r, &req); err != nil {
		return err
	}

	course, err := c.catalog.UpdateCourse(r.Context(), id, req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, course)
}

func (c *CourseController) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := c.catalog.DeleteCourse(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

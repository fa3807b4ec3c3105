// Package service holds the course catalog and enrollment use cases. Writes
// are authorised by the caller; enrollment operations are always bound to the
// user passed in.
package service

import (
	"context"
	"time"

	"mimoapp/internal/dto"
	"mimoapp/internal/learning/repository"
	"mimoapp/internal/logging"
	"mimoapp/internal/models"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize clamps p into the accepted window.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

type CatalogService interface {
	CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, page Page) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req dto.CourseUpdate) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error

	CreateLesson(ctx context.Context, req dto.LessonRequest) (*models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, page Page) ([]models.Lesson, error)
	ListCourseLessons(ctx context.Context, courseID int64) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, req dto.LessonUpdate) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}

type CatalogServiceImpl struct {
	courses repository.CourseRepository
	lessons repository.LessonRepository
	logger  logging.Logger
}

func NewCatalogService(courses repository.CourseRepository, lessons repository.LessonRepository, logger logging.Logger) CatalogService {
	return &CatalogServiceImpl{
		courses: courses,
		lessons: lessons,
		logger:  logger.With("module", "catalog"),
	}
}

func (s *CatalogServiceImpl) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	course, err := s.courses.Create(ctx, &models.Course{Title: req.Title, Description: req.Description})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "course created", "course_id", course.ID)
	return course, nil
}

func (s *CatalogServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) ListCourses(ctx context.Context, page Page) ([]models.Course, error) {
	page = page.Normalize()
	return s.courses.List(ctx, page.Offset, page.Limit)
}

func (s *CatalogServiceImpl) UpdateCourse(ctx context.Context, id int64, req dto.CourseUpdate) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CatalogServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "course deleted", "course_id", id)
	return nil
}

func (s *CatalogServiceImpl) CreateLesson(ctx context.Context, req dto.LessonRequest) (*models.Lesson, error) {
	return s.lessons.Create(ctx, &models.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: req.CourseID,
	})
}

func (s *CatalogServiceImpl) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) ListLessons(ctx context.Context, page Page) ([]models.Lesson, error) {
	page = page.Normalize()
	return s.lessons.List(ctx, page.Offset, page.Limit)
}

// ListCourseLessons reports a missing course rather than an empty list.
func (s *CatalogServiceImpl) ListCourseLessons(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *CatalogServiceImpl) UpdateLesson(ctx context.Context, id int64, req dto.LessonUpdate) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.CourseID != nil {
		lesson.CourseID = *req.CourseID
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CatalogServiceImpl) DeleteLesson(ctx context.Context, id int64) error {
	return s.lessons.Delete(ctx, id)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, user *models.User, req dto.EnrollmentRequest) (*models.Enrollment, error)
	Get(ctx context.Context, user *models.User, id int64) (*models.Enrollment, error)
	List(ctx context.Context, user *models.User, page Page) ([]models.Enrollment, error)
	Update(ctx context.Context, user *models.User, id int64, req dto.EnrollmentUpdate) (*models.Enrollment, error)
	Delete(ctx context.Context, user *models.User, id int64) error
}

type EnrollmentServiceImpl struct {
	repo   repository.EnrollmentRepository
	logger logging.Logger
	now    func() time.Time
}

func NewEnrollmentService(repo repository.EnrollmentRepository, logger logging.Logger) EnrollmentService {
	return &EnrollmentServiceImpl{
		repo:   repo,
		logger: logger.With("module", "enrollment"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *EnrollmentServiceImpl) Enroll(ctx context.Context, user *models.User, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.repo.Create(ctx, &models.Enrollment{
		UserID:     user.ID,
		CourseID:   req.CourseID,
		EnrolledAt: s.now().Truncate(time.Second),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user enrolled", "user_id", user.ID, "course_id", req.CourseID)
	return enrollment, nil
}

func (s *EnrollmentServiceImpl) Get(ctx context.Context, user *models.User, id int64) (*models.Enrollment, error) {
	return s.repo.GetByID(ctx, user.ID, id)
}

func (s *EnrollmentServiceImpl) List(ctx context.Context, user *models.User, page Page) ([]models.Enrollment, error) {
	page = page.Normalize()
	return s.repo.List(ctx, user.ID, page.Offset, page.Limit)
}

func (s *EnrollmentServiceImpl) Update(ctx context.Context, user *models.User, id int64, req dto.EnrollmentUpdate) (*models.Enrollment, error) {
	enrollment, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		enrollment.CourseID = *req.CourseID
	}
	if req.Completed != nil {
		enrollment.Completed = *req.Completed
	}

	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentServiceImpl) Delete(ctx context.Context, user *models.User, id int64) error {
	return s.repo.Delete(ctx, user.ID, id)
}

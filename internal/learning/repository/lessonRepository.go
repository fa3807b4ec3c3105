package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/dbx"
	"mimoapp/internal/models"
)

var (
	errLessonExists  = customerrors.Conflict("lesson")
	errLessonMissing = customerrors.Missing("lesson")
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error)
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	List(ctx context.Context, offset, limit int) ([]models.Lesson, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
}

type LessonRepositoryImpl struct {
	db dbx.DBTX
}

func NewLessonRepository(db dbx.DBTX, dialect dbx.Dialect) LessonRepository {
	return &LessonRepositoryImpl{db: dbx.Bind(db, dialect)}
}

func (r *LessonRepositoryImpl) Create(ctx context.Context, lesson *models.Lesson) (*models.Lesson, error) {
	query := "INSERT INTO lessons (title, content, course_id) VALUES ($1, $2, $3) RETURNING id"

	created := *lesson
	err := r.db.QueryRowContext(ctx, query, lesson.Title, lesson.Content, lesson.CourseID).Scan(&created.ID)
	if err != nil {
		return nil, lessonWriteError(err)
	}
	return &created, nil
}

func (r *LessonRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := "SELECT id, title, content, course_id FROM lessons WHERE id = $1"

	var l models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Title, &l.Content, &l.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errLessonMissing
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &l, nil
}

func (r *LessonRepositoryImpl) List(ctx context.Context, offset, limit int) ([]models.Lesson, error) {
	query := "SELECT id, title, content, course_id FROM lessons ORDER BY id LIMIT $1 OFFSET $2"
	return r.query(ctx, query, limit, offset)
}

func (r *LessonRepositoryImpl) ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	query := "SELECT id, title, content, course_id FROM lessons WHERE course_id = $1 ORDER BY id"
	return r.query(ctx, query, courseID)
}

func (r *LessonRepositoryImpl) Update(ctx context.Context, lesson *models.Lesson) error {
	query := "UPDATE lessons SET title = $1, content = $2, course_id = $3 WHERE id = $4"

	res, err := r.db.ExecContext(ctx, query, lesson.Title, lesson.Content, lesson.CourseID, lesson.ID)
	if err != nil {
		return lessonWriteError(err)
	}
	return expectAffected(res, errLessonMissing)
}

func (r *LessonRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, errLessonMissing)
}

func (r *LessonRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]models.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Content, &l.CourseID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lessons, nil
}

func lessonWriteError(err error) error {
	switch {
	case dbx.IsUniqueViolation(err):
		return errLessonExists
	case dbx.IsForeignKeyViolation(err):
		return errCourseMissing
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

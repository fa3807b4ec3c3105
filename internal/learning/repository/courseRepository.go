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
	errCourseExists  = customerrors.Conflict("course")
	errCourseMissing = customerrors.Missing("course")
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, offset, limit int) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type CourseRepositoryImpl struct {
	db dbx.DBTX
}

func NewCourseRepository(db dbx.DBTX, dialect dbx.Dialect) CourseRepository {
	return &CourseRepositoryImpl{db: dbx.Bind(db, dialect)}
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	query := "INSERT INTO courses (title, description) VALUES ($1, $2) RETURNING id"

	created := *course
	err := r.db.QueryRowContext(ctx, query, course.Title, course.Description).Scan(&created.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, errCourseExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *CourseRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := "SELECT id, title, description FROM courses WHERE id = $1"

	var c models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errCourseMissing
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *CourseRepositoryImpl) List(ctx context.Context, offset, limit int) ([]models.Course, error) {
	query := "SELECT id, title, description FROM courses ORDER BY id LIMIT $1 OFFSET $2"

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return courses, nil
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, course *models.Course) error {
	query := "UPDATE courses SET title = $1, description = $2 WHERE id = $3"

	res, err := r.db.ExecContext(ctx, query, course.Title, course.Description, course.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return errCourseExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, errCourseMissing)
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, errCourseMissing)
}

// expectAffected returns missing when the statement touched no rows.
func expectAffected(res sql.Result, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}

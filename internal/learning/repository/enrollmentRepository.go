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
	errEnrollmentExists  = customerrors.Conflict("enrollment")
	errEnrollmentMissing = customerrors.Missing("enrollment")
)

// EnrollmentRepository scopes every read and write to the owning user, so a
// foreign enrollment is indistinguishable from a missing one.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Enrollment, error)
	List(ctx context.Context, userID int64, offset, limit int) ([]models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, userID, id int64) error
}

type EnrollmentRepositoryImpl struct {
	conn    *sql.DB
	dialect dbx.Dialect
	db      dbx.DBTX
}

func NewEnrollmentRepository(conn *sql.DB, dialect dbx.Dialect) EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		conn:    conn,
		dialect: dialect,
		db:      dbx.Bind(conn, dialect),
	}
}

// Create checks the course inside the same transaction as the insert so a
// missing course is reported as such on every driver.
func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	created := *enrollment

	err := dbx.WithTx(ctx, r.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tx = dbx.Bind(tx, r.dialect)

		var exists bool
		err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)", enrollment.CourseID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if !exists {
			return errCourseMissing
		}

		query := "INSERT INTO enrollments (user_id, course_id, enrolled_at, completed) VALUES ($1, $2, $3, $4) RETURNING id"
		err = tx.QueryRowContext(ctx, query,
			enrollment.UserID,
			enrollment.CourseID,
			enrollment.EnrolledAt,
			enrollment.Completed,
		).Scan(&created.ID)
		if err != nil {
			return enrollmentWriteError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *EnrollmentRepositoryImpl) GetByID(ctx context.Context, userID, id int64) (*models.Enrollment, error) {
	query := `
        SELECT id, user_id, course_id, enrolled_at, completed
        FROM enrollments
        WHERE id = $1 AND user_id = $2
    `

	var e models.Enrollment
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&e.ID,
		&e.UserID,
		&e.CourseID,
		&e.EnrolledAt,
		&e.Completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errEnrollmentMissing
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}

func (r *EnrollmentRepositoryImpl) List(ctx context.Context, userID int64, offset, limit int) ([]models.Enrollment, error) {
	query := `
        SELECT id, user_id, course_id, enrolled_at, completed
        FROM enrollments
        WHERE user_id = $1
        ORDER BY id
        LIMIT $2 OFFSET $3
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.Completed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepositoryImpl) Update(ctx context.Context, enrollment *models.Enrollment) error {
	query := "UPDATE enrollments SET course_id = $1, completed = $2 WHERE id = $3 AND user_id = $4"

	res, err := r.db.ExecContext(ctx, query,
		enrollment.CourseID,
		enrollment.Completed,
		enrollment.ID,
		enrollment.UserID,
	)
	if err != nil {
		return enrollmentWriteError(err)
	}
	return expectAffected(res, errEnrollmentMissing)
}

func (r *EnrollmentRepositoryImpl) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, errEnrollmentMissing)
}

func enrollmentWriteError(err error) error {
	switch {
	case dbx.IsUniqueViolation(err):
		return errEnrollmentExists
	case dbx.IsForeignKeyViolation(err):
		return errCourseMissing
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

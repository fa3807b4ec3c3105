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

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hashedPassword string) error
}

type UserRepositoryImpl struct {
	db dbx.DBTX
}

func NewUserRepository(db dbx.DBTX, dialect dbx.Dialect) UserRepository {
	return &UserRepositoryImpl{db: dbx.Bind(db, dialect)}
}

// FindByEmail matches on the folded email key, so lookups are
// case-insensitive. customerrors.ErrNotFound is returned when absent.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
        SELECT id, username, email, hashed_password
        FROM users
        WHERE email_key = $1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
        SELECT id, username, email, hashed_password
        FROM users
        WHERE id = $1
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepositoryImpl) Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	query := "INSERT INTO users (username, email, email_key, hashed_password) VALUES ($1, $2, $3, $4) RETURNING id"

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
	}

	err := r.db.QueryRowContext(ctx, query,
		username,
		email,
		models.NormalizeEmail(email),
		hashedPassword,
	).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, customerrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *UserRepositoryImpl) UpdatePasswordHash(ctx context.Context, id int64, hashedPassword string) error {
	query := "UPDATE users SET hashed_password = $1 WHERE id = $2"

	res, err := r.db.ExecContext(ctx, query, hashedPassword, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

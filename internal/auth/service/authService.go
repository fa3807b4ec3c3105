package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mimoapp/internal/auth/password"
	"mimoapp/internal/auth/repository"
	"mimoapp/internal/auth/token"
	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
	"mimoapp/internal/models"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	// Authenticate returns nil, nil when the email is unknown or the password
	// does not match. The two cases are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.AccessToken, error)
	ResolveCurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, current, next string) error
}

type AuthServiceImpl struct {
	repo     repository.UserRepository
	hasher   password.Hasher
	tokens   token.Token
	tokenTTL time.Duration
	logger   logging.Logger
}

func NewAuthService(
	repo repository.UserRepository,
	hasher password.Hasher,
	tokens token.Token,
	tokenTTL time.Duration,
	logger logging.Logger,
) AuthService {
	return &AuthServiceImpl{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger.With("module", "auth"),
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, plaintext string) (*models.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, customerrors.ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, customerrors.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, models.DeriveUsername(email), email, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, email, plaintext string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(plaintext, user.HashedPassword)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID)
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, plaintext string) (*models.AccessToken, error) {
	user, err := s.Authenticate(ctx, email, plaintext)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Info(ctx, "login rejected")
		return nil, customerrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return &models.AccessToken{
		AccessToken: accessToken,
		TokenType:   models.TokenTypeBearer,
	}, nil
}

func (s *AuthServiceImpl) ResolveCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	subject, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, customerrors.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			s.logger.Warn(ctx, "token subject no longer exists", "user_id", subject)
			return nil, customerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	ok, err := s.hasher.Verify(current, user.HashedPassword)
	if err != nil {
		return err
	}
	if !ok {
		return customerrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			return customerrors.ErrUserNotFound
		}
		return err
	}

	s.logger.Info(ctx, "password changed", "user_id", user.ID)
	return nil
}

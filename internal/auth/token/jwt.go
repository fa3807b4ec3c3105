// Package token issues and validates the stateless bearer tokens handed out
// at login. Tokens are HMAC-signed JWTs carrying the user id as subject.
package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
)

type Token interface {
	// Issue signs a token for subject valid for ttl; ttl == 0 selects the
	// configured default.
	Issue(subject int64, ttl time.Duration) (string, error)
	// Validate returns the subject of a well-formed, correctly signed,
	// unexpired token and customerrors.ErrInvalidToken otherwise.
	Validate(tokenString string) (int64, error)
}

type JWT struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	logger     logging.Logger
	now        func() time.Time
}

func NewJWT(secret []byte, algorithm string, defaultTTL time.Duration, logger logging.Logger) (*JWT, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &JWT{
		secret:     secret,
		method:     method,
		defaultTTL: defaultTTL,
		logger:     logger.With("module", "token"),
		now:        time.Now,
	}, nil
}

func (j *JWT) Issue(subject int64, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = j.defaultTTL
	}

	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subject, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tokenString, err := jwt.NewWithClaims(j.method, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (j *JWT) Validate(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		j.logger.Debug(context.Background(), "token rejected", "reason", rejectionReason(err))
		return 0, customerrors.ErrInvalidToken
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		j.logger.Debug(context.Background(), "token rejected", "reason", "subject")
		return 0, customerrors.ErrInvalidToken
	}

	return subject, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing_claim"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "malformed"
	}
}

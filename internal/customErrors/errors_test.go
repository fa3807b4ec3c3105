package customerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"

	customerrors "mimoapp/internal/customErrors"
)

func TestGetStatusAndMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
		expectedCode    codes.Code
	}{
		{
			name:            "Already exists",
			err:             customerrors.ErrEmailAlreadyExists,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "user already registered",
			expectedCode:    codes.AlreadyExists,
		},
		{
			name:            "Invalid credentials",
			err:             customerrors.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "incorrect email or password",
			expectedCode:    codes.Unauthenticated,
		},
		{
			name:            "User not found maps to unauthenticated",
			err:             customerrors.ErrUserNotFound,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "user not found",
			expectedCode:    codes.Unauthenticated,
		},
		{
			name:            "Wrapped typed error",
			err:             fmt.Errorf("create course: %w", customerrors.Conflict("course")),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "course already exists",
			expectedCode:    codes.AlreadyExists,
		},
		{
			name:            "Validation failure stays invalid argument",
			err:             customerrors.Invalid("email: failed email"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "email: failed email",
			expectedCode:    codes.InvalidArgument,
		},
		{
			name:            "Missing entity",
			err:             customerrors.Missing("lesson"),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "lesson not found",
			expectedCode:    codes.NotFound,
		},
		{
			name:            "Unknown error is fatal and hides details",
			err:             errors.New("pq: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "internal server error",
			expectedCode:    codes.Internal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expectedStatus, customerrors.GetStatus(tc.err))
			assert.Equal(t, tc.expectedMessage, customerrors.GetMessage(tc.err))
			assert.Equal(t, tc.expectedCode, customerrors.GetGRPCCode(tc.err))
		})
	}
}

func TestIsConflict(t *testing.T) {
	t.Parallel()

	assert.True(t, customerrors.IsConflict(customerrors.ErrAlreadyExists))
	assert.True(t, customerrors.IsConflict(fmt.Errorf("register: %w", customerrors.ErrEmailAlreadyExists)))
	assert.True(t, customerrors.IsConflict(customerrors.Conflict("enrollment")))
	assert.False(t, customerrors.IsConflict(customerrors.ErrBadRequest))
	assert.False(t, customerrors.IsConflict(errors.New("duplicate key")))
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	assert.True(t, customerrors.IsClientError(customerrors.ErrInvalidToken))
	assert.True(t, customerrors.IsClientError(fmt.Errorf("wrap: %w", customerrors.ErrNotFound)))
	assert.False(t, customerrors.IsClientError(customerrors.ErrInternalServer))
	assert.False(t, customerrors.IsClientError(errors.New("boom")))
}

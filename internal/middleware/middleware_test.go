package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
	"mimoapp/internal/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.AccessToken, error) {
	args := m.Called(ctx, email, password)
	t, _ := args.Get(0).(*models.AccessToken)
	return t, args.Error(1)
}

func (m *MockAuthService) ResolveCurrentUser(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	return m.Called(ctx, user, current, next).Error(0)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
		expectChallenge bool
	}{
		{name: "No error", expectedStatus: http.StatusNoContent},
		{name: "Client error", err: customerrors.ErrEmailAlreadyExists, expectedStatus: 400, expectedMessage: "user already registered"},
		{name: "Unauthorized adds challenge", err: customerrors.ErrInvalidCredentials, expectedStatus: 401, expectedMessage: "incorrect email or password", expectChallenge: true},
		{name: "Unknown error hides detail", err: errors.New("db error: password=hunter2"), expectedStatus: 500, expectedMessage: "internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := ErrorHandler(logging.Nop(), func(w http.ResponseWriter, r *http.Request) error {
				if tc.err != nil {
					return tc.err
				}
				w.WriteHeader(http.StatusNoContent)
				return nil
			})

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectChallenge {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
			if tc.expectedMessage == "" {
				return
			}

			var body customerrors.Error
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.expectedStatus, body.Code)
			assert.Equal(t, tc.expectedMessage, body.Message)
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(&buf, "info")
	existing := uuid.NewString()

	testCases := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "Generated when absent"},
		{name: "Reused when valid", header: existing, keep: true},
		{name: "Replaced when not a uuid", header: "<script>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			h := LoggingMiddleware(logger)(func(w http.ResponseWriter, r *http.Request) error {
				seen = logging.RequestID(r.Context())
				w.WriteHeader(http.StatusCreated)
				return nil
			})

			req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h(rec, req))

			got := rec.Header().Get(RequestIDHeader)
			assert.Equal(t, seen, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
			if tc.keep {
				assert.Equal(t, existing, got)
			}
		})
	}

	assert.Contains(t, buf.String(), `"status":201`)
}

func TestTrustProxyMiddleware(t *testing.T) {
	t.Parallel()

	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	testCases := []struct {
		name           string
		remoteAddr     string
		realIP         string
		forwardedFor   string
		expectedIP     string
		expectedScheme string
		expectedHost   string
	}{
		{
			name:           "Trusted proxy",
			remoteAddr:     "10.0.0.2:4000",
			forwardedFor:   "203.0.113.7, 10.0.0.1",
			expectedIP:     "203.0.113.7",
			expectedScheme: "https",
			expectedHost:   "api.mimo.example",
		},
		{
			name:           "Trusted proxy prefers X-Real-IP",
			remoteAddr:     "10.0.0.2:4000",
			realIP:         "198.51.100.9",
			forwardedFor:   "203.0.113.7",
			expectedIP:     "198.51.100.9",
			expectedScheme: "https",
			expectedHost:   "api.mimo.example",
		},
		{
			name:           "Spoofed hop left of the real client is ignored",
			remoteAddr:     "10.0.0.2:4000",
			forwardedFor:   "1.2.3.4, 203.0.113.7",
			expectedIP:     "203.0.113.7",
			expectedScheme: "https",
			expectedHost:   "api.mimo.example",
		},
		{
			name:         "Untrusted peer keeps its address",
			remoteAddr:   "203.0.113.50:1234",
			realIP:       "198.51.100.9",
			forwardedFor: "198.51.100.10",
			expectedIP:   "203.0.113.50",
			expectedHost: "example.com",
		},
		{
			name:           "Garbage forwarded for",
			remoteAddr:     "10.0.0.2:4000",
			forwardedFor:   "not-an-ip",
			expectedIP:     "10.0.0.2",
			expectedScheme: "https",
			expectedHost:   "api.mimo.example",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got *http.Request
			h := TrustProxyMiddleware(trusted)(func(w http.ResponseWriter, r *http.Request) error {
				got = r
				return nil
			})

			req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
			req.RemoteAddr = tc.remoteAddr
			req.Header.Set("X-Forwarded-Proto", "https")
			req.Header.Set("X-Forwarded-Host", "api.mimo.example")
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			req.Header.Set("X-Forwarded-For", tc.forwardedFor)
			require.NoError(t, h(httptest.NewRecorder(), req))

			assert.Equal(t, tc.expectedIP, ClientIP(got))
			assert.Equal(t, tc.expectedHost, got.Host)
			if tc.expectedScheme != "" {
				assert.Equal(t, tc.expectedScheme, got.URL.Scheme)
			} else {
				assert.NotEqual(t, "https", got.URL.Scheme)
			}
		})
	}
}

func TestLoginThrottle_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(0.001, 1)
	h := TrustProxyMiddleware(nil)(l.Middleware(func(w http.ResponseWriter, r *http.Request) error { return nil }))

	rejected := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))
		if err := h(httptest.NewRecorder(), req); errors.Is(err, customerrors.ErrTooManyRequests) {
			rejected++
		}
	}

	assert.Equal(t, 49, rejected)
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.visitors, 1)
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	bob := &models.User{ID: 1, Username: "bob", Email: "bob@example.com"}

	testCases := []struct {
		name          string
		authorization string
		mockSetup     func(*MockAuthService)
		expectedError error
	}{
		{
			name:          "Valid bearer",
			authorization: "Bearer good",
			mockSetup: func(m *MockAuthService) {
				m.On("ResolveCurrentUser", mock.Anything, "good").Return(bob, nil)
			},
		},
		{
			name:          "Scheme is case insensitive",
			authorization: "bearer good",
			mockSetup: func(m *MockAuthService) {
				m.On("ResolveCurrentUser", mock.Anything, "good").Return(bob, nil)
			},
		},
		{name: "Missing header", expectedError: customerrors.ErrInvalidToken},
		{name: "Wrong scheme", authorization: "Basic Ym9iOnB3", expectedError: customerrors.ErrInvalidToken},
		{name: "Empty token", authorization: "Bearer ", expectedError: customerrors.ErrInvalidToken},
		{
			name:          "Rejected token",
			authorization: "Bearer bad",
			mockSetup: func(m *MockAuthService) {
				m.On("ResolveCurrentUser", mock.Anything, "bad").Return(nil, customerrors.ErrInvalidToken)
			},
			expectedError: customerrors.ErrInvalidToken,
		},
		{
			name:          "Deleted user",
			authorization: "Bearer orphan",
			mockSetup: func(m *MockAuthService) {
				m.On("ResolveCurrentUser", mock.Anything, "orphan").Return(nil, customerrors.ErrUserNotFound)
			},
			expectedError: customerrors.ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &MockAuthService{}
			if tc.mockSetup != nil {
				tc.mockSetup(svc)
			}

			var resolved *models.User
			h := RequireUser(svc)(func(w http.ResponseWriter, r *http.Request) error {
				resolved, _ = UserFromContext(r.Context())
				return nil
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			err := h(httptest.NewRecorder(), req)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, resolved)
			} else {
				require.NoError(t, err)
				assert.Equal(t, bob, resolved)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst exhausted")
	assert.True(t, l.Allow("b"), "clients are independent")

	clock = clock.Add(time.Second)
	assert.True(t, l.Allow("a"), "token refilled")

	clock = clock.Add(limiterIdleTTL + 2*time.Minute)
	l.Allow("b")
	l.mu.Lock()
	_, stillTracked := l.visitors["a"]
	l.mu.Unlock()
	assert.False(t, stillTracked, "idle visitor evicted")
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(0.001, 1)
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) error { return nil })

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "198.51.100.4:5555"

	require.NoError(t, h(httptest.NewRecorder(), req))

	rec := httptest.NewRecorder()
	err := h(rec, req)
	assert.ErrorIs(t, err, customerrors.ErrTooManyRequests)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestNewRateLimiter_DisabledWhenNonPositive(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(0, 0)
	for range 100 {
		require.True(t, l.Allow("x"))
	}
}

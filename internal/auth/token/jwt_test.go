package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/logging"
)

const testSecret = "super-secret"

func newTestJWT(t *testing.T, secret, alg string) *JWT {
	t.Helper()
	j, err := NewJWT([]byte(secret), alg, 30*time.Minute, logging.Nop())
	require.NoError(t, err)
	return j
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			j := newTestJWT(t, testSecret, alg)

			tok, err := j.Issue(42, time.Hour)
			require.NoError(t, err)
			assert.NotEmpty(t, tok)

			subject, err := j.Validate(tok)
			require.NoError(t, err)
			assert.Equal(t, int64(42), subject)
		})
	}
}

func TestIssue_ZeroTTLUsesDefault(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	j := newTestJWT(t, testSecret, "HS256")
	j.now = func() time.Time { return fixed }

	tok, err := j.Issue(7, 0)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestValidate_Rejections(t *testing.T) {
	t.Parallel()

	j := newTestJWT(t, testSecret, "HS256")
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	expired, err := j.Issue(1, -1*time.Second)
	require.NoError(t, err)

	otherSecret, err := newTestJWT(t, "wrong-secret", "HS256").Issue(1, time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "Different secret", token: otherSecret},
		{name: "Malformed string", token: "not.a.jwt"},
		{name: "Empty string", token: ""},
		{
			name:  "Different HMAC algorithm",
			token: signRaw(t, jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "1", ExpiresAt: future}, []byte(testSecret)),
		},
		{
			name:  "Unsigned token",
			token: signRaw(t, jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", ExpiresAt: future}, jwt.UnsafeAllowNoneSignatureType),
		},
		{
			name:  "Missing subject",
			token: signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: future}, []byte(testSecret)),
		},
		{
			name:  "Non numeric subject",
			token: signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob", ExpiresAt: future}, []byte(testSecret)),
		},
		{
			name:  "Zero subject",
			token: signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "0", ExpiresAt: future}, []byte(testSecret)),
		},
		{
			name:  "Missing expiry",
			token: signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}, []byte(testSecret)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			subject, err := j.Validate(tc.token)
			assert.Zero(t, subject)
			assert.ErrorIs(t, err, customerrors.ErrInvalidToken)
		})
	}
}

func TestNewJWT_InvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := NewJWT(nil, "HS256", time.Minute, logging.Nop())
	assert.Error(t, err)

	_, err = NewJWT([]byte("k"), "RS256", time.Minute, logging.Nop())
	assert.Error(t, err)

	_, err = NewJWT([]byte("k"), "nope", time.Minute, logging.Nop())
	assert.Error(t, err)
}

func TestRejectionReason(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "expired", rejectionReason(jwt.ErrTokenExpired))
	assert.Equal(t, "signature", rejectionReason(jwt.ErrTokenSignatureInvalid))
	assert.Equal(t, "missing_claim", rejectionReason(jwt.ErrTokenRequiredClaimMissing))
	assert.Equal(t, "malformed", rejectionReason(jwt.ErrTokenMalformed))
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"mimoapp/internal/auth/service"
	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/models"
)

type userKey struct{}

// UserFromContext returns the user resolved by RequireUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey{}).(*models.User)
	return user, ok
}

// RequireUser rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func RequireUser(authService service.AuthService) func(HandlerFunc) HandlerFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			token, ok := bearerToken(r)
			if !ok {
				return customerrors.ErrInvalidToken
			}

			user, err := authService.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				return err
			}

			return next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package controller

import (
	"net/http"

	"mimoapp/internal/auth/service"
	customerrors "mimoapp/internal/customErrors"
	"mimoapp/internal/dto"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		return err
	}

	user, err := c.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(w, http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		User:    user.Username,
	})
}

// Login accepts an OAuth2 password form where username carries the email.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return customerrors.ErrBadRequest
	}

	req := dto.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	res, err := c.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return respond(w, http.StatusOK, res)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, user)
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := decode(w, r, &req); err != nil {
		return err
	}

	if err := c.authService.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

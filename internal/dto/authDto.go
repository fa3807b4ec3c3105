package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is decoded from an OAuth2-style password form; the username
// field carries the email address.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

package auth

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
)

const minPasswordLength = 8

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// LogoutDTO optionally carries the refresh token so both halves of the pair are revoked.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return internal.NewValidationFieldError("current_password", "current_password is required", internal.ErrCodeValidationFailed)
	}
	if len(d.NewPassword) < minPasswordLength {
		return internal.NewValidationFieldError("new_password", "new_password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.NewPassword == d.CurrentPassword {
		return internal.NewValidationFieldError("new_password", "new_password must differ from the current one", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d ForgotPasswordDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ResetPasswordDTO struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (d ResetPasswordDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Token) == "" {
		return internal.NewValidationFieldError("token", "token is required", internal.ErrCodeValidationFailed)
	}
	if len(d.NewPassword) < minPasswordLength {
		return internal.NewValidationFieldError("new_password", "new_password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// PasswordResetAccepted is returned whether or not the email belongs to an account.
type PasswordResetAccepted struct {
	Message string `json:"message"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

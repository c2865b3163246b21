package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Credentials is what login needs to verify a password.
type Credentials struct {
	UserID       int64
	PasswordHash string
	IsActive     bool
}

// Profile is the identity snapshot that access tokens are minted from.
type Profile struct {
	UserID        int64    `json:"user_id"`
	Email         string   `json:"email"`
	FullName      string   `json:"full_name"`
	IsActive      bool     `json:"is_active"`
	Roles         []string `json:"roles"`
	Permissions   []string `json:"permissions"`
	EmployeeID    *int64   `json:"employee_id,omitempty"`
	DepartmentID  *int64   `json:"department_id,omitempty"`
	PositionLevel *int     `json:"position_level,omitempty"`
}

// Claims represents JWT token claims. It satisfies access.Principal so an
// AccessContext can be built straight from a validated token.
type Claims struct {
	UserID        int64     `json:"uid"`
	Email         string    `json:"email,omitempty"`
	FullName      string    `json:"name,omitempty"`
	Roles         []string  `json:"roles,omitempty"`
	Permissions   []string  `json:"permissions,omitempty"`
	EmployeeID    string    `json:"employee_id,omitempty"`
	DepartmentID  string    `json:"department_id,omitempty"`
	PositionLevel string    `json:"position_level,omitempty"`
	TokenType     TokenType `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) RoleNames() []string { return c.Roles }

func (c *Claims) ClaimValues(key string) []string {
	switch key {
	case access.ClaimPermission:
		return c.Permissions
	case access.ClaimEmployeeID:
		return single(c.EmployeeID)
	case access.ClaimDepartmentID:
		return single(c.DepartmentID)
	case access.ClaimPositionLevel:
		return single(c.PositionLevel)
	}
	return nil
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

// claimsFromProfile copies the profile into access claims. Integer attributes
// travel as strings, the same way any external identity provider would send them.
func claimsFromProfile(p *Profile) *Claims {
	c := &Claims{
		UserID:      p.UserID,
		Email:       p.Email,
		FullName:    p.FullName,
		Roles:       append([]string(nil), p.Roles...),
		Permissions: append([]string(nil), p.Permissions...),
		TokenType:   TokenTypeAccess,
	}
	if p.EmployeeID != nil {
		c.EmployeeID = strconv.FormatInt(*p.EmployeeID, 10)
	}
	if p.DepartmentID != nil {
		c.DepartmentID = strconv.FormatInt(*p.DepartmentID, 10)
	}
	if p.PositionLevel != nil {
		c.PositionLevel = strconv.Itoa(*p.PositionLevel)
	}
	return c
}

// TokenGenerator creates and verifies signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(p *Profile) (token string, err error)
	GenerateRefreshToken(userID int64) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetCredentialsByID(ctx context.Context, userID int64) (*Credentials, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// ProfileCache stores profiles between token refreshes. Misses return nil, nil.
type ProfileCache interface {
	Get(ctx context.Context, userID int64) (*Profile, error)
	Set(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, userID int64) error
}

// RevocationStore remembers token ids that must no longer be accepted.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ResetTokenStore keeps single-use password reset tokens. Consume returns 0 when the
// token is unknown, expired or already used.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Consume(ctx context.Context, token string) (int64, error)
}

// ResetNotifier delivers a reset token to the account owner.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	CurrentProfile(ctx context.Context, userID int64) (*Profile, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo        RepositoryAPI
	tokens      TokenGenerator
	cache       ProfileCache
	revocations RevocationStore
	resets      ResetTokenStore
	resetTTL    time.Duration
	notifier    ResetNotifier
	bcryptCost  int
	logger      *slog.Logger
	now         func() time.Time
	newToken    func() string
}

type Option func(*Service)

// WithProfileCache puts a cache in front of profile lookups.
func WithProfileCache(c ProfileCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRevocationStore enables logout and refresh token rotation.
func WithRevocationStore(r RevocationStore) Option {
	return func(s *Service) { s.revocations = r }
}

// WithPasswordReset enables the forgot / reset password flow.
func WithPasswordReset(store ResetTokenStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.resets = store
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithResetNotifier replaces the default notifier, which only logs the token at debug level.
func WithResetNotifier(n ResetNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithBCryptCost(cost int) Option {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:       repo,
		tokens:     tokens,
		resetTTL:   30 * time.Minute,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = logNotifier{logger: s.logger}
	}
	return s
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	creds, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil {
		s.logger.WarnContext(ctx, "login failed: unknown email")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.WarnContext(ctx, "login failed: password mismatch", "user_id", creds.UserID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	profile, err := s.loadProfile(ctx, creds.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	tokens, err := s.issue(profile)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.repo.TouchLastLogin(ctx, creds.UserID, s.now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login", "user_id", creds.UserID, "error", err)
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", creds.UserID, "roles", profile.Roles)
	return tokens, nil
}

// RefreshTokens validates the refresh token, revokes it and returns a new pair.
// The profile is reloaded so role changes take effect on refresh.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return AuthTokens{}, err
	}

	profile, err := s.loadProfile(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	if !profile.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	tokens, err := s.issue(profile)
	if err != nil {
		return AuthTokens{}, err
	}
	s.revoke(ctx, claims)
	return tokens, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	s.revoke(ctx, claims)

	if refreshToken != "" {
		refreshClaims, err := s.tokens.ValidateRefreshToken(refreshToken)
		if err != nil {
			return err
		}
		if refreshClaims.UserID != claims.UserID {
			return internal.ErrInvalidToken
		}
		s.revoke(ctx, refreshClaims)
	}
	return nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// CurrentProfile reads through the profile cache.
func (s *Service) CurrentProfile(ctx context.Context, userID int64) (*Profile, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "profile cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.loadProfile(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	creds, err := s.repo.GetCredentialsByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil {
		return internal.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrInvalidCredentials
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// ForgotPassword issues a single-use reset token for an active account. Unknown and
// inactive emails succeed silently so the response never reveals which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if s.resets == nil {
		return internal.NewInternalError("password reset is not configured", nil)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	creds, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		return internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil || !creds.IsActive {
		s.logger.InfoContext(ctx, "password reset requested for unknown or inactive account")
		return nil
	}

	token := s.newToken()
	if err := s.resets.Save(ctx, token, creds.UserID, s.resetTTL); err != nil {
		return internal.NewInternalError("failed to store reset token", err)
	}
	if err := s.notifier.SendPasswordReset(ctx, email, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver reset token", "user_id", creds.UserID, "error", err)
		return nil
	}
	s.logger.InfoContext(ctx, "password reset token issued", "user_id", creds.UserID, "ttl", s.resetTTL)
	return nil
}

// ResetPassword consumes the token and sets the new password. The token must have been
// issued for the account behind dto.Email; a mismatch still burns it.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if s.resets == nil {
		return internal.ErrInvalidResetToken
	}

	userID, err := s.resets.Consume(ctx, strings.TrimSpace(dto.Token))
	if err != nil {
		return internal.NewInternalError("failed to read reset token", err)
	}
	if userID == 0 {
		s.logger.WarnContext(ctx, "password reset with unknown or used token")
		return internal.ErrInvalidResetToken
	}

	creds, err := s.repo.GetCredentials(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return internal.NewInternalError("failed to load credentials", err)
	}
	if creds == nil || creds.UserID != userID {
		s.logger.WarnContext(ctx, "password reset token used for another account", "user_id", userID)
		return internal.ErrInvalidResetToken
	}
	if !creds.IsActive {
		return internal.ErrUserInactive
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}
	s.logger.InfoContext(ctx, "password reset", "user_id", userID)
	return nil
}

// logNotifier stands in until outbound mail exists.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	n.logger.DebugContext(ctx, "password reset token", "email", email, "token", token)
	return nil
}

// InvalidateProfile drops the cached profile for userID.
func (s *Service) InvalidateProfile(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "profile cache delete failed", "user_id", userID, "error", err)
	}
}

// HandleRolesChanged is an event handler for user.roles_changed.
func (s *Service) HandleRolesChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.RolesChangedEvent)
	if !ok {
		return nil
	}
	s.InvalidateProfile(ctx, changed.UserID)
	s.logger.InfoContext(ctx, "profile invalidated after role change", "user_id", changed.UserID, "roles", changed.Roles)
	return nil
}

// HandleProfileChanged is an event handler for user.profile_changed.
func (s *Service) HandleProfileChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.ProfileChangedEvent)
	if !ok {
		return nil
	}
	s.InvalidateProfile(ctx, changed.UserID)
	s.logger.InfoContext(ctx, "profile invalidated", "user_id", changed.UserID, "change", changed.Change)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) loadProfile(ctx context.Context, userID int64) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	if profile == nil {
		return nil, internal.ErrUserNotFound
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			s.logger.WarnContext(ctx, "profile cache write failed", "user_id", userID, "error", err)
		}
	}
	return profile, nil
}

func (s *Service) issue(profile *Profile) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(profile)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(profile.UserID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// ensureNotRevoked fails open when the store is unreachable.
func (s *Service) ensureNotRevoked(ctx context.Context, claims *Claims) error {
	if s.revocations == nil {
		return nil
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "revocation lookup failed", "jti", claims.ID, "error", err)
		return nil
	}
	if revoked {
		return internal.ErrTokenRevoked
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) {
	if s.revocations == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "token revocation failed", "jti", claims.ID, "error", err)
	}
}

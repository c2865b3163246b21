package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "staff-attendance"

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	now                func() time.Time
}

// NewJWTTokenGenerator creates a new JWT token generator. Zero TTLs fall back
// to 15 minutes for access and 7 days for refresh tokens.
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTTL:          accessTTL,
		RefreshTTL:         refreshTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) AccessTokenTTL() time.Duration { return j.AccessTTL }

func (j *JWTTokenGenerator) GenerateAccessToken(p *Profile) (string, error) {
	claims := claimsFromProfile(p)
	claims.RegisteredClaims = j.registered(p.UserID, j.AccessTTL)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64) (string, error) {
	claims := &Claims{
		UserID:           userID,
		TokenType:        TokenTypeRefresh,
		RegisteredClaims: j.registered(userID, j.RefreshTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) registered(userID int64, ttl time.Duration) jwt.RegisteredClaims {
	now := j.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret, TokenTypeAccess)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret, TokenTypeRefresh)
}

// validate checks the signature with the secret for the expected token type;
// an access token presented as a refresh token fails on both counts.
func (j *JWTTokenGenerator) validate(tokenString string, secret []byte, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != want || claims.UserID <= 0 || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

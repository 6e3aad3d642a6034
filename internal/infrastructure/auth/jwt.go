package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
)

// Common errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID       string      `json:"user_id"`
	Email        string      `json:"email,omitempty"`
	Role         shared.Role `json:"role,omitempty"`
	TokenType    TokenType   `json:"token_type"`
	RefreshCount int         `json:"refresh_count,omitempty"`
	// Fingerprint ties a password reset token to the hash it replaces
	Fingerprint  string      `json:"fpr,omitempty"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService signs and verifies HS256 tokens. Access and refresh tokens use
// separate keys so a leaked refresh key cannot mint access tokens.
type JWTService struct {
	keys       map[TokenType][]byte
	lifetimes  map[TokenType]time.Duration
	issuer     string
	maxRefresh int
	now        func() time.Time
}

// NewJWTService builds a JWTService. An empty RefreshSecret falls back to Secret.
// Password reset tokens are signed with Secret and told apart by their type.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshKey := cfg.RefreshSecret
	if refreshKey == "" {
		refreshKey = cfg.Secret
	}
	return &JWTService{
		keys: map[TokenType][]byte{
			TokenTypeAccess:        []byte(cfg.Secret),
			TokenTypeRefresh:       []byte(refreshKey),
			TokenTypePasswordReset: []byte(cfg.Secret),
		},
		lifetimes: map[TokenType]time.Duration{
			TokenTypeAccess:        cfg.AccessTokenExpiration,
			TokenTypeRefresh:       cfg.RefreshTokenExpiration,
			TokenTypePasswordReset: cfg.PasswordResetExpiration,
		},
		issuer:     cfg.Issuer,
		maxRefresh: cfg.MaxRefreshCount,
		now:        time.Now,
	}
}

// GenerateTokenInput identifies the profile a token pair is issued for
type GenerateTokenInput struct {
	UserID uuid.UUID
	Email  string
	Role   shared.Role
}

// GenerateTokenPair issues a fresh access and refresh token
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issue(input, 0)
}

// RefreshTokenPair issues a new pair from validated refresh claims. The
// caller passes the profile's current identity so role changes take effect.
func (s *JWTService) RefreshTokenPair(refresh *Claims, input GenerateTokenInput) (*TokenPair, error) {
	switch {
	case refresh.TokenType != TokenTypeRefresh:
		return nil, ErrInvalidTokenType
	case s.maxRefresh > 0 && refresh.RefreshCount >= s.maxRefresh:
		return nil, ErrMaxRefreshExceeded
	case refresh.UserID != input.UserID.String():
		return nil, ErrInvalidClaims
	}
	return s.issue(input, refresh.RefreshCount+1)
}

func (s *JWTService) issue(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := s.now()
	pair := &TokenPair{TokenType: "Bearer"}

	var err error
	pair.AccessToken, pair.AccessTokenExpiresAt, err = s.sign(now, Claims{
		UserID:    input.UserID.String(),
		Email:     input.Email,
		Role:      input.Role,
		TokenType: TokenTypeAccess,
	})
	if err != nil {
		return nil, err
	}
	// no role on refresh tokens, it is reloaded from the profile
	pair.RefreshToken, pair.RefreshTokenExpiresAt, err = s.sign(now, Claims{
		UserID:       input.UserID.String(),
		TokenType:    TokenTypeRefresh,
		RefreshCount: refreshCount,
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// GeneratePasswordResetToken issues a single-purpose token for the emailed
// reset link. fingerprint identifies the password hash at issue time.
func (s *JWTService) GeneratePasswordResetToken(userID uuid.UUID, fingerprint string) (string, time.Time, error) {
	return s.sign(s.now(), Claims{
		UserID:      userID.String(),
		TokenType:   TokenTypePasswordReset,
		Fingerprint: fingerprint,
	})
}

// PasswordResetLifetime is how long a reset link stays valid
func (s *JWTService) PasswordResetLifetime() time.Duration {
	return s.lifetimes[TokenTypePasswordReset]
}

func (s *JWTService) sign(now time.Time, claims Claims) (string, time.Time, error) {
	exp := now.Add(s.lifetimes[claims.TokenType])
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(exp),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.keys[claims.TokenType])
	return signed, exp, err
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.parse(token, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.parse(token, TokenTypeRefresh)
}

// ValidatePasswordResetToken validates a reset token and returns its claims
func (s *JWTService) ValidatePasswordResetToken(token string) (*Claims, error) {
	return s.parse(token, TokenTypePasswordReset)
}

func (s *JWTService) parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.keys[want], nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.TokenType != want {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// Actor converts access claims into the actor threaded through services
func (c *Claims) Actor() (shared.Actor, error) {
	id, err := c.GetUserUUID()
	if err != nil {
		return shared.Actor{}, ErrInvalidClaims
	}
	if !c.Role.IsValid() {
		return shared.Actor{}, ErrInvalidClaims
	}
	return shared.NewActor(id, c.Role), nil
}

// GetIssuedAtTime returns the token's issued-at time as time.Time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

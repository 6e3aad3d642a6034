package identity

import (
	"context"
	"errors"

	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	ErrTokenMaxRefresh    = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
)

// AuthService handles registration, login, token refresh, logout and the
// emailed password reset
type AuthService struct {
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationList
	reset       passwordReset
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationList,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
}

// Register creates a staff profile for a new user signing up on their own.
// Elevated roles are only granted by an admin through UserService.Create.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := identity.NewProfile(req.FullName, req.Email, req.Password, shared.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", profile.ID.String()))
	response := ToUserResponse(profile)
	return &response, nil
}

// Login authenticates a profile by email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !profile.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", profile.ID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput(profile))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", profile.ID.String()))
	return &LoginResponse{
		Token: toTokenResponse(pair),
		User:  ToUserResponse(profile),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The profile
// is reloaded so a role change applies to the new access token.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	if err := auth.CheckRevoked(ctx, s.revocations, claims); err != nil {
		return nil, mapTokenError(err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(claims, tokenInput(profile))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// The old refresh token is single use
	if s.revocations != nil {
		if err := s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	response := toTokenResponse(pair)
	return &response, nil
}

// Logout revokes the access token the request was made with
func (s *AuthService) Logout(ctx context.Context, actor shared.Actor, claims *auth.Claims) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if s.revocations == nil || claims == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return shared.NewStorageError("revoke_token", err)
	}
	s.logger.Info("User logged out", zap.String("user_id", actor.ID.String()))
	return nil
}

// Authenticate validates an access token and resolves the actor it carries
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (shared.Actor, *auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return shared.Actor{}, nil, mapTokenError(err)
	}
	if err := auth.CheckRevoked(ctx, s.revocations, claims); err != nil {
		return shared.Actor{}, nil, mapTokenError(err)
	}
	actor, err := claims.Actor()
	if err != nil {
		return shared.Actor{}, nil, ErrTokenInvalid
	}
	return actor, claims, nil
}

func tokenInput(p *identity.Profile) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
	}
}

// mapTokenError maps JWT errors to domain errors. Revocation store failures
// pass through unchanged.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrTokenRevoked):
		return ErrTokenRevoked
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return ErrTokenInvalid
	default:
		return err
	}
}

package identity

import (
	"context"
	"time"

	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages profiles. Creating and listing users is admin only;
// every actor may read and edit their own profile.
type UserService struct {
	profileRepo identity.ProfileRepository
	revocations auth.RevocationList
	revokeTTL   time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new UserService. revokeTTL bounds how long a
// user-wide revocation is kept and should be the refresh token lifetime.
func NewUserService(
	profileRepo identity.ProfileRepository,
	revocations auth.RevocationList,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		profileRepo: profileRepo,
		revocations: revocations,
		revokeTTL:   revokeTTL,
		logger:      logger,
	}
}

// Create registers a new profile with a role
func (s *UserService) Create(ctx context.Context, actor shared.Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := actor.RequireRole(shared.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := identity.NewProfile(req.FullName, req.Email, req.Password, shared.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", profile.ID.String()),
		zap.String("role", string(profile.Role)),
		zap.String("created_by", actor.ID.String()))
	response := ToUserResponse(profile)
	return &response, nil
}

// List returns profiles ordered by name
func (s *UserService) List(ctx context.Context, actor shared.Actor, filter UserListFilter) ([]UserResponse, int64, error) {
	if err := actor.RequireRole(shared.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "full_name",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}

	profiles, err := s.profileRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.profileRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(profiles), total, nil
}

// GetMe returns the actor's own profile
func (s *UserService) GetMe(ctx context.Context, actor shared.Actor) (*UserResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(profile)
	return &response, nil
}

// UpdateMe changes the actor's own full name
func (s *UserService) UpdateMe(ctx context.Context, actor shared.Actor, req UpdateProfileRequest) (*UserResponse, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := profile.Rename(req.FullName); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	response := ToUserResponse(profile)
	return &response, nil
}

// ChangePassword replaces the actor's own password and revokes every token
// issued before the change.
func (s *UserService) ChangePassword(ctx context.Context, actor shared.Actor, req ChangePasswordRequest) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	profile, err := s.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := profile.SetPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return err
	}

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, actor.ID.String(), s.revokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens after password change",
				zap.String("user_id", actor.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("User password changed", zap.String("user_id", actor.ID.String()))
	return nil
}

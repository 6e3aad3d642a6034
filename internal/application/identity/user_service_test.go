package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)
	req := CreateUserRequest{FullName: "Budi Santoso", Email: "budi@toko.id", Password: "rahasia", Role: "staff"}

	t.Run("admin creates user", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(p *identity.Profile) bool {
			return p.Email == "budi@toko.id" && p.Role == shared.RoleStaff && p.VerifyPassword("rahasia")
		})).Return(nil)
		svc := NewUserService(repo, nil, time.Hour, zaptest.NewLogger(t))

		resp, err := svc.Create(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, "Budi Santoso", resp.FullName)
		repo.AssertExpectations(t)
	})

	t.Run("manager is forbidden", func(t *testing.T) {
		repo := new(MockProfileRepository)
		svc := NewUserService(repo, nil, time.Hour, nil)

		_, err := svc.Create(ctx, shared.NewActor(uuid.New(), shared.RoleManager), req)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("Create", ctx, mock.Anything).Return(shared.NewUniqueViolationError("email", nil))
		svc := NewUserService(repo, nil, time.Hour, nil)

		_, err := svc.Create(ctx, admin, req)
		var uv *shared.UniqueViolationError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, "email", uv.Field)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := NewUserService(new(MockProfileRepository), nil, time.Hour, nil)
		bad := req
		bad.Role = "owner"
		_, err := svc.Create(ctx, admin, bad)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "role")
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)
	repo := new(MockProfileRepository)
	expected := shared.Filter{
		Page: 1, PageSize: 20, OrderBy: "full_name", OrderDir: "asc",
		Filters: map[string]any{"role": "manager"},
	}
	repo.On("FindAll", ctx, expected).Return([]identity.Profile{{FullName: "Siti Rahma", Role: shared.RoleManager}}, nil)
	repo.On("Count", ctx, expected).Return(int64(1), nil)
	svc := NewUserService(repo, nil, time.Hour, nil)

	users, total, err := svc.List(ctx, admin, UserListFilter{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Siti Rahma", users[0].FullName)

	_, _, err = svc.List(ctx, shared.NewActor(uuid.New(), shared.RoleStaff), UserListFilter{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUserService_UpdateMe(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile(t, shared.RoleStaff)
	repo := new(MockProfileRepository)
	repo.On("FindByID", ctx, profile.ID).Return(profile, nil)
	repo.On("Update", ctx, profile).Return(nil)
	svc := NewUserService(repo, nil, time.Hour, nil)

	resp, err := svc.UpdateMe(ctx, profile.Actor(), UpdateProfileRequest{FullName: "Siti Rahmawati"})
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahmawati", resp.FullName)

	me, err := svc.GetMe(ctx, profile.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahmawati", me.FullName)

	_, err = svc.GetMe(ctx, shared.Actor{})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile(t, shared.RoleStaff)
	jwt := newTestJWT()
	revocations := auth.NewInMemoryRevocationList()

	repo := new(MockProfileRepository)
	repo.On("FindByID", ctx, profile.ID).Return(profile, nil)
	repo.On("Update", ctx, profile).Return(nil)
	svc := NewUserService(repo, revocations, time.Hour, zaptest.NewLogger(t))
	authSvc := NewAuthService(repo, jwt, revocations, nil)

	pair, err := jwt.GenerateTokenPair(tokenInput(profile))
	require.NoError(t, err)

	t.Run("confirmation mismatch", func(t *testing.T) {
		err := svc.ChangePassword(ctx, profile.Actor(), ChangePasswordRequest{Password: "baru123", ConfirmPassword: "baru124"})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "confirm_password")
	})

	t.Run("changes password and revokes earlier tokens", func(t *testing.T) {
		err := svc.ChangePassword(ctx, profile.Actor(), ChangePasswordRequest{Password: "baru123", ConfirmPassword: "baru123"})
		require.NoError(t, err)
		assert.True(t, profile.VerifyPassword("baru123"))

		_, _, err = authSvc.Authenticate(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})
}

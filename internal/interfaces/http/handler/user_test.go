package handler

import (
	"net/http"
	"testing"

	"github.com/ims/backend/internal/application/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userRouter(svc UserService, actor shared.Actor) http.Handler {
	h := NewUserHandler(svc)
	r := newTestRouter(actor)
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/me", h.GetMe)
	r.PUT("/me", h.UpdateMe)
	r.PUT("/me/password", h.ChangePassword)
	return r
}

func TestUserHandler_CreateForbiddenForStaff(t *testing.T) {
	req := identity.CreateUserRequest{FullName: "New Staff", Email: "new@ims.test", Password: "secret1", Role: "staff"}
	svc := new(mockUserService)
	svc.On("Create", mock.Anything, testStaff, req).Return(nil, shared.ErrForbidden)

	requireErrorCode(t, doJSON(userRouter(svc, testStaff), http.MethodPost, "/users", req),
		http.StatusForbidden, dto.ErrCodeForbidden)
}

func TestUserHandler_CreateDuplicateEmail(t *testing.T) {
	req := identity.CreateUserRequest{FullName: "New Staff", Email: "dup@ims.test", Password: "secret1", Role: "staff"}
	svc := new(mockUserService)
	svc.On("Create", mock.Anything, testAdmin, req).Return(nil, shared.NewUniqueViolationError("email", nil))

	resp := requireErrorCode(t, doJSON(userRouter(svc, testAdmin), http.MethodPost, "/users", req),
		http.StatusConflict, dto.ErrCodeAlreadyExists)
	assert.Equal(t, "email already exists", resp.Error.Message)
}

func TestUserHandler_Me(t *testing.T) {
	svc := new(mockUserService)
	svc.On("GetMe", mock.Anything, testStaff).Return(&identity.UserResponse{ID: testStaff.ID, Role: shared.RoleStaff}, nil)
	svc.On("UpdateMe", mock.Anything, testStaff, identity.UpdateProfileRequest{FullName: "Renamed"}).
		Return(&identity.UserResponse{ID: testStaff.ID, FullName: "Renamed"}, nil)

	r := userRouter(svc, testStaff)
	w := doJSON(r, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"staff"`)

	w = doJSON(r, http.MethodPut, "/me", `{"full_name":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_ChangePasswordMismatch(t *testing.T) {
	svc := new(mockUserService)
	resp := requireErrorCode(t,
		doJSON(userRouter(svc, testStaff), http.MethodPut, "/me/password", `{"password":"secret1","confirm_password":"secret2"}`),
		http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Equal(t, "confirm_password", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "ChangePassword")
}

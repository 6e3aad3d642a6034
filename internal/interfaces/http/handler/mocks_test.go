package handler

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/application/identity"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	notificationapp "github.com/ims/backend/internal/application/notification"
	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/report"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/mock"
)

// result returns the typed first return value of a mocked call, or nil
func result[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, actor, req, image)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalogapp.ProductResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductService) ListLowStock(ctx context.Context) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req catalogapp.UpdateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, actor, id, req, image)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockInventoryService struct{ mock.Mock }

func (m *mockInventoryService) RecordTransaction(ctx context.Context, actor shared.Actor, req inventoryapp.RecordTransactionRequest, key string) (*inventoryapp.TransactionResponse, error) {
	args := m.Called(ctx, actor, req, key)
	return result[inventoryapp.TransactionResponse](args), args.Error(1)
}

func (m *mockInventoryService) GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*inventoryapp.TransactionResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[inventoryapp.TransactionResponse](args), args.Error(1)
}

func (m *mockInventoryService) ListTransactions(ctx context.Context, actor shared.Actor, filter inventoryapp.TransactionListFilter) ([]inventoryapp.TransactionResponse, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]inventoryapp.TransactionResponse), args.Get(1).(int64), args.Error(2)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) Dashboard(ctx context.Context, actor shared.Actor) (*report.DashboardStats, error) {
	args := m.Called(ctx, actor)
	return result[report.DashboardStats](args), args.Error(1)
}

func (m *mockReportService) Chart(ctx context.Context, actor shared.Actor, req reportapp.ChartRequest) (*reportapp.ChartResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[reportapp.ChartResponse](args), args.Error(1)
}

func (m *mockReportService) TransactionReport(ctx context.Context, actor shared.Actor, req reportapp.TransactionReportRequest) (*reportapp.TransactionReportResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[reportapp.TransactionReportResponse](args), args.Error(1)
}

func (m *mockReportService) Export(ctx context.Context, actor shared.Actor, req reportapp.ExportRequest) (*reportapp.ExportFile, error) {
	args := m.Called(ctx, actor, req)
	return result[reportapp.ExportFile](args), args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req identity.RegisterRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req identity.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req identity.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	args := m.Called(ctx, req)
	return result[identity.LoginResponse](args), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req identity.RefreshTokenRequest) (*identity.TokenResponse, error) {
	args := m.Called(ctx, req)
	return result[identity.TokenResponse](args), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, actor shared.Actor, claims *auth.Claims) error {
	return m.Called(ctx, actor, claims).Error(0)
}

type mockInboxService struct{ mock.Mock }

func (m *mockInboxService) ListUnread(ctx context.Context, actor shared.Actor, filter notificationapp.InboxFilter) (*notificationapp.InboxResponse, error) {
	args := m.Called(ctx, actor, filter)
	return result[notificationapp.InboxResponse](args), args.Error(1)
}

func (m *mockInboxService) MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) (*notificationapp.NotificationResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[notificationapp.NotificationResponse](args), args.Error(1)
}

func (m *mockInboxService) MarkAllRead(ctx context.Context, actor shared.Actor) (*notificationapp.MarkAllReadResponse, error) {
	args := m.Called(ctx, actor)
	return result[notificationapp.MarkAllReadResponse](args), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Create(ctx context.Context, actor shared.Actor, req identity.CreateUserRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) List(ctx context.Context, actor shared.Actor, filter identity.UserListFilter) ([]identity.UserResponse, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]identity.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) GetMe(ctx context.Context, actor shared.Actor) (*identity.UserResponse, error) {
	args := m.Called(ctx, actor)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) UpdateMe(ctx context.Context, actor shared.Actor, req identity.UpdateProfileRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, actor shared.Actor, req identity.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

type mockCategoryService struct{ mock.Mock }

func (m *mockCategoryService) Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[catalogapp.CategoryResponse](args), args.Error(1)
}

func (m *mockCategoryService) List(ctx context.Context) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogapp.CategoryResponse), args.Error(1)
}

func (m *mockCategoryService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

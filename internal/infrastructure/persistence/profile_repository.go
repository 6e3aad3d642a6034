package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a profile by email, case-insensitively
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormProfileRepository) findOne(ctx context.Context, cond string, arg any) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRoles returns every profile holding one of roles
func (r *GormProfileRepository) FindByRoles(ctx context.Context, roles []shared.Role) ([]identity.Profile, error) {
	if len(roles) == 0 {
		return []identity.Profile{}, nil
	}
	var rows []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("role IN ?", roles).
		Order("full_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProfiles(rows), nil
}

// FindAll lists profiles matching the filter
func (r *GormProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Profile, error) {
	var rows []models.ProfileModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProfileModel{}), filter).
		Order(profileSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProfiles(rows), nil
}

// Count counts profiles matching the filter
func (r *GormProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProfileModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a profile
func (r *GormProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.ProfileModelFromDomain(profile)).Error)
}

// Update saves name, role and password hash
func (r *GormProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("id = ?", profile.ID).
		Select("full_name", "role", "password_hash", "updated_at").
		Updates(models.ProfileModelFromDomain(profile))
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProfileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	return query
}

func toProfiles(rows []models.ProfileModel) []identity.Profile {
	profiles := make([]identity.Profile, len(rows))
	for i := range rows {
		profiles[i] = *rows[i].ToDomain()
	}
	return profiles
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)

package repository

import (
	"context"
	"errors"

	"commune/internal/models"

	"gorm.io/gorm"
)

// RoleRepository defines the interface for role lookups
type RoleRepository interface {
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
}

// roleRepository implements RoleRepository
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Role", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &role, nil
}

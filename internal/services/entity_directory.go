package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
)

// entityDirectory looks up projects and employees in tables owned by other
// systems. It never writes to them.
type entityDirectory struct {
	db *gorm.DB
}

// NewEntityDirectory creates a new EntityDirectory.
func NewEntityDirectory(db *gorm.DB) EntityDirectory {
	return &entityDirectory{db: db}
}

func (d *entityDirectory) ProjectExists(ctx context.Context, id string) (bool, error) {
	return d.exists(ctx, &models.Project{}, id)
}

func (d *entityDirectory) EmployeeExists(ctx context.Context, id string) (bool, error) {
	return d.exists(ctx, &models.Employee{}, id)
}

func (d *entityDirectory) exists(ctx context.Context, model any, id string) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

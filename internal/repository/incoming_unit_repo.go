package repository

import (
	"context"

	"rpl-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncomingUnitRepository interface {
	CreateBatch(ctx context.Context, units []model.IncomingUnit) error
	FindByApplicationID(ctx context.Context, appID uuid.UUID) ([]model.IncomingUnit, error)
}

type incomingUnitRepository struct {
	db *gorm.DB
}

func NewIncomingUnitRepository(db *gorm.DB) IncomingUnitRepository {
	return &incomingUnitRepository{db: db}
}

func (r *incomingUnitRepository) CreateBatch(ctx context.Context, units []model.IncomingUnit) error {
	if len(units) == 0 {
		return nil
	}
	return storageErr(GetDB(ctx, r.db).Create(&units).Error)
}

func (r *incomingUnitRepository) FindByApplicationID(ctx context.Context, appID uuid.UUID) ([]model.IncomingUnit, error) {
	var units []model.IncomingUnit
	err := GetDB(ctx, r.db).
		Where("application_id = ?", appID).
		Order("created_at ASC").
		Find(&units).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return units, nil
}

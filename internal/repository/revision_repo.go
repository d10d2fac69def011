package repository

import (
	"context"
	"errors"

	"rpl-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionRepository interface {
	Create(ctx context.Context, rev *model.Revision) error
	// FindByOriginalID returns the link whose predecessor is id, or nil when
	// id has no successor. Absence is a normal traversal terminator, not an
	// error.
	FindByOriginalID(ctx context.Context, id uuid.UUID) (*model.Revision, error)
	// FindByRevisedID returns the link whose successor is id, or nil.
	FindByRevisedID(ctx context.Context, id uuid.UUID) (*model.Revision, error)
}

type revisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(ctx context.Context, rev *model.Revision) error {
	return storageErr(GetDB(ctx, r.db).Create(rev).Error)
}

func (r *revisionRepository) FindByOriginalID(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	var rev model.Revision
	err := GetDB(ctx, r.db).First(&rev, "original_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return &rev, nil
}

func (r *revisionRepository) FindByRevisedID(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	var rev model.Revision
	err := GetDB(ctx, r.db).First(&rev, "revised_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return &rev, nil
}

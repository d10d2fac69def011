package repository

import (
	"context"

	"rpl-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileRepository is the blob store for supporting documents. Blobs are
// write-once; applications reference them by id string.
type FileRepository interface {
	Store(ctx context.Context, file *model.StoredFile) error
	Fetch(ctx context.Context, id uuid.UUID) (*model.StoredFile, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Store(ctx context.Context, file *model.StoredFile) error {
	return storageErr(GetDB(ctx, r.db).Create(file).Error)
}

func (r *fileRepository) Fetch(ctx context.Context, id uuid.UUID) (*model.StoredFile, error) {
	var file model.StoredFile
	if err := GetDB(ctx, r.db).First(&file, "id = ?", id).Error; err != nil {
		return nil, translate(err, "file not found")
	}
	return &file, nil
}

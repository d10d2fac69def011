package repository

import (
	"context"
	"errors"

	"rpl-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// decisionTypes are the comment types that participate in status
// recomputation, in either spelling.
var decisionTypes = []string{
	model.CommentTypeApprove,
	model.CommentTypeApproved,
	model.CommentTypeReject,
	model.CommentTypeRejected,
	model.CommentTypeComment,
	model.CommentTypeObsolete,
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// FindLatestDecision returns the most recent status-bearing comment for
	// an application, or nil when there is none.
	FindLatestDecision(ctx context.Context, appID uuid.UUID) (*model.Comment, error)
	// FindLatest returns the newest comment of any type, or nil.
	FindLatest(ctx context.Context, appID uuid.UUID) (*model.Comment, error)
	// ListByApplicationIDs returns comments across a set of applications,
	// oldest first.
	ListByApplicationIDs(ctx context.Context, appIDs []uuid.UUID) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return storageErr(GetDB(ctx, r.db).Create(comment).Error)
}

func (r *commentRepository) FindLatestDecision(ctx context.Context, appID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	// Timestamp ties break on id for a deterministic order.
	err := GetDB(ctx, r.db).
		Where("application_id = ? AND type IN ?", appID, decisionTypes).
		Order("created_at DESC").
		Order("id DESC").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return &comment, nil
}

func (r *commentRepository) FindLatest(ctx context.Context, appID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := GetDB(ctx, r.db).
		Where("application_id = ?", appID).
		Order("created_at DESC").
		Order("id DESC").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByApplicationIDs(ctx context.Context, appIDs []uuid.UUID) ([]model.Comment, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := GetDB(ctx, r.db).
		Where("application_id IN ?", appIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return comments, nil
}

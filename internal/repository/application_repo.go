package repository

import (
	"context"
	"strings"

	"rpl-backend/internal/model"
	"rpl-backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationFilter narrows ListApplications results.
type ApplicationFilter struct {
	UnitCode string // case-insensitive exact match on uwa_unit_code
	Status   string
	Search   string // substring match on applicant name/email
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByIDWithUnits(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindDecidedByUnitCode(ctx context.Context, unitCode string) ([]model.Application, error)
	List(ctx context.Context, filter ApplicationFilter, page, limit int) ([]model.Application, int64, error)
	// UpdateStatusIf sets status to `to` only while the stored status still
	// equals `from`; a lost race surfaces as a Conflict error.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to string) error
	// MarkObsolete is idempotent: already-obsolete applications are left alone.
	MarkObsolete(ctx context.Context, id uuid.UUID) error
	AppendEmbeddedComment(ctx context.Context, id uuid.UUID, entry model.CommentEntry) error
	RemoveSupportingDocument(ctx context.Context, id uuid.UUID, ref string) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SaveUnitCache(ctx context.Context, id uuid.UUID, info *model.UnitInfo) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return storageErr(GetDB(ctx, r.db).Create(app).Error)
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := GetDB(ctx, r.db).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err, "application not found")
	}
	return &app, nil
}

func (r *applicationRepository) FindByIDWithUnits(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := GetDB(ctx, r.db).Preload("ProposedUnits").First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err, "application not found")
	}
	return &app, nil
}

func (r *applicationRepository) FindDecidedByUnitCode(ctx context.Context, unitCode string) ([]model.Application, error) {
	var apps []model.Application
	err := GetDB(ctx, r.db).
		Preload("ProposedUnits").
		Where("uwa_unit_code = ? AND status IN ?", unitCode,
			[]string{model.StatusApprove, model.StatusReject}).
		Find(&apps).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return apps, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter, page, limit int) ([]model.Application, int64, error) {
	db := GetDB(ctx, r.db)

	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.UnitCode != "" {
			q = q.Where("LOWER(uwa_unit_code) = ?", strings.ToLower(filter.UnitCode))
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where(
				"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		return q
	}

	var total int64
	if err := applyFilter(db.Model(&model.Application{})).Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var apps []model.Application
	offset := (page - 1) * limit
	err := applyFilter(db.Preload("ProposedUnits")).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, storageErr(err)
	}

	return apps, total, nil
}

func (r *applicationRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to string) error {
	res := GetDB(ctx, r.db).Model(&model.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.Conflict, "application %s status changed concurrently (expected %q)", id, from)
	}
	return nil
}

func (r *applicationRepository) MarkObsolete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&model.Application{}).
		Where("id = ? AND status <> ?", id, model.StatusObsolete).
		Update("status", model.StatusObsolete)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the id is unknown or the application is already obsolete.
		var count int64
		if err := db.Model(&model.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return storageErr(err)
		}
		if count == 0 {
			return apperr.New(apperr.NotFound, "application not found")
		}
	}
	return nil
}

func (r *applicationRepository) AppendEmbeddedComment(ctx context.Context, id uuid.UUID, entry model.CommentEntry) error {
	app, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	list := append(app.Comments, entry)
	res := GetDB(ctx, r.db).Model(&model.Application{}).
		Where("id = ?", id).
		Update("comments", list)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	return nil
}

func (r *applicationRepository) RemoveSupportingDocument(ctx context.Context, id uuid.UUID, ref string) (bool, error) {
	app, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	kept := make(model.StringList, 0, len(app.SupportingDocuments))
	removed := false
	for _, doc := range app.SupportingDocuments {
		if doc == ref {
			removed = true
			continue
		}
		kept = append(kept, doc)
	}
	if !removed {
		return false, nil
	}

	res := GetDB(ctx, r.db).Model(&model.Application{}).
		Where("id = ?", id).
		Update("supporting_documents", kept)
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return true, nil
}

func (r *applicationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.Application{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "application not found")
	}
	return nil
}

func (r *applicationRepository) SaveUnitCache(ctx context.Context, id uuid.UUID, info *model.UnitInfo) error {
	res := GetDB(ctx, r.db).Model(&model.Application{}).
		Where("id = ?", id).
		Update("uwa_unit_cache", info)
	return storageErr(res.Error)
}

package repository

import (
	"context"
	"testing"

	"rpl-backend/internal/model"
	"rpl-backend/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Application{},
		&model.IncomingUnit{},
		&model.Comment{},
		&model.Revision{},
		&model.Account{},
		&model.StoredFile{},
	))
	return db
}

func createApp(t *testing.T, repo ApplicationRepository, status string) *model.Application {
	t.Helper()
	app := &model.Application{
		FirstName:           "Alex",
		LastName:            "Nguyen",
		Email:               "alex@student.uwa.edu.au",
		UWAUnitCode:         "CITS1001",
		Status:              status,
		SupportingDocuments: model.StringList{"doc-a", "doc-b"},
	}
	require.NoError(t, repo.Create(context.Background(), app))
	return app
}

func TestUpdateStatusIfConflictsOnStaleRead(t *testing.T) {
	repo := NewApplicationRepository(newTestDB(t))
	ctx := context.Background()
	app := createApp(t, repo, model.StatusPending)

	require.NoError(t, repo.UpdateStatusIf(ctx, app.ID, model.StatusPending, model.StatusApprove))

	// A second writer still holding the Pending read loses.
	err := repo.UpdateStatusIf(ctx, app.ID, model.StatusPending, model.StatusReject)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApprove, stored.Status)
}

func TestMarkObsoleteIsIdempotent(t *testing.T) {
	repo := NewApplicationRepository(newTestDB(t))
	ctx := context.Background()
	app := createApp(t, repo, model.StatusApprove)

	require.NoError(t, repo.MarkObsolete(ctx, app.ID))
	require.NoError(t, repo.MarkObsolete(ctx, app.ID))

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusObsolete, stored.Status)

	err = repo.MarkObsolete(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestFindByIDTranslatesNotFound(t *testing.T) {
	repo := NewApplicationRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestAppendEmbeddedCommentAccumulates(t *testing.T) {
	repo := NewApplicationRepository(newTestDB(t))
	ctx := context.Background()
	app := createApp(t, repo, model.StatusPending)

	require.NoError(t, repo.AppendEmbeddedComment(ctx, app.ID, model.CommentEntry{Author: "studentservices", Text: "first", Type: "Comment"}))
	require.NoError(t, repo.AppendEmbeddedComment(ctx, app.ID, model.CommentEntry{Author: "studentservices", Text: "second", Type: "Approve"}))

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 2)
	assert.Equal(t, "first", stored.Comments[0].Text)
	assert.Equal(t, "second", stored.Comments[1].Text)
}

func TestRemoveSupportingDocumentReportsChange(t *testing.T) {
	repo := NewApplicationRepository(newTestDB(t))
	ctx := context.Background()
	app := createApp(t, repo, model.StatusPending)

	removed, err := repo.RemoveSupportingDocument(ctx, app.ID, "doc-a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveSupportingDocument(ctx, app.ID, "doc-a")
	require.NoError(t, err)
	assert.False(t, removed)

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"doc-b"}, stored.SupportingDocuments)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	first := createApp(t, repo, model.StatusPending)
	second := &model.Application{
		FirstName: "Blake", LastName: "Smith", Email: "blake@student.uwa.edu.au",
		UWAUnitCode: "CITS1002", Status: model.StatusApprove,
	}
	require.NoError(t, repo.Create(ctx, second))

	apps, total, err := repo.List(ctx, ApplicationFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, apps, 2)

	apps, total, err = repo.List(ctx, ApplicationFilter{Status: model.StatusApprove}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, second.ID, apps[0].ID)

	apps, total, err = repo.List(ctx, ApplicationFilter{Search: "alex"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, first.ID, apps[0].ID)

	_, total, err = repo.List(ctx, ApplicationFilter{UnitCode: "cits1002"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewApplicationRepository(db)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, &model.Application{
			FirstName: "Rolled", LastName: "Back", Email: "rb@student.uwa.edu.au",
			UWAUnitCode: "CITS1001", Status: model.StatusPending,
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, total, err := repo.List(ctx, ApplicationFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

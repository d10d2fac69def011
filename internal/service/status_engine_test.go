package service

import (
	"context"
	"testing"
	"time"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedApplication(t *testing.T, db *gorm.DB, status string) *model.Application {
	t.Helper()
	app := &model.Application{
		FirstName:   "Alex",
		LastName:    "Nguyen",
		Email:       "alex@student.uwa.edu.au",
		UWAUnitCode: "CITS1001",
		Status:      status,
	}
	require.NoError(t, repository.NewApplicationRepository(db).Create(context.Background(), app))
	return app
}

func addComment(t *testing.T, db *gorm.DB, app *model.Application, commentType string) {
	t.Helper()
	addCommentAt(t, db, app, commentType, time.Now())
}

func addCommentAt(t *testing.T, db *gorm.DB, app *model.Application, commentType string, at time.Time) {
	t.Helper()
	require.NoError(t, repository.NewCommentRepository(db).Create(context.Background(), &model.Comment{
		ApplicationID: app.ID,
		Author:        "studentservices",
		Text:          "review note",
		Type:          commentType,
		CreatedAt:     at,
	}))
}

func TestRecomputeWithoutCommentsLeavesStatus(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, model.StatusPending)
	engine := NewStatusEngine(repository.NewApplicationRepository(db), repository.NewCommentRepository(db))

	status, err := engine.Recompute(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRecomputeAppliesLatestDecision(t *testing.T) {
	tests := []struct {
		commentType string
		want        string
	}{
		{model.CommentTypeApprove, model.StatusApprove},
		{model.CommentTypeApproved, model.StatusApprove},
		{model.CommentTypeReject, model.StatusReject},
		{model.CommentTypeRejected, model.StatusReject},
		{model.CommentTypeComment, model.StatusRequestInfo},
	}
	for _, tc := range tests {
		t.Run(tc.commentType, func(t *testing.T) {
			db := newTestDB(t)
			appRepo := repository.NewApplicationRepository(db)
			app := seedApplication(t, db, model.StatusPending)
			addComment(t, db, app, tc.commentType)
			engine := NewStatusEngine(appRepo, repository.NewCommentRepository(db))

			status, err := engine.Recompute(context.Background(), app.ID)
			require.NoError(t, err)
			require.NotNil(t, status)
			assert.Equal(t, tc.want, *status)

			stored, err := appRepo.FindByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stored.Status)
		})
	}
}

func TestRecomputeLatestDecisionWins(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, model.StatusPending)
	base := time.Now()
	addCommentAt(t, db, app, model.CommentTypeReject, base)
	addCommentAt(t, db, app, model.CommentTypeApprove, base.Add(time.Second))
	engine := NewStatusEngine(repository.NewApplicationRepository(db), repository.NewCommentRepository(db))

	status, err := engine.Recompute(context.Background(), app.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.StatusApprove, *status)
}

func TestRecomputeIsStableWhenStatusUnchanged(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, model.StatusApprove)
	addComment(t, db, app, model.CommentTypeApprove)
	engine := NewStatusEngine(repository.NewApplicationRepository(db), repository.NewCommentRepository(db))

	status, err := engine.Recompute(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRecomputeNeverTouchesObsolete(t *testing.T) {
	db := newTestDB(t)
	appRepo := repository.NewApplicationRepository(db)
	app := seedApplication(t, db, model.StatusObsolete)
	addComment(t, db, app, model.CommentTypeApprove)
	engine := NewStatusEngine(appRepo, repository.NewCommentRepository(db))

	status, err := engine.Recompute(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Nil(t, status)

	stored, err := appRepo.FindByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusObsolete, stored.Status)
}

func TestNormalizeCommentType(t *testing.T) {
	assert.Equal(t, "Approved", NormalizeCommentType("approved"))
	assert.Equal(t, "Reject", NormalizeCommentType("REJECT"))
	assert.Equal(t, "Comment", NormalizeCommentType("  comment  "))
	assert.Equal(t, model.CommentTypeComment, NormalizeCommentType(""))
	assert.Equal(t, model.CommentTypeComment, NormalizeCommentType("   "))
}

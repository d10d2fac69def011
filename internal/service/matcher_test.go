package service

import (
	"context"
	"testing"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDecided(t *testing.T, db *gorm.DB, uwaCode, status string, pairs ...model.UnitPair) *model.Application {
	t.Helper()
	ctx := context.Background()

	app := &model.Application{
		FirstName:   "Prior",
		LastName:    "Applicant",
		Email:       "prior@student.uwa.edu.au",
		UWAUnitCode: uwaCode,
		Status:      status,
	}
	require.NoError(t, repository.NewApplicationRepository(db).Create(ctx, app))

	units := make([]model.IncomingUnit, 0, len(pairs))
	for _, p := range pairs {
		units = append(units, model.IncomingUnit{
			ApplicationID:  app.ID,
			UniversityName: p.UniversityName,
			UnitCode:       p.UnitCode,
		})
	}
	require.NoError(t, repository.NewIncomingUnitRepository(db).CreateBatch(ctx, units))
	return app
}

func TestMatcherFindsExactSetIgnoringOrder(t *testing.T) {
	db := newTestDB(t)
	matcher := NewEquivalenceMatcher(repository.NewApplicationRepository(db))

	comp101 := model.UnitPair{UnitCode: "COMP101", UniversityName: "Curtin"}
	comp102 := model.UnitPair{UnitCode: "COMP102", UniversityName: "Curtin"}
	prior := seedDecided(t, db, "CITS1001", model.StatusApprove, comp101, comp102)

	// Reversed order, plus a duplicate that must collapse.
	found, err := matcher.FindEquivalentDecided(context.Background(), "CITS1001",
		[]model.UnitPair{comp102, comp101, comp102})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, prior.ID, found.ID)
	assert.Equal(t, model.StatusApprove, found.Status)
}

func TestMatcherRejectsSubsetAndSuperset(t *testing.T) {
	db := newTestDB(t)
	matcher := NewEquivalenceMatcher(repository.NewApplicationRepository(db))
	ctx := context.Background()

	comp101 := model.UnitPair{UnitCode: "COMP101", UniversityName: "Curtin"}
	comp102 := model.UnitPair{UnitCode: "COMP102", UniversityName: "Curtin"}
	seedDecided(t, db, "CITS1001", model.StatusApprove, comp101, comp102)

	found, err := matcher.FindEquivalentDecided(ctx, "CITS1001", []model.UnitPair{comp101})
	require.NoError(t, err)
	assert.Nil(t, found, "subset must not match")

	extra := model.UnitPair{UnitCode: "COMP103", UniversityName: "Curtin"}
	found, err = matcher.FindEquivalentDecided(ctx, "CITS1001", []model.UnitPair{comp101, comp102, extra})
	require.NoError(t, err)
	assert.Nil(t, found, "superset must not match")
}

func TestMatcherDistinguishesInstitutions(t *testing.T) {
	db := newTestDB(t)
	matcher := NewEquivalenceMatcher(repository.NewApplicationRepository(db))

	seedDecided(t, db, "CITS1001", model.StatusApprove,
		model.UnitPair{UnitCode: "COMP101", UniversityName: "Curtin"})

	// Same code at a different institution is a different unit.
	found, err := matcher.FindEquivalentDecided(context.Background(), "CITS1001",
		[]model.UnitPair{{UnitCode: "COMP101", UniversityName: "Murdoch"}})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMatcherIgnoresUndecidedAndOtherUnits(t *testing.T) {
	db := newTestDB(t)
	matcher := NewEquivalenceMatcher(repository.NewApplicationRepository(db))
	ctx := context.Background()

	comp101 := model.UnitPair{UnitCode: "COMP101", UniversityName: "Curtin"}
	seedDecided(t, db, "CITS1001", model.StatusPending, comp101)
	seedDecided(t, db, "CITS1001", model.StatusObsolete, comp101)
	seedDecided(t, db, "CITS1002", model.StatusApprove, comp101)

	found, err := matcher.FindEquivalentDecided(ctx, "CITS1001", []model.UnitPair{comp101})
	require.NoError(t, err)
	assert.Nil(t, found)

	// A rejected decision is still a decision and must be reused.
	rejected := seedDecided(t, db, "CITS1001", model.StatusReject, comp101)
	found, err = matcher.FindEquivalentDecided(ctx, "CITS1001", []model.UnitPair{comp101})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rejected.ID, found.ID)
}

func TestMatcherEmptyPairsNeverMatch(t *testing.T) {
	db := newTestDB(t)
	matcher := NewEquivalenceMatcher(repository.NewApplicationRepository(db))

	found, err := matcher.FindEquivalentDecided(context.Background(), "CITS1001", nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

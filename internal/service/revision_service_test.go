package service

import (
	"context"
	"testing"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T) (RevisionGraph, repository.RevisionRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewRevisionRepository(db)
	return NewRevisionGraph(repo), repo
}

func TestLinkRejectsSelfSupersede(t *testing.T) {
	graph, _ := newGraph(t)
	id := uuid.New()

	err := graph.Link(context.Background(), id, id)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestLinkIsIdempotentForSamePair(t *testing.T) {
	graph, _ := newGraph(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, graph.Link(ctx, a, b))
	require.NoError(t, graph.Link(ctx, a, b))

	latest, err := graph.ResolveLatest(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, b, latest)
}

func TestLinkConflictsOnDifferentSuccessor(t *testing.T) {
	graph, _ := newGraph(t)
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, graph.Link(ctx, a, b))
	err := graph.Link(ctx, a, c)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	// The original link survives the failed attempt.
	latest, err := graph.ResolveLatest(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, b, latest)
}

func TestResolveLatestFollowsChain(t *testing.T) {
	graph, _ := newGraph(t)
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, graph.Link(ctx, a, b))
	require.NoError(t, graph.Link(ctx, b, c))

	for _, start := range []uuid.UUID{a, b, c} {
		latest, err := graph.ResolveLatest(ctx, start)
		require.NoError(t, err)
		assert.Equal(t, c, latest, "starting from %s", start)
	}
}

func TestResolveLatestOfUnlinkedIDIsItself(t *testing.T) {
	graph, _ := newGraph(t)
	id := uuid.New()

	latest, err := graph.ResolveLatest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestResolveHistoryMostRecentFirst(t *testing.T) {
	graph, _ := newGraph(t)
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, graph.Link(ctx, a, b))
	require.NoError(t, graph.Link(ctx, b, c))

	history, err := graph.ResolveHistory(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c, b, a}, history)

	// A mid-chain member only sees its own predecessors.
	history, err = graph.ResolveHistory(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b, a}, history)
}

func TestResolveDetectsCorruptCycle(t *testing.T) {
	graph, repo := newGraph(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	// A cycle cannot be built through Link; write the rows directly.
	require.NoError(t, repo.Create(ctx, &model.Revision{OriginalID: a, RevisedID: b}))
	require.NoError(t, repo.Create(ctx, &model.Revision{OriginalID: b, RevisedID: a}))

	_, err := graph.ResolveLatest(ctx, a)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.CorruptGraph))

	_, err = graph.ResolveHistory(ctx, a)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.CorruptGraph))
}

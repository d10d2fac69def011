package service

import (
	"context"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/google/uuid"
)

// maxRevisionDepth bounds graph traversal. The revision links form a
// forest by construction, but a corrupted chain must fail a request
// instead of spinning forever.
const maxRevisionDepth = 1000

// RevisionGraph maintains the supersedes links between application
// versions and answers latest-version / full-history queries.
type RevisionGraph interface {
	// Link records that revisedID supersedes originalID. Linking the same
	// pair twice is a no-op; linking originalID to a different successor is
	// a conflict.
	Link(ctx context.Context, originalID, revisedID uuid.UUID) error
	// ResolveLatest follows successor links from id to the newest version.
	ResolveLatest(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	// ResolveHistory returns id and all its predecessors, most recent
	// first: [id, parent, grandparent, ..., root].
	ResolveHistory(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type revisionGraph struct {
	revisions repository.RevisionRepository
}

func NewRevisionGraph(revisions repository.RevisionRepository) RevisionGraph {
	return &revisionGraph{revisions: revisions}
}

func (g *revisionGraph) Link(ctx context.Context, originalID, revisedID uuid.UUID) error {
	if originalID == revisedID {
		return apperr.New(apperr.Validation, "application cannot supersede itself")
	}

	existing, err := g.revisions.FindByOriginalID(ctx, originalID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.RevisedID == revisedID {
			return nil
		}
		return apperr.New(apperr.Conflict,
			"application %s is already superseded by %s", originalID, existing.RevisedID)
	}

	return g.revisions.Create(ctx, &model.Revision{
		OriginalID: originalID,
		RevisedID:  revisedID,
	})
}

func (g *revisionGraph) ResolveLatest(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	current := id
	for depth := 0; depth < maxRevisionDepth; depth++ {
		rev, err := g.revisions.FindByOriginalID(ctx, current)
		if err != nil {
			return uuid.Nil, err
		}
		if rev == nil {
			return current, nil
		}
		current = rev.RevisedID
	}
	return uuid.Nil, apperr.New(apperr.CorruptGraph,
		"revision chain from %s exceeds %d links", id, maxRevisionDepth)
}

func (g *revisionGraph) ResolveHistory(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	history := []uuid.UUID{id}
	current := id
	for depth := 0; depth < maxRevisionDepth; depth++ {
		rev, err := g.revisions.FindByRevisedID(ctx, current)
		if err != nil {
			return nil, err
		}
		if rev == nil {
			return history, nil
		}
		current = rev.OriginalID
		history = append(history, current)
	}
	return nil, apperr.New(apperr.CorruptGraph,
		"revision chain into %s exceeds %d links", id, maxRevisionDepth)
}

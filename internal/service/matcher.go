package service

import (
	"context"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
)

// EquivalenceMatcher finds a prior decided application covering exactly
// the same set of external units against the same UWA unit, so its
// outcome can be applied to a new identical request.
type EquivalenceMatcher interface {
	// FindEquivalentDecided returns the first decided application whose
	// external-unit set equals pairs exactly, or nil when none matches.
	// Read-only; the caller applies the found decision.
	FindEquivalentDecided(ctx context.Context, homeUnitCode string, pairs []model.UnitPair) (*model.Application, error)
}

type equivalenceMatcher struct {
	apps repository.ApplicationRepository
}

func NewEquivalenceMatcher(apps repository.ApplicationRepository) EquivalenceMatcher {
	return &equivalenceMatcher{apps: apps}
}

func (m *equivalenceMatcher) FindEquivalentDecided(ctx context.Context, homeUnitCode string, pairs []model.UnitPair) (*model.Application, error) {
	// Duplicates collapse; order is irrelevant.
	want := make(map[model.UnitPair]struct{}, len(pairs))
	for _, p := range pairs {
		want[p] = struct{}{}
	}
	if len(want) == 0 {
		return nil, nil
	}

	candidates, err := m.apps.FindDecidedByUnitCode(ctx, homeUnitCode)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if matchesExactly(want, candidates[i].ProposedUnits) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func matchesExactly(want map[model.UnitPair]struct{}, units []model.IncomingUnit) bool {
	got := make(map[model.UnitPair]struct{}, len(units))
	for _, u := range units {
		got[u.Pair()] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for p := range want {
		if _, ok := got[p]; !ok {
			return false
		}
	}
	return true
}

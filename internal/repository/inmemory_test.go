package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

func TestMemoryProfileRepositoryVersioning(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	p := domain.NewTraitProfile("u1")
	v, err := repo.Save(ctx, p)
	if err != nil || v != 1 {
		t.Fatalf("first save: v=%d err=%v", v, err)
	}

	// Una segunda escritura con la version vieja debe fallar.
	if _, err := repo.Save(ctx, p); !errors.Is(err, domain.ErrConcurrentSynthesis) {
		t.Fatalf("expected ErrConcurrentSynthesis, got %v", err)
	}

	stored, err := repo.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	stored.Openness.Score = 80
	if v, err := repo.Save(ctx, stored); err != nil || v != 2 {
		t.Fatalf("second save: v=%d err=%v", v, err)
	}
}

func TestMemoryProfileRepositoryNotFound(t *testing.T) {
	repo := NewMemoryProfileRepository()
	if _, err := repo.GetByUserID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProfileRepositoryListCandidatesOrdersByDistance(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	for id, score := range map[string]float64{"self": 50, "near": 55, "far": 95} {
		p := domain.NewTraitProfile(id)
		p.Openness.Score = score
		if _, err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	self := domain.NewTraitProfile("self")
	got, err := repo.ListCandidates(ctx, "self", self.TraitVector(), 10)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 2 || got[0].UserID != "near" || got[1].UserID != "far" {
		t.Fatalf("unexpected candidates %+v", got)
	}
}

func TestMemorySignalRepositoryDisconnect(t *testing.T) {
	repo := NewMemorySignalRepository()
	ctx := context.Background()
	if err := repo.Upsert(ctx, "u1", domain.ExternalSignal{Connector: domain.ConnectorSpotify, Tags: []string{"jazz"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Disconnect(ctx, "u1", domain.ConnectorSpotify); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if err := repo.Disconnect(ctx, "u1", domain.ConnectorSpotify); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second disconnect, got %v", err)
	}
	got, _ := repo.ListConnected(ctx, "u1")
	if len(got) != 0 {
		t.Fatalf("expected no connected signals, got %d", len(got))
	}
}

func TestMemoryPreferencesRepositoryCopies(t *testing.T) {
	repo := NewMemoryPreferencesRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	floor := 40.0
	prefs := domain.DefaultMatchingPreferences()
	prefs.Interests.Required = []string{"jazz"}
	prefs.Traits = map[domain.Dimension]domain.TraitRange{domain.DimensionOpenness: {Min: &floor}}
	if err := repo.Save(ctx, "u1", prefs); err != nil {
		t.Fatalf("save: %v", err)
	}
	prefs.Interests.Required[0] = "golf"
	floor = 90

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Interests.Required[0] != "jazz" || *got.Traits[domain.DimensionOpenness].Min != 40 {
		t.Fatalf("stored preferences must not alias the caller: %+v", got)
	}
	if got.UpdatedAt == nil || got.Interests.Excluded == nil {
		t.Fatalf("expected updated_at and empty tag lists, got %+v", got)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

func newTestIntegrationService() (*IntegrationService, *repository.MemorySignalRepository) {
	repo := repository.NewMemorySignalRepository()
	svc := NewIntegrationService(repo, zap.NewNop())
	svc.now = fixedClock
	return svc, repo
}

func TestIntegrationConnect(t *testing.T) {
	svc, repo := newTestIntegrationService()
	ctx := context.Background()

	got, err := svc.Connect(ctx, "u1", " Spotify ", domain.ExternalSignal{
		Sections: map[string][]domain.SignalItem{"top_artists": {{Title: "Bjork"}, {Title: "Air"}}},
		Tags:     []string{"Electronic", "electronic", "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, "spotify", got.Connector)
	assert.True(t, got.LastSync.Equal(fixedNow))
	assert.Equal(t, []string{"electronic"}, got.Tags)

	stored, err := repo.ListConnected(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, stored, "spotify")
	assert.Len(t, stored["spotify"].Sections["top_artists"], 2)

	explicit := fixedNow.Add(-2 * time.Hour)
	got, err = svc.Connect(ctx, "u1", "spotify", domain.ExternalSignal{LastSync: explicit})
	require.NoError(t, err)
	assert.True(t, got.LastSync.Equal(explicit), "explicit last sync must be kept")
}

func TestIntegrationConnectValidation(t *testing.T) {
	svc, _ := newTestIntegrationService()
	ctx := context.Background()

	_, err := svc.Connect(ctx, "u1", "my connector!", domain.ExternalSignal{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Connect(ctx, "u1", "youtube", domain.ExternalSignal{
		Sections: map[string][]domain.SignalItem{"history": {{Title: ""}}},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "sections.history[0].title", verr.Field)
}

func TestIntegrationStatus(t *testing.T) {
	svc, _ := newTestIntegrationService()
	ctx := context.Background()

	_, err := svc.Connect(ctx, "u1", "linkedin", domain.ExternalSignal{
		Sections: map[string][]domain.SignalItem{
			"experience": {{Title: "Engineer"}},
			"skills":     {{Title: "Go"}, {Title: "SQL"}},
		},
	})
	require.NoError(t, err)
	_, err = svc.Connect(ctx, "u1", "strava", domain.ExternalSignal{})
	require.NoError(t, err)

	got, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 5)

	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Connector
	}
	assert.Equal(t, []string{"spotify", "youtube", "linkedin", "meta", "strava"}, names)

	assert.False(t, got[0].Connected)
	assert.Nil(t, got[0].LastSync)
	assert.True(t, got[2].Connected)
	assert.Equal(t, 3, got[2].Items)
	assert.True(t, got[4].Connected)
}

func TestIntegrationDisconnect(t *testing.T) {
	svc, repo := newTestIntegrationService()
	ctx := context.Background()

	_, err := svc.Connect(ctx, "u1", "meta", domain.ExternalSignal{})
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(ctx, "u1", "META"))

	stored, err := repo.ListConnected(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored)

	assert.ErrorIs(t, svc.Disconnect(ctx, "u1", "meta"), domain.ErrNotFound)
}

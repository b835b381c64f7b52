package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

var (
	connectorNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	knownConnectors      = []string{domain.ConnectorSpotify, domain.ConnectorYouTube, domain.ConnectorLinkedIn, domain.ConnectorMeta}
)

// IntegrationStatus resume el estado de un conector para el usuario.
type IntegrationStatus struct {
	Connector string     `json:"connector"`
	Connected bool       `json:"connected"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	Items     int        `json:"items"`
}

// IntegrationService recibe los snapshots que empujan los conectores.
// El OAuth y la sincronizacion viven en cada conector.
type IntegrationService struct {
	signals repository.SignalRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewIntegrationService(signals repository.SignalRepository, logger *zap.Logger) *IntegrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntegrationService{
		signals: signals,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func normalizeConnector(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !connectorNamePattern.MatchString(name) {
		return "", &domain.ValidationError{Field: "connector", Reason: fmt.Sprintf("invalid connector name %q", name)}
	}
	return name, nil
}

// Connect guarda (o reemplaza) el snapshot de un conector.
func (s *IntegrationService) Connect(ctx context.Context, userID, connector string, signal domain.ExternalSignal) (domain.ExternalSignal, error) {
	name, err := normalizeConnector(connector)
	if err != nil {
		return domain.ExternalSignal{}, err
	}
	signal.Connector = name
	if signal.LastSync.IsZero() {
		signal.LastSync = s.now()
	}
	for section, items := range signal.Sections {
		if strings.TrimSpace(section) == "" {
			return domain.ExternalSignal{}, &domain.ValidationError{Field: "sections", Reason: "section name must not be empty"}
		}
		for i, it := range items {
			if strings.TrimSpace(it.Title) == "" {
				return domain.ExternalSignal{}, &domain.ValidationError{Field: fmt.Sprintf("sections.%s[%d].title", section, i), Reason: "required"}
			}
		}
	}
	signal.Tags = normalizeTags(signal.Tags)

	if err := s.signals.Upsert(ctx, userID, signal); err != nil {
		return domain.ExternalSignal{}, fmt.Errorf("upsert signal: %w", err)
	}
	s.logger.Info("integration connected", zap.String("user_id", userID), zap.String("connector", name))
	return signal, nil
}

func (s *IntegrationService) Disconnect(ctx context.Context, userID, connector string) error {
	name, err := normalizeConnector(connector)
	if err != nil {
		return err
	}
	if err := s.signals.Disconnect(ctx, userID, name); err != nil {
		return fmt.Errorf("disconnect %s: %w", name, err)
	}
	s.logger.Info("integration disconnected", zap.String("user_id", userID), zap.String("connector", name))
	return nil
}

// Status lista siempre los conectores conocidos y, ademas, cualquier otro conectado.
func (s *IntegrationService) Status(ctx context.Context, userID string) ([]IntegrationStatus, error) {
	connected, err := s.signals.ListConnected(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}

	out := make([]IntegrationStatus, 0, len(knownConnectors)+len(connected))
	for _, name := range knownConnectors {
		out = append(out, statusFor(name, connected))
	}
	var extra []string
	for name := range connected {
		if !domain.Contains(knownConnectors, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, statusFor(name, connected))
	}
	return out, nil
}

func statusFor(name string, connected map[string]domain.ExternalSignal) IntegrationStatus {
	sig, ok := connected[name]
	if !ok {
		return IntegrationStatus{Connector: name}
	}
	items := 0
	for _, list := range sig.Sections {
		items += len(list)
	}
	last := sig.LastSync
	return IntegrationStatus{Connector: name, Connected: true, LastSync: &last, Items: items}
}

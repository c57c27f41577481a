package panelapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/panel"
)

// SettingsBackend is the slice of the upstream client the settings service needs.
type SettingsBackend interface {
	GetSettings(ctx context.Context) (*panel.Settings, error)
	UpdateSettings(ctx context.Context, s *panel.Settings) (*panel.Settings, error)
}

// Poll interval bounds a seller may choose through the settings form.
// The alert configuration owns the default.
const (
	MinPollIntervalSeconds = 5
	MaxPollIntervalSeconds = 120
)

// SettingsService exposes the store profile.
type SettingsService struct {
	backend SettingsBackend
	logger  *zap.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(backend SettingsBackend, logger *zap.Logger) *SettingsService {
	return &SettingsService{backend: backend, logger: logger}
}

// Get fetches the store profile.
func (s *SettingsService) Get(ctx context.Context) (*panel.Settings, error) {
	return s.backend.GetSettings(ctx)
}

// Update validates and stores the store profile. An out-of-bounds poll
// interval is clamped rather than rejected so an old client cannot wedge
// the form.
func (s *SettingsService) Update(ctx context.Context, settings *panel.Settings) (*panel.Settings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.PollIntervalSeconds != 0 {
		if settings.PollIntervalSeconds < MinPollIntervalSeconds {
			settings.PollIntervalSeconds = MinPollIntervalSeconds
		}
		if settings.PollIntervalSeconds > MaxPollIntervalSeconds {
			settings.PollIntervalSeconds = MaxPollIntervalSeconds
		}
	}
	updated, err := s.backend.UpdateSettings(ctx, settings)
	if err != nil {
		return nil, err
	}
	s.logger.Info("settings updated", zap.String("store_name", updated.StoreName))
	return updated, nil
}

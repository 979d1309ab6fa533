package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

// SettingsStore is a key/value store with an explicit lifecycle.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

var settingValidators = map[models.SettingKey]func(string) bool{
	models.SettingDashboardDefaultPeriod: func(v string) bool {
		p, ok := models.ParseTimePeriod(v)
		return ok && p != models.PeriodCustom
	},
	models.SettingReportsLocale: func(v string) bool {
		return v == "en" || v == "km"
	},
}

// SettingsService stores per-actor preferences.
type SettingsService struct {
	store  SettingsStore
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(store SettingsStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, logger: logger}
}

func settingKeyNames() []string {
	return []string{string(models.SettingDashboardDefaultPeriod), string(models.SettingReportsLocale)}
}

func parseSettingKey(raw string) (models.SettingKey, error) {
	key := models.SettingKey(raw)
	if _, ok := settingValidators[key]; !ok {
		return "", appErrors.InvalidArgument("setting key", raw, settingKeyNames())
	}
	return key, nil
}

func storeKey(actorID string, key models.SettingKey) string {
	return actorID + ":" + string(key)
}

// Get returns the actor's value for key.
func (s *SettingsService) Get(ctx context.Context, actor models.Actor, rawKey string) (*models.Setting, error) {
	key, err := parseSettingKey(rawKey)
	if err != nil {
		return nil, err
	}
	value, ok, err := s.store.Get(ctx, storeKey(actor.ID, key))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read setting")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "setting not found")
	}
	return &models.Setting{Key: key, Value: value}, nil
}

// Set validates and stores the actor's value for key.
func (s *SettingsService) Set(ctx context.Context, actor models.Actor, rawKey, value string) (*models.Setting, error) {
	key, err := parseSettingKey(rawKey)
	if err != nil {
		return nil, err
	}
	if !settingValidators[key](value) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid value for "+string(key))
	}
	if err := s.store.Set(ctx, storeKey(actor.ID, key), value); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store setting")
	}
	s.logger.Info("setting updated", zap.String("actor_id", actor.ID), zap.String("key", string(key)))
	return &models.Setting{Key: key, Value: value}, nil
}

// Delete removes the actor's value for key. Deleting an absent key succeeds.
func (s *SettingsService) Delete(ctx context.Context, actor models.Actor, rawKey string) error {
	key, err := parseSettingKey(rawKey)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, storeKey(actor.ID, key)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete setting")
	}
	return nil
}

// Preference reads a raw value without validation errors, for consumers that fall back to defaults.
func (s *SettingsService) Preference(ctx context.Context, actorID string, key models.SettingKey) (string, bool, error) {
	return s.store.Get(ctx, storeKey(actorID, key))
}

// Shutdown clears the store.
func (s *SettingsService) Shutdown(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("settings store cleared")
	return nil
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
)

// SettingsUseCase настройки терминала
type SettingsUseCase struct {
	settingsRepo repo.SettingsRepository
	terminalID   string
}

// NewSettingsUseCase создает usecase настроек терминала
func NewSettingsUseCase(settingsRepo repo.SettingsRepository, terminalID string) *SettingsUseCase {
	return &SettingsUseCase{
		settingsRepo: settingsRepo,
		terminalID:   terminalID,
	}
}

// Get возвращает настройки терминала; при их отсутствии — пустой документ
func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.TerminalSettings, error) {
	settings, err := uc.settingsRepo.Get(ctx, uc.terminalID)
	if err == repo.ErrSettingsNotFound {
		return &entity.TerminalSettings{
			TerminalID: uc.terminalID,
			Payload:    []byte("{}"),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении настроек: %w", err)
	}
	return settings, nil
}

// Update заменяет документ настроек терминала целиком
func (uc *SettingsUseCase) Update(ctx context.Context, req entity.UpdateSettingsRequest) (*entity.TerminalSettings, error) {
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка при маршалинге настроек: %w", err)
	}

	settings := &entity.TerminalSettings{
		TerminalID: uc.terminalID,
		Payload:    payload,
	}
	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("ошибка при сохранении настроек: %w", err)
	}
	return settings, nil
}

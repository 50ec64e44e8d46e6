package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/director74/pos-terminal/internal/entity"
)

// SettingsRepository интерфейс репозитория для работы с настройками терминала
type SettingsRepository interface {
	Get(ctx context.Context, terminalID string) (*entity.TerminalSettings, error)
	Save(ctx context.Context, settings *entity.TerminalSettings) error
}

// ErrSettingsNotFound ошибка, когда настройки терминала не найдены
var ErrSettingsNotFound = errors.New("настройки терминала не найдены")

// SettingsRepositoryImpl реализация репозитория настроек на GORM
type SettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &SettingsRepositoryImpl{
		db: db,
	}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context, terminalID string) (*entity.TerminalSettings, error) {
	var settings entity.TerminalSettings
	result := r.db.WithContext(ctx).First(&settings, "terminal_id = ?", terminalID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, result.Error
	}
	return &settings, nil
}

// Save вставляет настройки либо заменяет документ существующего терминала
func (r *SettingsRepositoryImpl) Save(ctx context.Context, settings *entity.TerminalSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "terminal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(settings).Error
}

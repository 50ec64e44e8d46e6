package entity

import (
	"time"

	"gorm.io/datatypes"
)

// TerminalSettings настройки терминала. Произвольные параметры
// (принтеры, интерфейс, интеграции) хранятся документом в JSONB,
// схема не фиксируется на уровне таблицы.
type TerminalSettings struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TerminalID string         `json:"terminal_id" gorm:"uniqueIndex;not null"`
	Payload    datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// UpdateSettingsRequest запрос на обновление настроек терминала
type UpdateSettingsRequest struct {
	Payload map[string]interface{} `json:"payload" binding:"required"`
}

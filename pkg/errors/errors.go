package errors

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Базовые ошибки сервиса
var (
	ErrNotFound           = errors.New("ресурс не найден")
	ErrAlreadyExists      = errors.New("ресурс уже существует")
	ErrInvalidCredentials = errors.New("неверные учетные данные")
	ErrUnauthorized       = errors.New("не авторизован")
	ErrForbidden          = errors.New("доступ запрещен")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrBadRequest         = errors.New("некорректный запрос")
)

// AppendPrefix оборачивает ошибку с текстовым префиксом, nil проходит
// без изменений
func AppendPrefix(err error, prefix string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// LogError пишет ошибку в лог с пометкой источника
func LogError(err error, source string) {
	if err == nil {
		return
	}
	log.Printf("ОШИБКА [%s]: %v", source, err)
}

// ErrorGroup накапливает ошибки нескольких независимых операций,
// например шагов остановки приложения
type ErrorGroup struct {
	errs []error
}

// NewErrorGroup создает пустую группу ошибок
func NewErrorGroup() *ErrorGroup {
	return &ErrorGroup{}
}

// Add добавляет ошибку в группу, nil игнорируется
func (g *ErrorGroup) Add(err error) {
	if err != nil {
		g.errs = append(g.errs, err)
	}
}

// AddPrefix добавляет ошибку с префиксом
func (g *ErrorGroup) AddPrefix(err error, prefix string) {
	g.Add(AppendPrefix(err, prefix))
}

// HasErrors сообщает, накопились ли ошибки
func (g *ErrorGroup) HasErrors() bool {
	return len(g.errs) > 0
}

// Error возвращает все накопленные ошибки одной строкой
func (g *ErrorGroup) Error() string {
	parts := make([]string, 0, len(g.errs))
	for _, err := range g.errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError ошибка уровня сервиса, знающая свой HTTP-статус
type ServiceError struct {
	Code    int
	Message string
	Err     error
}

// NewServiceError создает ошибку сервиса
func NewServiceError(code int, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id interface{}) *ServiceError {
	return NewServiceError(http.StatusNotFound,
		fmt.Sprintf("%s с ID=%v не найден", resource, id), ErrNotFound)
}

func NewInvalidCredentialsError() *ServiceError {
	return NewServiceError(http.StatusUnauthorized,
		"Неверное имя пользователя или пароль", ErrInvalidCredentials)
}

func NewBadRequestError(reason string) *ServiceError {
	message := "Некорректный запрос"
	if reason != "" {
		message = fmt.Sprintf("%s: %s", message, reason)
	}
	return NewServiceError(http.StatusBadRequest, message, ErrBadRequest)
}

func NewInternalServerError(err error) *ServiceError {
	return NewServiceError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err)
}

// statusFor подбирает HTTP-статус по базовой ошибке
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTPResponse преобразует ошибку в пару статус и тело ответа
func ToHTTPResponse(err error) (int, interface{}) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code, ErrorResponse(se.Message, nil)
	}

	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		// Внутренние детали наружу не отдаем
		message = "Внутренняя ошибка сервера"
	}
	return code, ErrorResponse(message, nil)
}

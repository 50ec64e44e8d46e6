package outcome

import "encoding/json"

// status указывает, в какой из трех веток находится Outcome
type status int

const (
	statusPending status = iota
	statusSucceeded
	statusFailed
)

// Outcome представляет результат асинхронной операции: Pending,
// Succeeded со значением либо Failed с ошибкой. Значение неизменяемо,
// производитель выдает не более одного терминального исхода.
type Outcome[T any] struct {
	status status
	value  T
	err    error
}

// Pending создает незавершенный результат
func Pending[T any]() Outcome[T] {
	return Outcome[T]{status: statusPending}
}

// Succeeded создает успешный результат со значением
func Succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{status: statusSucceeded, value: value}
}

// Failed создает неуспешный результат с ошибкой
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{status: statusFailed, err: err}
}

func (o Outcome[T]) IsPending() bool   { return o.status == statusPending }
func (o Outcome[T]) IsSucceeded() bool { return o.status == statusSucceeded }
func (o Outcome[T]) IsFailed() bool    { return o.status == statusFailed }

// Value возвращает значение успешного результата и признак успеха
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.status == statusSucceeded
}

// Err возвращает ошибку неуспешного результата, иначе nil
func (o Outcome[T]) Err() error {
	if o.status == statusFailed {
		return o.err
	}
	return nil
}

// Fold выполняет ровно одну из веток. onPending может быть nil —
// незавершенный результат тогда игнорируется; терминальные ветки
// обязательны.
func (o Outcome[T]) Fold(onSuccess func(T), onError func(error), onPending func()) {
	switch o.status {
	case statusSucceeded:
		onSuccess(o.value)
	case statusFailed:
		onError(o.err)
	case statusPending:
		if onPending != nil {
			onPending()
		}
	}
}

// MarshalJSON сериализует результат со строковым статусом; значение и
// ошибка присутствуют только в соответствующей ветке
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	switch o.status {
	case statusSucceeded:
		return json.Marshal(struct {
			Status string `json:"status"`
			Value  T      `json:"value"`
		}{Status: "succeeded", Value: o.value})
	case statusFailed:
		return json.Marshal(struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}{Status: "failed", Error: o.err.Error()})
	default:
		return json.Marshal(struct {
			Status string `json:"status"`
		}{Status: "pending"})
	}
}

// MapSuccess преобразует значение успешного результата; Pending и
// Failed проходят без изменений. Свободная функция, поскольку методы
// в Go не могут вводить новые параметры типа.
func MapSuccess[T, R any](o Outcome[T], fn func(T) R) Outcome[R] {
	switch o.status {
	case statusSucceeded:
		return Succeeded(fn(o.value))
	case statusFailed:
		return Failed[R](o.err)
	default:
		return Pending[R]()
	}
}

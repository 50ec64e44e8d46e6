package outcome

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	p := Pending[int]()
	assert.True(t, p.IsPending())
	assert.False(t, p.IsSucceeded())
	assert.False(t, p.IsFailed())

	s := Succeeded(42)
	assert.True(t, s.IsSucceeded())
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	errBoom := errors.New("сбой")
	f := Failed[int](errBoom)
	assert.True(t, f.IsFailed())
	assert.Equal(t, errBoom, f.Err())
}

func TestValueOnNonSuccess(t *testing.T) {
	_, ok := Pending[string]().Value()
	assert.False(t, ok)

	_, ok = Failed[string](errors.New("сбой")).Value()
	assert.False(t, ok)
}

func TestErrOnNonFailure(t *testing.T) {
	assert.Nil(t, Pending[int]().Err())
	assert.Nil(t, Succeeded(1).Err())
}

func TestFold(t *testing.T) {
	var got string

	Succeeded("ok").Fold(
		func(v string) { got = v },
		func(err error) { t.Fatal("не должна вызываться ветка ошибки") },
		func() { t.Fatal("не должна вызываться ветка ожидания") },
	)
	assert.Equal(t, "ok", got)

	var gotErr error
	Failed[string](errors.New("сбой")).Fold(
		func(v string) { t.Fatal("не должна вызываться ветка успеха") },
		func(err error) { gotErr = err },
		nil,
	)
	assert.EqualError(t, gotErr, "сбой")

	called := false
	Pending[string]().Fold(
		func(v string) { t.Fatal("не должна вызываться ветка успеха") },
		func(err error) { t.Fatal("не должна вызываться ветка ошибки") },
		func() { called = true },
	)
	assert.True(t, called)
}

func TestFoldPendingWithoutHandler(t *testing.T) {
	// nil для onPending допустим: незавершенный результат игнорируется
	Pending[int]().Fold(
		func(int) { t.Fatal("не должна вызываться ветка успеха") },
		func(error) { t.Fatal("не должна вызываться ветка ошибки") },
		nil,
	)
}

func TestMapSuccess(t *testing.T) {
	doubled := MapSuccess(Succeeded(21), func(v int) int { return v * 2 })
	v, ok := doubled.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	errBoom := errors.New("сбой")
	failed := MapSuccess(Failed[int](errBoom), func(v int) string { return "x" })
	assert.True(t, failed.IsFailed())
	assert.Equal(t, errBoom, failed.Err())

	pending := MapSuccess(Pending[int](), func(v int) string { return "x" })
	assert.True(t, pending.IsPending())
}

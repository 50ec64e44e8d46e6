package mvi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testIntent struct {
	delta int
}

type testState struct {
	Counter int
}

type testEffect struct {
	Seq int
}

func (e testEffect) Kind() string { return "test" }

func newCounterStore() *Store[testIntent, testState, testEffect] {
	s := NewStore[testIntent, testState, testEffect](testState{})
	s.Bind(func(ctx context.Context, intent testIntent) {
		s.UpdateState(func(st testState) testState {
			st.Counter += intent.delta
			return st
		})
	})
	return s
}

func TestDispatchUpdatesState(t *testing.T) {
	s := newCounterStore()
	defer s.Close()

	s.Dispatch(testIntent{delta: 3})

	assert.Eventually(t, func() bool {
		return s.State().Counter == 3
	}, time.Second, 5*time.Millisecond)
}

func TestConcurrentDispatchesDoNotLoseUpdates(t *testing.T) {
	s := newCounterStore()

	for i := 0; i < 100; i++ {
		s.Dispatch(testIntent{delta: 1})
	}
	s.Close()

	assert.Equal(t, 100, s.State().Counter)
}

func TestSubscribeReplaysLatest(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{Counter: 7})
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()
	select {
	case st := <-ch:
		assert.Equal(t, 7, st.Counter)
	case <-time.After(time.Second):
		t.Fatal("подписчик не получил текущий снимок")
	}

	s.SetState(testState{Counter: 8})
	select {
	case st := <-ch:
		assert.Equal(t, 8, st.Counter)
	case <-time.After(time.Second):
		t.Fatal("подписчик не получил обновление")
	}
}

func TestSlowSubscriberSeesOnlyLatest(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{})
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch

	for i := 1; i <= 10; i++ {
		s.SetState(testState{Counter: i})
	}

	st := <-ch
	assert.Equal(t, 10, st.Counter)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{})
	defer s.Close()

	first, cancelFirst := s.Subscribe()
	second, cancelSecond := s.Subscribe()
	defer cancelSecond()
	<-first
	<-second

	cancelFirst()
	s.SetState(testState{Counter: 1})

	// Отписанный канал закрыт и новых снимков не получает
	st, open := <-first
	assert.False(t, open)
	assert.Equal(t, 0, st.Counter)

	// Остальные подписчики продолжают получать обновления
	select {
	case st := <-second:
		assert.Equal(t, 1, st.Counter)
	case <-time.After(time.Second):
		t.Fatal("оставшийся подписчик не получил обновление")
	}

	// Повторная отписка и отписка после Close безопасны
	cancelFirst()
}

func TestEffectsBufferDropsOldest(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{})
	defer s.Close()

	total := DefaultEffectCapacity + 5
	for i := 0; i < total; i++ {
		s.SendEffect(testEffect{Seq: i})
	}

	var received []int
	for {
		select {
		case e := <-s.Effects():
			received = append(received, e.Seq)
			continue
		default:
		}
		break
	}

	assert.Len(t, received, DefaultEffectCapacity)
	// Вытеснены самые старые: первым остался эффект с номером 5
	assert.Equal(t, 5, received[0])
	assert.Equal(t, total-1, received[len(received)-1])
}

func TestEffectBufferedBeforeSubscription(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{})
	defer s.Close()

	s.SendEffect(testEffect{Seq: 1})

	select {
	case e := <-s.Effects():
		assert.Equal(t, 1, e.Seq)
	case <-time.After(time.Second):
		t.Fatal("эффект не доставлен")
	}
}

func TestPanicInHandlerDoesNotKillStore(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{Counter: 1})
	recovered := make(chan interface{}, 1)
	s.OnPanic(func(r interface{}) { recovered <- r })
	s.Bind(func(ctx context.Context, intent testIntent) {
		if intent.delta < 0 {
			panic("отрицательная дельта")
		}
		s.UpdateState(func(st testState) testState {
			st.Counter += intent.delta
			return st
		})
	})

	s.Dispatch(testIntent{delta: -1})
	s.Dispatch(testIntent{delta: 2})

	assert.Eventually(t, func() bool {
		return s.State().Counter == 3
	}, time.Second, 5*time.Millisecond)

	select {
	case r := <-recovered:
		assert.Equal(t, "отрицательная дельта", r)
	case <-time.After(time.Second):
		t.Fatal("обработчик паники не вызван")
	}

	s.Close()
}

func TestCloseWaitsForInflightIntents(t *testing.T) {
	s := NewStore[testIntent, testState, testEffect](testState{})
	started := make(chan struct{})
	s.Bind(func(ctx context.Context, intent testIntent) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		s.UpdateState(func(st testState) testState {
			st.Counter = 42
			return st
		})
	})

	s.Dispatch(testIntent{})
	<-started
	s.Close()

	assert.Equal(t, 42, s.State().Counter)
}

func TestDispatchAfterCloseIgnored(t *testing.T) {
	s := newCounterStore()
	s.Close()

	s.Dispatch(testIntent{delta: 1})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 0, s.State().Counter)
}

package mvi

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// DefaultEffectCapacity размер буфера эффектов. Достаточен, чтобы при
// обычном потреблении UI эффекты не терялись; при переполнении
// вытесняется самый старый недоставленный эффект.
const DefaultEffectCapacity = 64

// Store однонаправленный контейнер состояния экрана: интенты на входе,
// снимки состояния и одноразовые эффекты на выходе. Каждый экземпляр
// экрана владеет собственным контейнером; все мутации состояния
// атомарны (снимок заменяется целиком под мьютексом), читателей может
// быть много.
type Store[I any, S any, E any] struct {
	mu       sync.RWMutex
	state    S
	watchers []chan S

	effects chan E
	effMu   sync.Mutex

	process func(ctx context.Context, intent I)
	onPanic func(recovered interface{})

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewStore создает контейнер с начальным состоянием. Обработчик
// интентов задается отдельно через Bind, так как usecase-владелец
// строится вокруг уже созданного контейнера.
func NewStore[I any, S any, E any](initial S) *Store[I, S, E] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store[I, S, E]{
		state:   initial,
		effects: make(chan E, DefaultEffectCapacity),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Bind задает обработчик интентов
func (s *Store[I, S, E]) Bind(process func(ctx context.Context, intent I)) {
	s.process = process
}

// OnPanic задает обработчик паники внутри обработки интента
func (s *Store[I, S, E]) OnPanic(fn func(recovered interface{})) {
	s.onPanic = fn
}

// Dispatch ставит интент на асинхронную обработку и сразу возвращает
// управление. Каждый интент обрабатывается в собственной горутине;
// порядок обработки независимых интентов не гарантируется. Паника
// внутри обработчика гасится и не роняет контейнер: состояние остается
// последним целиком записанным снимком.
func (s *Store[I, S, E]) Dispatch(intent I) {
	if s.closed.Load() || s.process == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[mvi] паника при обработке интента: %v", r)
				if s.onPanic != nil {
					s.onPanic(r)
				}
			}
		}()
		s.process(s.ctx, intent)
	}()
}

// State возвращает текущий снимок состояния
func (s *Store[I, S, E]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState атомарно заменяет состояние целиком. Подписчики
// уведомляются под мьютексом: отписка не может закрыть канал во время
// отправки, а notifyWatcher не блокируется.
func (s *Store[I, S, E]) SetState(newState S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState
	for _, ch := range s.watchers {
		notifyWatcher(ch, newState)
	}
}

// UpdateState атомарно читает последний снимок и заменяет его
// результатом функции. Использовать вместо пары State+SetState, иначе
// параллельные интенты теряют обновления друг друга.
func (s *Store[I, S, E]) UpdateState(reducer func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reducer(s.state)
	for _, ch := range s.watchers {
		notifyWatcher(ch, s.state)
	}
}

// notifyWatcher кладет снимок подписчику, заменяя недоставленный
func notifyWatcher[S any](ch chan S, state S) {
	for {
		select {
		case ch <- state:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// SendEffect ставит одноразовый эффект в очередь. Не блокируется: при
// переполнении буфера вытесняется самый старый недоставленный эффект —
// эффекты носят рекомендательный характер (навигация, тосты).
func (s *Store[I, S, E]) SendEffect(effect E) {
	if s.closed.Load() {
		return
	}

	s.effMu.Lock()
	defer s.effMu.Unlock()
	for {
		select {
		case s.effects <- effect:
			return
		default:
			select {
			case <-s.effects:
			default:
			}
		}
	}
}

// Effects возвращает канал одноразовых эффектов. Эффект, отправленный
// до подписки, буферизуется; после вычитывания повторно не доставляется.
func (s *Store[I, S, E]) Effects() <-chan E {
	return s.effects
}

// Subscribe возвращает канал снимков состояния с семантикой
// replay-latest: новый подписчик сразу получает текущий снимок, затем
// каждое изменение (медленный подписчик видит только последнее).
// Функция отписки закрывает канал и освобождает подписку; вызывать ее
// обязан каждый подписчик, живущий короче контейнера. Повторный вызов
// и вызов после Close безопасны.
func (s *Store[I, S, E]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)

	s.mu.Lock()
	ch <- s.state
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		removed := false
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				removed = true
				break
			}
		}
		s.mu.Unlock()

		// Канал закрывается только снявшим подписку: Close закрывает
		// оставшиеся сам, двойного закрытия не происходит
		if removed {
			close(ch)
		}
	}
	return ch, cancel
}

// Close отменяет контекст обработки, дожидается начатых интентов и
// освобождает каналы. Уже начатые вызовы ввода-вывода не прерываются
// жестко — им дается завершиться, чтобы не оставить хранилище в
// состоянии, расходящемся с внешними сервисами.
func (s *Store[I, S, E]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	watchers := s.watchers
	s.watchers = nil
	s.mu.Unlock()

	for _, ch := range watchers {
		close(ch)
	}

	s.effMu.Lock()
	close(s.effects)
	s.effMu.Unlock()
}

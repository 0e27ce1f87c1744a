package orchestration

import (
	"context"
	"sync"

	"github.com/koscakluka/ema-translate/core/events"
)

type eventEmitter func(...events.Event)

// effectQueue is an unbounded FIFO of side effects waiting for the
// presentation surface.
type effectQueue struct {
	mu     sync.Mutex
	items  []events.Event
	signal chan struct{}
}

func newEffectQueue() *effectQueue {
	return &effectQueue{signal: make(chan struct{}, 1)}
}

// push appends all effects as one batch.
func (q *effectQueue) push(effects ...events.Event) {
	if len(effects) == 0 {
		return
	}

	q.mu.Lock()
	q.items = append(q.items, effects...)
	q.mu.Unlock()
	q.notify()

	for _, effect := range effects {
		logger.Debug("effect queued",
			"effect.namespace", effect.Kind().Namespace(),
			"effect.kind", string(effect.Kind()))
	}
}

func (q *effectQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *effectQueue) next(ctx context.Context) (events.Event, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			effect := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			if remaining > 0 {
				q.notify()
			}
			return effect, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *effectQueue) drain() []events.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.items
	q.items = nil
	return drained
}

// NextEffect blocks until a side effect is queued or ctx is done.
func (o *Orchestrator) NextEffect(ctx context.Context) (events.Event, error) {
	return o.effects.next(ctx)
}

// DrainEffects returns every queued side effect without blocking.
func (o *Orchestrator) DrainEffects() []events.Event {
	return o.effects.drain()
}

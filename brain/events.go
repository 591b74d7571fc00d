package brain

import (
	"sync"
)

// Events is a set of optional callbacks a subscriber registers on the
// engine. Nil fields are skipped. Multiple subscribers are supported; the
// engine never depends on any single one being present.
type Events struct {
	// Status fires at each phase transition of Init, Resume and AddMany.
	Status func(text string)

	// Progress fires while the embedding model loads.
	Progress func(progress ModelProgress)

	// Error fires on any terminal failure of Init or Resume.
	Error func(err error)

	// CountChanged fires after any operation that changes the record count.
	CountChanged func(count int64)

	// Ready fires exactly once, after a successful Init.
	Ready func(count int64)
}

type subscribers struct {
	mu   sync.Mutex
	next int
	subs map[int]Events
}

// Subscribe registers ev and returns a function that removes it again.
func (e *Engine) Subscribe(ev Events) (unsubscribe func()) {
	e.subscribers.mu.Lock()
	defer e.subscribers.mu.Unlock()

	if e.subscribers.subs == nil {
		e.subscribers.subs = make(map[int]Events)
	}
	id := e.subscribers.next
	e.subscribers.next++
	e.subscribers.subs[id] = ev

	return func() {
		e.subscribers.mu.Lock()
		defer e.subscribers.mu.Unlock()
		delete(e.subscribers.subs, id)
	}
}

func (e *Engine) snapshotSubscribers() []Events {
	e.subscribers.mu.Lock()
	defer e.subscribers.mu.Unlock()

	subs := make([]Events, 0, len(e.subscribers.subs))
	for _, ev := range e.subscribers.subs {
		subs = append(subs, ev)
	}
	return subs
}

func (e *Engine) emitStatus(text string) {
	for _, ev := range e.snapshotSubscribers() {
		if ev.Status != nil {
			ev.Status(text)
		}
	}
}

func (e *Engine) emitProgress(progress ModelProgress) {
	for _, ev := range e.snapshotSubscribers() {
		if ev.Progress != nil {
			ev.Progress(progress)
		}
	}
}

func (e *Engine) emitError(err error) {
	for _, ev := range e.snapshotSubscribers() {
		if ev.Error != nil {
			ev.Error(err)
		}
	}
}

func (e *Engine) emitCountChanged(count int64) {
	for _, ev := range e.snapshotSubscribers() {
		if ev.CountChanged != nil {
			ev.CountChanged(count)
		}
	}
}

func (e *Engine) emitReady(count int64) {
	for _, ev := range e.snapshotSubscribers() {
		if ev.Ready != nil {
			ev.Ready(count)
		}
	}
}

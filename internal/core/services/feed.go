package services

import (
	"sync"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// stateFeed fans out published states to subscribers.
// Publishing never blocks: each subscriber owns an unbounded queue that a
// dedicated goroutine drains into the subscriber's channel, so a slow
// consumer neither stalls the orchestrator nor loses states.
type stateFeed struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

func newStateFeed() *stateFeed {
	return &stateFeed{subs: make(map[int]*subscriber)}
}

type subscriber struct {
	mu     sync.Mutex
	queue  []domain.OperationState
	notify chan struct{}
	done   chan struct{}
	out    chan domain.OperationState
	once   sync.Once
}

// subscribe registers a subscriber whose first value is current.
func (f *stateFeed) subscribe(current domain.OperationState) (<-chan domain.OperationState, func()) {
	sub := &subscriber{
		queue:  []domain.OperationState{current},
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan domain.OperationState),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(sub.out)
		return sub.out, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	sub.wake()
	go sub.pump()

	unsubscribe := func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		sub.stop()
	}
	return sub.out, unsubscribe
}

// publish queues state for every subscriber.
func (f *stateFeed) publish(state domain.OperationState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		sub.push(state)
	}
}

// close stops every subscriber and refuses new ones.
func (f *stateFeed) close() {
	f.mu.Lock()
	subs := f.subs
	f.subs = make(map[int]*subscriber)
	f.closed = true
	f.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *subscriber) push(state domain.OperationState) {
	s.mu.Lock()
	s.queue = append(s.queue, state)
	s.mu.Unlock()
	s.wake()
}

func (s *subscriber) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// pump delivers queued states in order until the subscriber stops.
func (s *subscriber) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.out <- next:
			case <-s.done:
				return
			}
		}
	}
}

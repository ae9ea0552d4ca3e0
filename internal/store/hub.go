package store

import "sync"

// hub fans committed snapshots out to per-key subscribers. Each
// subscription owns an unbounded queue drained by its own goroutine, so a
// slow consumer never blocks the publishing path.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscription is a cancellable stream of record snapshots for one key.
type Subscription struct {
	h   *hub
	key string

	out  chan Snapshot
	wake chan struct{}
	done chan struct{}

	mu     sync.Mutex
	queue  []Snapshot
	closed bool
}

// Updates returns the snapshot stream. The channel is closed after Cancel.
func (s *Subscription) Updates() <-chan Snapshot { return s.out }

// Cancel detaches the subscription and releases its queue and goroutine.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.h.remove(s.key, s)
	close(s.done)
}

func (s *Subscription) push(snap Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, snap)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			snap := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.out <- snap:
			case <-s.done:
				return
			}
		}
	}
}

func (h *hub) subscribe(key string) *Subscription {
	s := &Subscription{
		h:    h,
		key:  key,
		out:  make(chan Snapshot),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscription]struct{})
	}
	h.subs[key][s] = struct{}{}
	h.mu.Unlock()

	go s.pump()
	return s
}

func (h *hub) publish(snap Snapshot) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs[snap.DocID]))
	for s := range h.subs[snap.DocID] {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.push(snap)
	}
}

func (h *hub) remove(key string, s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[key]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
}

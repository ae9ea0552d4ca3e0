// Package session models the client side of a payment attempt as an
// explicit state machine instead of ambient mutable fields.
package session

import "fmt"

type State string

const (
	StateNotStarted State = "not_started"
	StatePlacing    State = "placing"
	StatePlaced     State = "placed"
	StateObserving  State = "observing"
)

var transitions = map[State]map[State]struct{}{
	StateNotStarted: {StatePlacing: {}},
	StatePlacing:    {StatePlaced: {}},
	StatePlaced:     {StateObserving: {}},
	StateObserving:  {StateObserving: {}},
}

func CanTransition(from, to State) bool {
	_, ok := transitions[from][to]
	return ok
}

// Session tracks one payment attempt. DocID is set when the order is
// placed; Status carries the last observed transaction status.
type Session struct {
	state  State
	docID  string
	status string
}

func New() *Session {
	return &Session{state: StateNotStarted}
}

func (s *Session) State() State   { return s.state }
func (s *Session) DocID() string  { return s.docID }
func (s *Session) Status() string { return s.status }

func (s *Session) to(next State) error {
	if !CanTransition(s.state, next) {
		return fmt.Errorf("session: invalid transition %s -> %s", s.state, next)
	}
	s.state = next
	return nil
}

// Begin marks the order request as in flight.
func (s *Session) Begin() error {
	return s.to(StatePlacing)
}

// Placed records the derived key once the order call has returned.
func (s *Session) Placed(docID string) error {
	if docID == "" {
		return fmt.Errorf("session: missing doc id")
	}
	if err := s.to(StatePlaced); err != nil {
		return err
	}
	s.docID = docID
	return nil
}

// Observe records a status snapshot; the first call moves the session into
// the observing state.
func (s *Session) Observe(status string) error {
	if err := s.to(StateObserving); err != nil {
		return err
	}
	s.status = status
	return nil
}

package health

import "sync"

// Phase describes where the process is in its startup sequence.
type Phase int32

const (
	// PhaseStarting is the initial phase: the process is alive but the
	// model has not finished loading yet.
	PhaseStarting Phase = iota

	// PhaseReady means the model loaded successfully and traffic may be
	// admitted. This is the terminal success phase.
	PhaseReady

	// PhaseFailed means the model load failed. The process stays alive so
	// the failure is observable, but it never becomes ready; the expected
	// recovery is an orchestrator restart.
	PhaseFailed
)

// State is the process-wide health state machine consumed by the liveness
// and readiness probes.
//
// The only legal transitions are starting→ready and starting→failed, each of
// which happens at most once. Reads are lock-free on the hot path apart from
// an RLock, which is uncontended after startup.
type State struct {
	mu     sync.RWMutex
	phase  Phase
	detail string
}

// NewState returns a State in the starting phase.
func NewState() *State {
	return &State{phase: PhaseStarting}
}

// SetReady transitions starting→ready. It is a no-op if the state already
// left the starting phase.
func (s *State) SetReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseStarting {
		s.phase = PhaseReady
		s.detail = ""
	}
}

// SetFailed transitions starting→failed and records a detail string for the
// readiness probe. It is a no-op if the state already left the starting phase.
func (s *State) SetFailed(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseStarting {
		s.phase = PhaseFailed
		s.detail = detail
	}
}

// Live reports process liveness. It never depends on model state, so a slow
// model load cannot make the orchestrator kill the pod before it had a
// chance to become ready.
func (s *State) Live() bool {
	return true
}

// Ready reports whether the model finished loading and traffic may be
// admitted.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == PhaseReady
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Detail returns the failure detail, or an empty string outside the failed
// phase.
func (s *State) Detail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detail
}

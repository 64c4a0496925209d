package types

import (
	"errors"
	"io"
)

var ErrInvalidAction = errors.New("action not in the action space")

// Environment that the agent interacts with, gym style
type Environment interface {
	// Reset called at the start of each episode.
	// A non nil seed reseeds the environment randomness
	Reset(seed *int64) State
	// Step applies the action and returns the transition
	Step(Action) (*StepResult, error)
	// ActionSpace describes the actions accepted by Step
	ActionSpace() Space
	// ObservationSpace describes the states returned
	ObservationSpace() Space
}

// State of the system that RL policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
}

// And Action that RL policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// StepResult is the outcome of a single Step
type StepResult struct {
	State      State
	Reward     float64
	Terminated bool
	Truncated  bool
}

// Done is true when the episode has ended for either reason
func (s *StepResult) Done() bool {
	return s.Terminated || s.Truncated
}

// Renderer is implemented by environments that can draw themselves as text
type Renderer interface {
	Render(io.Writer) error
}

// Seed is a helper to pass literal seeds to Reset
func Seed(s int64) *int64 {
	return &s
}

package types

import "io"

// TimeLimit truncates episodes of the wrapped environment after MaxSteps steps
type TimeLimit struct {
	Environment
	MaxSteps int
	elapsed  int
}

var _ Environment = &TimeLimit{}
var _ Renderer = &TimeLimit{}

func WithTimeLimit(env Environment, maxSteps int) *TimeLimit {
	return &TimeLimit{
		Environment: env,
		MaxSteps:    maxSteps,
	}
}

func (t *TimeLimit) Reset(seed *int64) State {
	t.elapsed = 0
	return t.Environment.Reset(seed)
}

func (t *TimeLimit) Step(a Action) (*StepResult, error) {
	res, err := t.Environment.Step(a)
	if err != nil {
		return nil, err
	}
	t.elapsed += 1
	if t.MaxSteps > 0 && t.elapsed >= t.MaxSteps {
		res.Truncated = true
	}
	return res, nil
}

// Elapsed steps in the current episode
func (t *TimeLimit) Elapsed() int {
	return t.elapsed
}

func (t *TimeLimit) Render(w io.Writer) error {
	if r, ok := t.Environment.(Renderer); ok {
		return r.Render(w)
	}
	return nil
}

package types

// Trace of an episode as (state, action, result) triplets
type Trace struct {
	states  []State
	actions []Action
	results []*StepResult
}

func NewTrace() *Trace {
	return &Trace{
		states:  make([]State, 0),
		actions: make([]Action, 0),
		results: make([]*StepResult, 0),
	}
}

func (t *Trace) Append(state State, action Action, result *StepResult) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.results = append(t.results, result)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, *StepResult, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, nil, false
	}
	return t.states[i], t.actions[i], t.results[i], true
}

func (t *Trace) Last() (State, Action, *StepResult, bool) {
	if len(t.states) < 1 {
		return nil, nil, nil, false
	}
	lastIndex := len(t.states) - 1
	return t.states[lastIndex], t.actions[lastIndex], t.results[lastIndex], true
}

// Return is the undiscounted sum of rewards
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.results {
		sum += r.Reward
	}
	return sum
}

// Ended is true when the last step terminated or truncated the episode
func (t *Trace) Ended() bool {
	_, _, res, ok := t.Last()
	return ok && res.Done()
}

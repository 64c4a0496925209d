package types

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type Policy interface {
	// UpdateIteration is called at the end of every episode
	UpdateIteration(int, *Trace)
	// NextAction picks the action for the step. false ends the run
	NextAction(int, State, Space) (Action, bool)
	// Update is called after every step
	Update(int, State, Action, *StepResult)
	Reset()
}

// RandomPolicy samples the action space uniformly
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return NewSeededRandomPolicy(uint64(time.Now().UnixNano()))
}

func NewSeededRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {}

func (r *RandomPolicy) NextAction(_ int, _ State, space Space) (Action, bool) {
	return space.Sample(r.rand), true
}

func (r *RandomPolicy) Update(_ int, _ State, _ Action, _ *StepResult) {}

// ScriptedPolicy replays a fixed list of actions, across episodes,
// and stops once the list is exhausted
type ScriptedPolicy struct {
	actions []Action
	next    int
}

var _ Policy = &ScriptedPolicy{}

func NewScriptedPolicy(actions ...Action) *ScriptedPolicy {
	return &ScriptedPolicy{
		actions: actions,
	}
}

// DiscreteScript builds a scripted policy from action indices
func DiscreteScript(actions ...int) *ScriptedPolicy {
	script := make([]Action, len(actions))
	for i, a := range actions {
		script[i] = DiscreteAction(a)
	}
	return NewScriptedPolicy(script...)
}

// Repeat returns the action n times
func Repeat(a Action, n int) []Action {
	out := make([]Action, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func (s *ScriptedPolicy) Len() int {
	return len(s.actions)
}

func (s *ScriptedPolicy) Reset() {
	s.next = 0
}

func (s *ScriptedPolicy) UpdateIteration(_ int, _ *Trace) {}

func (s *ScriptedPolicy) NextAction(_ int, _ State, _ Space) (Action, bool) {
	if s.next >= len(s.actions) {
		return nil, false
	}
	a := s.actions[s.next]
	s.next++
	return a, true
}

func (s *ScriptedPolicy) Update(_ int, _ State, _ Action, _ *StepResult) {}

// SoftMaxPolicy is tabular Q-learning over a Discrete action space with
// softmax exploration
type SoftMaxPolicy struct {
	QTable      map[string]map[string]float64
	alpha       float64
	gamma       float64
	temperature float64
	rand        rand.Source
}

var _ Policy = &SoftMaxPolicy{}

func NewSoftMaxPolicy(alpha, gamma, temperature float64, seed uint64) *SoftMaxPolicy {
	return &SoftMaxPolicy{
		QTable:      make(map[string]map[string]float64),
		alpha:       alpha,
		gamma:       gamma,
		temperature: temperature,
		rand:        rand.NewSource(seed),
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.QTable = make(map[string]map[string]float64)
}

func (s *SoftMaxPolicy) UpdateIteration(_ int, _ *Trace) {}

func (s *SoftMaxPolicy) NextAction(step int, state State, space Space) (Action, bool) {
	discrete, ok := space.(Discrete)
	if !ok || discrete.N == 0 {
		return nil, false
	}
	stateHash := state.Hash()

	if _, ok := s.QTable[stateHash]; !ok {
		s.QTable[stateHash] = make(map[string]float64)
	}

	actions := make([]Action, discrete.N)
	vals := make([]float64, discrete.N)
	maxVal := math.Inf(-1)
	for i := range actions {
		actions[i] = DiscreteAction(i)
		vals[i] = s.QTable[stateHash][actions[i].Hash()] / s.temperature
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}

	sum := float64(0)
	for i, v := range vals {
		vals[i] = math.Exp(v - maxVal)
		sum += vals[i]
	}
	weights := make([]float64, len(vals))
	for i, v := range vals {
		weights[i] = v / sum
	}
	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return nil, false
	}
	return actions[i], true
}

func (s *SoftMaxPolicy) Update(step int, state State, action Action, result *StepResult) {
	stateHash := state.Hash()
	nextStateHash := result.State.Hash()
	actionKey := action.Hash()
	if _, ok := s.QTable[stateHash]; !ok {
		s.QTable[stateHash] = make(map[string]float64)
	}
	curVal := s.QTable[stateHash][actionKey]
	// terminal states have no future value
	max := float64(0)
	if !result.Terminated {
		first := true
		for _, val := range s.QTable[nextStateHash] {
			if first || val > max {
				max = val
				first = false
			}
		}
	}
	nextVal := (1-s.alpha)*curVal + s.alpha*(result.Reward+s.gamma*max)
	s.QTable[stateHash][actionKey] = nextVal
}

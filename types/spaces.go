package types

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
)

// Space of actions or observations
type Space interface {
	Sample(*rand.Rand) Action
	Contains(any) bool
}

// DiscreteAction indexes an action in a Discrete space
type DiscreteAction int

var _ Action = DiscreteAction(0)

func (d DiscreteAction) Hash() string {
	return strconv.Itoa(int(d))
}

// DiscreteState is the observation of environments with finitely many states
type DiscreteState int

var _ State = DiscreteState(0)

func (d DiscreteState) Hash() string {
	return strconv.Itoa(int(d))
}

// ContinuousAction is a point in a Box space
type ContinuousAction []float64

var _ Action = ContinuousAction{}

func (c ContinuousAction) Hash() string {
	return formatVector(c)
}

// Observation is a continuous state vector
type Observation []float64

var _ State = Observation{}

func (o Observation) Hash() string {
	return formatVector(o)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Discrete space {0, 1, ..., N-1}
type Discrete struct {
	N int
}

var _ Space = Discrete{}

func (d Discrete) Sample(r *rand.Rand) Action {
	return DiscreteAction(r.Intn(d.N))
}

func (d Discrete) Contains(x any) bool {
	var v int
	switch t := x.(type) {
	case DiscreteAction:
		v = int(t)
	case DiscreteState:
		v = int(t)
	case int:
		v = t
	default:
		return false
	}
	return v >= 0 && v < d.N
}

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// Box is the product of closed intervals [Low[i], High[i]]
type Box struct {
	Low  []float64
	High []float64
}

var _ Space = Box{}

func (b Box) Sample(r *rand.Rand) Action {
	a := make(ContinuousAction, len(b.Low))
	for i := range a {
		a[i] = b.Low[i] + r.Float64()*(b.High[i]-b.Low[i])
	}
	return a
}

func (b Box) Contains(x any) bool {
	var v []float64
	switch t := x.(type) {
	case ContinuousAction:
		v = t
	case Observation:
		v = t
	case []float64:
		v = t
	default:
		return false
	}
	if len(v) != len(b.Low) {
		return false
	}
	for i, val := range v {
		if val < b.Low[i] || val > b.High[i] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return fmt.Sprintf("Box(%s, %s)", formatVector(b.Low), formatVector(b.High))
}

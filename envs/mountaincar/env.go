// Package mountaincar is the classic control task of driving an under
// powered car up a hill by building momentum.
package mountaincar

import (
	"fmt"
	"io"
	"math"

	"github.com/zeu5/gym-labs/types"
	"golang.org/x/exp/rand"
)

const (
	MinPosition  = -1.2
	MaxPosition  = 0.6
	MaxSpeed     = 0.07
	GoalPosition = 0.5
	GoalVelocity = 0.0

	Force   = 0.001
	Gravity = 0.0025

	MaxEpisodeSteps = 200
)

// Actions
const (
	PushLeft  = 0
	NoPush    = 1
	PushRight = 2
)

type Environment struct {
	Position float64
	Velocity float64

	rand *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.Renderer = &Environment{}

func NewEnvironment() *Environment {
	return &Environment{
		rand: rand.New(rand.NewSource(0)),
	}
}

// New is MountainCar with the standard time limit
func New() *types.TimeLimit {
	return types.WithTimeLimit(NewEnvironment(), MaxEpisodeSteps)
}

func (e *Environment) observation() types.Observation {
	return types.Observation{e.Position, e.Velocity}
}

func (e *Environment) Reset(seed *int64) types.State {
	if seed != nil {
		e.rand.Seed(uint64(*seed))
	}
	e.Position = -0.6 + 0.2*e.rand.Float64()
	e.Velocity = 0
	return e.observation()
}

func (e *Environment) Step(a types.Action) (*types.StepResult, error) {
	action, ok := a.(types.DiscreteAction)
	if !ok || !e.ActionSpace().Contains(action) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}

	e.Velocity += float64(action-1)*Force + math.Cos(3*e.Position)*(-Gravity)
	e.Velocity = clip(e.Velocity, -MaxSpeed, MaxSpeed)
	e.Position += e.Velocity
	e.Position = clip(e.Position, MinPosition, MaxPosition)
	if e.Position == MinPosition && e.Velocity < 0 {
		e.Velocity = 0
	}

	return &types.StepResult{
		State:      e.observation(),
		Reward:     -1,
		Terminated: e.Position >= GoalPosition && e.Velocity >= GoalVelocity,
	}, nil
}

func (e *Environment) ActionSpace() types.Space {
	return types.Discrete{N: 3}
}

func (e *Environment) ObservationSpace() types.Space {
	return types.Box{
		Low:  []float64{MinPosition, -MaxSpeed},
		High: []float64{MaxPosition, MaxSpeed},
	}
}

// Height of the hill at position x
func Height(x float64) float64 {
	return math.Sin(3*x)*0.45 + 0.55
}

const trackWidth = 40

// trackColumn of position x on the rendered track
func trackColumn(x float64) int {
	col := (x - MinPosition) / (MaxPosition - MinPosition) * (trackWidth - 1)
	return int(col)
}

func (e *Environment) Render(w io.Writer) error {
	col := trackColumn(e.Position)
	goal := trackColumn(GoalPosition)
	track := make([]byte, trackWidth)
	for i := range track {
		track[i] = '_'
	}
	track[goal] = '|'
	track[col] = 'C'
	_, err := fmt.Fprintf(w, "%s  pos %+.4f vel %+.4f height %.3f\n", track, e.Position, e.Velocity, Height(e.Position))
	return err
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

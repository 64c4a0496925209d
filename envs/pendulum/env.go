// Package pendulum is the inverted pendulum swing up task with a
// continuous torque action.
package pendulum

import (
	"fmt"
	"io"
	"math"

	"github.com/zeu5/gym-labs/types"
	"golang.org/x/exp/rand"
)

const (
	MaxSpeed  = 8.0
	MaxTorque = 2.0
	Dt        = 0.05
	G         = 10.0
	M         = 1.0
	L         = 1.0

	MaxEpisodeSteps = 200
)

type Environment struct {
	Theta    float64
	ThetaDot float64

	lastTorque float64
	rand       *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.Renderer = &Environment{}

func NewEnvironment() *Environment {
	return &Environment{
		rand: rand.New(rand.NewSource(0)),
	}
}

// New is Pendulum with the standard time limit
func New() *types.TimeLimit {
	return types.WithTimeLimit(NewEnvironment(), MaxEpisodeSteps)
}

func (e *Environment) observation() types.Observation {
	return types.Observation{math.Cos(e.Theta), math.Sin(e.Theta), e.ThetaDot}
}

func (e *Environment) Reset(seed *int64) types.State {
	if seed != nil {
		e.rand.Seed(uint64(*seed))
	}
	e.Theta = math.Pi * (2*e.rand.Float64() - 1)
	e.ThetaDot = 2*e.rand.Float64() - 1
	e.lastTorque = 0
	return e.observation()
}

func (e *Environment) Step(a types.Action) (*types.StepResult, error) {
	action, ok := a.(types.ContinuousAction)
	if !ok || len(action) != 1 {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}
	u := clip(action[0], -MaxTorque, MaxTorque)
	e.lastTorque = u

	th, thdot := e.Theta, e.ThetaDot
	costs := math.Pow(NormalizeAngle(th), 2) + 0.1*thdot*thdot + 0.001*u*u

	newthdot := thdot + (3*G/(2*L)*math.Sin(th)+3.0/(M*L*L)*u)*Dt
	newthdot = clip(newthdot, -MaxSpeed, MaxSpeed)
	e.Theta = th + newthdot*Dt
	e.ThetaDot = newthdot

	return &types.StepResult{
		State:  e.observation(),
		Reward: -costs,
	}, nil
}

func (e *Environment) ActionSpace() types.Space {
	return types.Box{
		Low:  []float64{-MaxTorque},
		High: []float64{MaxTorque},
	}
}

func (e *Environment) ObservationSpace() types.Space {
	return types.Box{
		Low:  []float64{-1, -1, -MaxSpeed},
		High: []float64{1, 1, MaxSpeed},
	}
}

// NormalizeAngle maps x to [-pi, pi)
func NormalizeAngle(x float64) float64 {
	r := math.Mod(x+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}

func (e *Environment) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "theta %+.3f rad (%+.1f deg) thetadot %+.3f torque %+.3f\n",
		NormalizeAngle(e.Theta), NormalizeAngle(e.Theta)*180/math.Pi, e.ThetaDot, e.lastTorque)
	return err
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

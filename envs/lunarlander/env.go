// Package lunarlander is a simplified LunarLander: a rigid lander body with
// two legs falls onto flat ground and is steered with a main engine and two
// orientation engines. Observations and rewards follow the gym task; the
// dynamics are integrated directly instead of through a physics engine.
package lunarlander

import (
	"fmt"
	"io"
	"math"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/gym-labs/types"
	"golang.org/x/exp/rand"
)

// Actions
const (
	Noop        = 0
	FireLeft    = 1
	FireMain    = 2
	FireRight   = 3
	NumActions  = 4
	ObservedDim = 8
)

const (
	FPS   = 50.0
	Scale = 30.0

	ViewportW = 600.0
	ViewportH = 400.0

	// world size in meters
	WorldW = ViewportW / Scale
	WorldH = ViewportH / Scale

	Gravity = -10.0

	// accelerations produced by the engines, m/s^2 and rad/s^2
	MainEngineAccel    = 20.0
	SideEngineAccel    = 2.9
	SideEngineAngAccel = 3.0

	LegAway = 20 / Scale
	LegDown = 18 / Scale

	BodyHalfW = 14 / Scale
	BodyHalfH = 12 / Scale

	InitialRandom = 4.0
	// touching down faster than this breaks the legs
	CrashSpeed = 4.0

	RestFrames      = 10
	MaxEpisodeSteps = 1000
)

var (
	HelipadY = WorldH / 4
	HelipadX = [2]float64{WorldW/2 - 0.2*WorldW/2, WorldW/2 + 0.2*WorldW/2}
)

type Environment struct {
	X, Y       float64
	VX, VY     float64
	Angle      float64
	AngularVel float64
	Legs       [2]bool
	Colors     bool

	gameOver     bool
	terminal     bool
	restCount    int
	prevShaping  float64
	lastAction   int
	rand         *rand.Rand
	lastObserved types.Observation
}

var _ types.Environment = &Environment{}
var _ types.Renderer = &Environment{}

func NewEnvironment() *Environment {
	return &Environment{
		Colors:     true,
		lastAction: -1,
		rand:       rand.New(rand.NewSource(0)),
	}
}

// New is LunarLander with the standard time limit
func New() *types.TimeLimit {
	return types.WithTimeLimit(NewEnvironment(), MaxEpisodeSteps)
}

func (e *Environment) Reset(seed *int64) types.State {
	if seed != nil {
		e.rand.Seed(uint64(*seed))
	}
	e.X = WorldW / 2
	e.Y = WorldH
	e.VX = InitialRandom * (2*e.rand.Float64() - 1)
	e.VY = InitialRandom * (2*e.rand.Float64() - 1)
	e.Angle = 0
	e.AngularVel = 0
	e.Legs = [2]bool{}
	e.gameOver = false
	e.terminal = false
	e.restCount = 0
	e.lastAction = -1

	obs := e.observe()
	e.prevShaping = shaping(obs)
	return obs
}

func (e *Environment) observe() types.Observation {
	obs := types.Observation{
		(e.X - WorldW/2) / (WorldW / 2),
		(e.Y - (HelipadY + LegDown)) / (WorldH / 2),
		e.VX * (WorldW / 2) / FPS,
		e.VY * (WorldH / 2) / FPS,
		e.Angle,
		20 * e.AngularVel / FPS,
		boolFloat(e.Legs[0]),
		boolFloat(e.Legs[1]),
	}
	e.lastObserved = obs
	return obs
}

func shaping(obs types.Observation) float64 {
	return -100*math.Hypot(obs[0], obs[1]) -
		100*math.Hypot(obs[2], obs[3]) -
		100*math.Abs(obs[4]) +
		10*obs[6] + 10*obs[7]
}

// rotate (x, y) in the body frame to the world frame
func (e *Environment) rotate(x, y float64) (float64, float64) {
	s, c := math.Sincos(e.Angle)
	return x*c - y*s, x*s + y*c
}

func (e *Environment) Step(a types.Action) (*types.StepResult, error) {
	action, ok := a.(types.DiscreteAction)
	if !ok || !e.ActionSpace().Contains(action) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}
	e.lastAction = int(action)
	if e.terminal {
		return &types.StepResult{State: e.lastObserved, Terminated: true}, nil
	}

	dt := 1 / FPS
	ax, ay := 0.0, Gravity
	angAcc := 0.0
	mPower, sPower := 0.0, 0.0

	switch int(action) {
	case FireMain:
		ux, uy := e.rotate(0, MainEngineAccel)
		ax += ux
		ay += uy
		mPower = 1
	case FireLeft, FireRight:
		// the left engine pushes the body right and spins it clockwise
		direction := 1.0
		if int(action) == FireRight {
			direction = -1
		}
		sx, sy := e.rotate(direction*SideEngineAccel, 0)
		ax += sx
		ay += sy
		angAcc = -direction * SideEngineAngAccel
		sPower = 1
	}

	e.VX += ax * dt
	e.VY += ay * dt
	e.AngularVel += angAcc * dt
	e.X += e.VX * dt
	e.Y += e.VY * dt
	e.Angle += e.AngularVel * dt

	e.resolveContacts()

	obs := e.observe()
	sh := shaping(obs)
	reward := sh - e.prevShaping
	e.prevShaping = sh
	reward -= mPower * 0.30
	reward -= sPower * 0.03

	if e.gameOver || math.Abs(obs[0]) >= 1 {
		e.terminal = true
		reward = -100
	} else if e.restCount >= RestFrames {
		e.terminal = true
		reward = 100
	}

	return &types.StepResult{
		State:      obs,
		Reward:     reward,
		Terminated: e.terminal,
	}, nil
}

// resolveContacts keeps the legs on the ground and detects crashes of the body
func (e *Environment) resolveContacts() {
	legs := [2][2]float64{}
	lowest := math.Inf(1)
	for i, side := range []float64{-1, 1} {
		dx, dy := e.rotate(side*LegAway, -LegDown)
		legs[i] = [2]float64{e.X + dx, e.Y + dy}
		lowest = math.Min(lowest, legs[i][1])
	}
	if lowest < HelipadY {
		if e.VY < -CrashSpeed {
			e.gameOver = true
		}
		e.Y += HelipadY - lowest
		for i := range legs {
			legs[i][1] += HelipadY - lowest
		}
		if e.VY < 0 {
			e.VY = 0
		}
		e.VX *= 0.9
	}
	for i := range legs {
		e.Legs[i] = legs[i][1] <= HelipadY+1e-6
	}
	if e.Legs[0] && e.Legs[1] {
		e.AngularVel *= 0.5
		e.Angle *= 0.9
	} else if e.Legs[0] || e.Legs[1] {
		// a single leg on the ground tips the body over
		tip := 1.0
		if e.Legs[1] {
			tip = -1
		}
		e.AngularVel += tip * 0.5 * math.Sin(math.Abs(e.Angle)+0.1) / FPS
	}

	for _, cx := range []float64{-BodyHalfW, BodyHalfW} {
		for _, cy := range []float64{-BodyHalfH, BodyHalfH} {
			_, dy := e.rotate(cx, cy)
			if e.Y+dy <= HelipadY {
				e.gameOver = true
			}
		}
	}

	speed := math.Hypot(e.VX, e.VY)
	if e.Legs[0] && e.Legs[1] && speed < 0.05 && math.Abs(e.AngularVel) < 0.05 {
		e.restCount++
	} else {
		e.restCount = 0
	}
}

func (e *Environment) ActionSpace() types.Space {
	return types.Discrete{N: NumActions}
}

func (e *Environment) ObservationSpace() types.Space {
	low := []float64{-1.5, -1.5, -5, -5, -math.Pi, -5, 0, 0}
	high := []float64{1.5, 1.5, 5, 5, math.Pi, 5, 1, 1}
	return types.Box{Low: low, High: high}
}

// OnHelipad reports whether the lander is between the flags
func (e *Environment) OnHelipad() bool {
	return e.X >= HelipadX[0] && e.X <= HelipadX[1]
}

func (e *Environment) Render(w io.Writer) error {
	if e.lastObserved == nil {
		e.observe()
	}
	au := aurora.NewAurora(e.Colors)
	legs := ""
	for _, l := range e.Legs {
		if l {
			legs += au.Green("L").String()
		} else {
			legs += "-"
		}
	}
	status := ""
	switch {
	case e.gameOver:
		status = au.Red(" crashed").String()
	case e.terminal:
		status = au.Green(" landed").String()
	}
	_, err := fmt.Fprintf(w, "x %+.3f y %+.3f vx %+.3f vy %+.3f angle %+.3f legs %s%s\n",
		e.lastObserved[0], e.lastObserved[1], e.lastObserved[2], e.lastObserved[3], e.Angle, legs, status)
	return err
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Package frozenlake is the FrozenLake grid world: walk from S to G over
// frozen tiles F without falling into a hole H.
package frozenlake

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/gym-labs/types"
	"golang.org/x/exp/rand"
)

// Actions
const (
	Left  = 0
	Down  = 1
	Right = 2
	Up    = 3
)

var actionNames = []string{"Left", "Down", "Right", "Up"}

// MaxEpisodeSteps of the registered 8x8 environment
const MaxEpisodeSteps = 200

var Map4x4 = []string{
	"SFFF",
	"FHFH",
	"FFFH",
	"HFFG",
}

var Map8x8 = []string{
	"SFFFFFFF",
	"FFFFFFFF",
	"FFFHFFFF",
	"FFFFFHFF",
	"FFFHFFFF",
	"FHHFFFHF",
	"FHFFHFHF",
	"FFFHFFFG",
}

type Environment struct {
	Desc     []string
	Slippery bool
	Colors   bool

	nrow       int
	ncol       int
	start      int
	state      int
	lastAction int
	rand       *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.Renderer = &Environment{}

func NewEnvironment(desc []string, slippery bool) *Environment {
	e := &Environment{
		Desc:       desc,
		Slippery:   slippery,
		Colors:     true,
		nrow:       len(desc),
		ncol:       len(desc[0]),
		lastAction: -1,
		rand:       rand.New(rand.NewSource(0)),
	}
	for i, row := range desc {
		if j := strings.IndexByte(row, 'S'); j >= 0 {
			e.start = i*e.ncol + j
		}
	}
	e.state = e.start
	return e
}

// New8x8 is FrozenLake8x8 with the standard time limit
func New8x8(slippery bool) *types.TimeLimit {
	return types.WithTimeLimit(NewEnvironment(Map8x8, slippery), MaxEpisodeSteps)
}

func (e *Environment) Reset(seed *int64) types.State {
	if seed != nil {
		e.rand.Seed(uint64(*seed))
	}
	e.state = e.start
	e.lastAction = -1
	return types.DiscreteState(e.state)
}

func (e *Environment) tile(s int) byte {
	return e.Desc[s/e.ncol][s%e.ncol]
}

func (e *Environment) move(row, col, a int) (int, int) {
	switch a {
	case Left:
		col = max(col-1, 0)
	case Down:
		row = min(row+1, e.nrow-1)
	case Right:
		col = min(col+1, e.ncol-1)
	case Up:
		row = max(row-1, 0)
	}
	return row, col
}

func (e *Environment) Step(a types.Action) (*types.StepResult, error) {
	action, ok := a.(types.DiscreteAction)
	if !ok || !e.ActionSpace().Contains(action) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}
	e.lastAction = int(action)

	// holes and the goal are absorbing
	if t := e.tile(e.state); t == 'H' || t == 'G' {
		return &types.StepResult{State: types.DiscreteState(e.state), Terminated: true}, nil
	}

	dir := int(action)
	if e.Slippery {
		// intended direction or one of the two perpendicular ones
		dir = (dir + e.rand.Intn(3) + 3) % 4
	}
	row, col := e.move(e.state/e.ncol, e.state%e.ncol, dir)
	e.state = row*e.ncol + col

	t := e.tile(e.state)
	res := &types.StepResult{
		State:      types.DiscreteState(e.state),
		Terminated: t == 'H' || t == 'G',
	}
	if t == 'G' {
		res.Reward = 1
	}
	return res, nil
}

func (e *Environment) ActionSpace() types.Space {
	return types.Discrete{N: 4}
}

func (e *Environment) ObservationSpace() types.Space {
	return types.Discrete{N: e.nrow * e.ncol}
}

// Position of a state as (row, col)
func (e *Environment) Position(s types.DiscreteState) (int, int) {
	return int(s) / e.ncol, int(s) % e.ncol
}

func (e *Environment) Dims() (int, int) {
	return e.nrow, e.ncol
}

func (e *Environment) Render(w io.Writer) error {
	au := aurora.NewAurora(e.Colors)
	var b strings.Builder
	if e.lastAction >= 0 {
		fmt.Fprintf(&b, "  (%s)\n", actionNames[e.lastAction])
	}
	for i, row := range e.Desc {
		for j := 0; j < len(row); j++ {
			tile := string(row[j])
			var v aurora.Value
			switch row[j] {
			case 'H':
				v = au.Blue(tile)
			case 'G':
				v = au.Green(tile)
			case 'S':
				v = au.Cyan(tile)
			default:
				v = au.White(tile)
			}
			if i*e.ncol+j == e.state {
				v = au.BgRed(tile).Bold()
			}
			b.WriteString(v.String())
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

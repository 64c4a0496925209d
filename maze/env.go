package maze

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/gym-labs/types"
)

// Environment walks an agent through the maze.
// Every step costs -1 and reaching the goal terminates the episode
type Environment struct {
	Maze   *Maze
	CurPos Position
	Colors bool
}

var _ types.Environment = &Environment{}
var _ types.Renderer = &Environment{}

func NewEnvironment(m *Maze) *Environment {
	return &Environment{
		Maze:   m,
		CurPos: m.Start,
		Colors: true,
	}
}

func (e *Environment) Reset(_ *int64) types.State {
	e.CurPos = e.Maze.Start
	return e.CurPos
}

func (e *Environment) Step(a types.Action) (*types.StepResult, error) {
	action, ok := a.(types.DiscreteAction)
	if !ok || !e.ActionSpace().Contains(action) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}
	if e.CurPos == e.Maze.Goal {
		return &types.StepResult{State: e.CurPos, Terminated: true}, nil
	}
	if next, ok := e.CurPos.Add(Move(action)); ok && e.Maze.Grid.Open(next) {
		e.CurPos = next
	}
	return &types.StepResult{
		State:      e.CurPos,
		Reward:     -1,
		Terminated: e.CurPos == e.Maze.Goal,
	}, nil
}

func (e *Environment) ActionSpace() types.Space {
	return types.Discrete{N: len(AllMoves)}
}

func (e *Environment) ObservationSpace() types.Space {
	return types.Discrete{N: e.Maze.Grid.Rows() * e.Maze.Grid.Cols()}
}

// Render draws walls as #, the start as S, the goal as G and the agent as @
func (e *Environment) Render(w io.Writer) error {
	_, err := io.WriteString(w, RenderPath(e.Maze, []Position{e.CurPos}, e.Colors))
	return err
}

// RenderPath draws the maze with the visited cells of path marked.
// The last position of the path is drawn as the agent
func RenderPath(m *Maze, path []Position, colors bool) string {
	au := aurora.NewAurora(colors)
	onPath := make(map[Position]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}
	var agent Position
	hasAgent := len(path) > 0
	if hasAgent {
		agent = path[len(path)-1]
	}

	var b strings.Builder
	for i, row := range m.Grid.Cells {
		for j, c := range row {
			p := Position{Row: i, Col: j}
			switch {
			case hasAgent && p == agent:
				b.WriteString(au.Red("@").Bold().String())
			case p == m.Goal:
				b.WriteString(au.Green("G").String())
			case p == m.Start:
				b.WriteString(au.Cyan("S").String())
			case c == Wall:
				b.WriteString(au.Blue("#").String())
			case onPath[p]:
				b.WriteString(au.Yellow("*").String())
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

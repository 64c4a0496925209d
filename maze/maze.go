// Package maze scores move sequences on a walled grid and exposes the grid
// as an environment that agents can walk.
package maze

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGrid     = errors.New("grid has no cells")
	ErrRaggedGrid    = errors.New("grid rows differ in length")
	ErrBlockedTarget = errors.New("start and goal must be walkable")
)

// Cell values of a Grid
const (
	Wall = 0
	Open = 1
)

// Position of a cell as (row, column)
type Position struct {
	Row int
	Col int
}

func (p Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (p Position) String() string {
	return p.Hash()
}

// Manhattan distance between the two positions
func (p Position) Manhattan(other Position) int {
	return abs(p.Row-other.Row) + abs(p.Col-other.Col)
}

// Add moves the position by one cell in the move direction.
// Unknown move codes leave the position unchanged and return false
func (p Position) Add(m Move) (Position, bool) {
	d, ok := m.Delta()
	if !ok {
		return p, false
	}
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}, true
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Move is a gene of a candidate solution
type Move int

const (
	Down  Move = 0
	Up    Move = 1
	Left  Move = 2
	Right Move = 3
)

// AllMoves in code order
var AllMoves = []Move{Down, Up, Left, Right}

// Delta is the unit vector of the move
func (m Move) Delta() (Position, bool) {
	switch m {
	case Down:
		return Position{Row: 1}, true
	case Up:
		return Position{Row: -1}, true
	case Left:
		return Position{Col: -1}, true
	case Right:
		return Position{Col: 1}, true
	}
	return Position{}, false
}

func (m Move) String() string {
	switch m {
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Move(%d)", int(m))
}

// Moves converts raw gene codes
func Moves(codes []int) []Move {
	moves := make([]Move, len(codes))
	for i, c := range codes {
		moves[i] = Move(c)
	}
	return moves
}

// Grid of cells, Wall or Open
type Grid struct {
	Cells [][]int
}

func (g Grid) Rows() int {
	return len(g.Cells)
}

func (g Grid) Cols() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

func (g Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < g.Rows() && p.Col < len(g.Cells[p.Row])
}

// Open is false for walls and for positions outside the grid
func (g Grid) Open(p Position) bool {
	return g.InBounds(p) && g.Cells[p.Row][p.Col] != Wall
}

// Maze is a grid with a start and a goal.
// Safe, when not empty, lists the cells the incremental scorer rewards;
// otherwise every open cell is safe
type Maze struct {
	Grid  Grid
	Start Position
	Goal  Position
	Safe  []Position

	safe map[Position]bool
}

// New validates the layout and returns the maze
func New(cells [][]int, start, goal Position, safe ...Position) (*Maze, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	for _, row := range cells {
		if len(row) != len(cells[0]) {
			return nil, ErrRaggedGrid
		}
	}
	m := &Maze{
		Grid:  Grid{Cells: cells},
		Start: start,
		Goal:  goal,
		Safe:  safe,
		safe:  make(map[Position]bool, len(safe)),
	}
	if !m.Grid.Open(start) || !m.Grid.Open(goal) {
		return nil, fmt.Errorf("%w: start %s, goal %s", ErrBlockedTarget, start, goal)
	}
	for _, p := range safe {
		m.safe[p] = true
	}
	return m, nil
}

// Permitted reports whether the cell counts as safe ground
func (m *Maze) Permitted(p Position) bool {
	if !m.Grid.Open(p) {
		return false
	}
	if len(m.safe) == 0 {
		return true
	}
	return m.safe[p]
}

// OpenCells lists the walkable cells in row major order
func (m *Maze) OpenCells() []Position {
	cells := make([]Position, 0)
	for i, row := range m.Grid.Cells {
		for j, c := range row {
			if c != Wall {
				cells = append(cells, Position{Row: i, Col: j})
			}
		}
	}
	return cells
}

var defaultLayout = [][]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 0},
	{0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 0},
	{0, 1, 1, 1, 0, 1, 0, 1, 1, 1, 1, 0},
	{0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
	{0, 1, 1, 0, 0, 1, 1, 1, 0, 1, 1, 0},
	{0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 0, 0},
	{0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0},
	{0, 1, 0, 0, 0, 1, 1, 1, 0, 0, 1, 0},
	{0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0},
	{0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// DefaultMaze is the 12x12 lab maze, start (1,1) and goal (10,10).
// Its safe list enumerates every open cell
func DefaultMaze() *Maze {
	cells := make([][]int, len(defaultLayout))
	for i, row := range defaultLayout {
		cells[i] = append([]int(nil), row...)
	}
	m, err := New(cells, Position{Row: 1, Col: 1}, Position{Row: 10, Col: 10})
	if err != nil {
		panic(err)
	}
	m.Safe = m.OpenCells()
	for _, p := range m.Safe {
		m.safe[p] = true
	}
	return m
}

// NewOpenMaze is a rows x cols maze with a wall border and an open interior
func NewOpenMaze(rows, cols int, start, goal Position) (*Maze, error) {
	cells := make([][]int, rows)
	for i := range cells {
		cells[i] = make([]int, cols)
		for j := range cells[i] {
			if i > 0 && j > 0 && i < rows-1 && j < cols-1 {
				cells[i][j] = Open
			}
		}
	}
	return New(cells, start, goal)
}

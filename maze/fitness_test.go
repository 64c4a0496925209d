package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(m Move, n int) []Move {
	out := make([]Move, n)
	for i := range out {
		out[i] = m
	}
	return out
}

func openMaze(t *testing.T) *Maze {
	t.Helper()
	m, err := NewOpenMaze(12, 12, Position{Row: 1, Col: 1}, Position{Row: 10, Col: 10})
	require.NoError(t, err)
	return m
}

// shortest route through the lab maze found by hand
var labRoute = []Move{
	Right, Right, Down, Down, Left, Left, Down, Down, Down,
	Right, Right, Right, Right, Up, Right, Right,
	Down, Down, Down, Left, Down, Down,
	Right, Right, Right, Right,
}

func TestPathScorerReachesGoalInManhattanSteps(t *testing.T) {
	m := openMaze(t)
	moves := append(repeat(Down, 9), repeat(Right, 9)...)

	res := Walk(m, moves)
	assert.True(t, res.Reached)
	assert.Equal(t, 18, res.Steps)
	assert.Equal(t, -18.0, res.Fitness)
	assert.Equal(t, m.Goal, res.Final)
}

func TestPathScorerStopsAtGoal(t *testing.T) {
	m := openMaze(t)
	moves := append(repeat(Down, 9), repeat(Right, 9)...)
	moves = append(moves, repeat(Up, 5)...)

	res := Walk(m, moves)
	assert.True(t, res.Reached)
	assert.Equal(t, -18.0, res.Fitness)
	assert.Equal(t, m.Goal, res.Final)
	assert.Len(t, res.Path, 19)
}

func TestPathScorerFreeMovesSumUnitVectors(t *testing.T) {
	m := openMaze(t)
	moves := []Move{Down, Right, Right, Down, Left, Up, Right, Down, Down}

	res := Walk(m, moves)
	want := m.Start
	for i, mv := range moves {
		d, ok := mv.Delta()
		require.True(t, ok)
		want = Position{Row: want.Row + d.Row, Col: want.Col + d.Col}
		assert.Equal(t, want, res.Path[i+1])
	}
	assert.Equal(t, want, res.Final)
	assert.Equal(t, len(moves), res.Steps)
}

func TestPathScorerAbsorbsBlockedMoves(t *testing.T) {
	m := DefaultMaze()

	res := Walk(m, []Move{Up})
	assert.Equal(t, m.Start, res.Final)
	assert.Equal(t, 1, res.Steps)

	res = Walk(m, []Move{Left, Down, Right})
	assert.Equal(t, Position{Row: 1, Col: 2}, res.Final)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, []Position{m.Start, m.Start, m.Start, {Row: 1, Col: 2}}, res.Path)
}

func TestPathScorerUnknownMoveSpendsStep(t *testing.T) {
	m := openMaze(t)
	res := Walk(m, []Move{Move(7), Down})
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, Position{Row: 2, Col: 1}, res.Final)
}

func TestPathScorerAllBlockedIsWorstCase(t *testing.T) {
	m := DefaultMaze()
	d := m.Start.Manhattan(m.Goal)

	res := Walk(m, repeat(Up, 30))
	assert.False(t, res.Reached)
	assert.Equal(t, 30, res.Steps)
	assert.Equal(t, -float64((d+1)*30), res.Fitness)

	empty := Walk(m, nil)
	assert.False(t, empty.Reached)
	assert.Equal(t, 0, empty.Steps)
	assert.Equal(t, -float64(d+1), empty.Fitness)
}

func TestPathScorerPenaltyGrowsWithDistance(t *testing.T) {
	m := openMaze(t)
	near := Walk(m, append(repeat(Down, 8), repeat(Right, 8)...))
	far := Walk(m, append(repeat(Down, 8), repeat(Left, 8)...))

	require.Equal(t, near.Steps, far.Steps)
	require.Greater(t, far.Final.Manhattan(m.Goal), near.Final.Manhattan(m.Goal))
	assert.Greater(t, near.Fitness, far.Fitness)

	// stop d moves short of row 9 and spend the rest on a code that stays put
	var prev Result
	for d := 0; d < 8; d++ {
		res := Walk(m, append(repeat(Down, 8-d), repeat(Move(4), d)...))
		require.Equal(t, 8, res.Steps)
		require.Equal(t, Position{Row: 9 - d, Col: 1}, res.Final)
		if d > 0 {
			assert.Equal(t, prev.Steps, res.Steps)
			assert.Greater(t, res.Final.Manhattan(m.Goal), prev.Final.Manhattan(m.Goal))
			assert.Less(t, res.Fitness, prev.Fitness, "d=%d", d)
		}
		prev = res
	}
}

func TestPathScorerLabRoute(t *testing.T) {
	m := DefaultMaze()
	res := Walk(m, append(labRoute, repeat(Down, 4)...))
	assert.True(t, res.Reached)
	assert.Equal(t, -float64(len(labRoute)), res.Fitness)
}

func TestPathScorerStartOnGoal(t *testing.T) {
	m, err := NewOpenMaze(5, 5, Position{Row: 2, Col: 2}, Position{Row: 2, Col: 2})
	require.NoError(t, err)
	res := Walk(m, repeat(Down, 3))
	assert.True(t, res.Reached)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, 0.0, res.Fitness)
}

func TestIncrementalScorer(t *testing.T) {
	m := DefaultMaze()
	r := DefaultRewards()
	s := NewIncrementalScorer(m, r)

	res := s.Score([]Move{Right})
	assert.Equal(t, r.Permitted+r.NewCell, res.Fitness)

	res = s.Score([]Move{Right, Left})
	assert.Equal(t, 2*r.Permitted+r.NewCell+r.Revisit, res.Fitness)
	assert.Equal(t, m.Start, res.Final)

	res = s.Score([]Move{Up})
	assert.Equal(t, r.Forbidden, res.Fitness)
	assert.Equal(t, m.Start, res.Final)
	assert.Equal(t, 1, res.Steps)
}

func TestIncrementalScorerGoalBonus(t *testing.T) {
	m := DefaultMaze()
	r := DefaultRewards()
	res := NewIncrementalScorer(m, r).Score(append(labRoute, Up, Up))

	assert.True(t, res.Reached)
	assert.Equal(t, len(labRoute), res.Steps)
	want := float64(len(labRoute))*(r.Permitted+r.NewCell) + r.GoalBonus
	assert.Equal(t, want, res.Fitness)
}

func TestIncrementalScorerSafeList(t *testing.T) {
	cells := [][]int{
		{1, 1, 1},
		{1, 1, 1},
	}
	start := Position{Row: 0, Col: 0}
	goal := Position{Row: 1, Col: 2}
	m, err := New(cells, start, goal, start, Position{Row: 1, Col: 0}, Position{Row: 1, Col: 1}, goal)
	require.NoError(t, err)

	r := DefaultRewards()
	res := NewIncrementalScorer(m, r).Score([]Move{Right})
	assert.Equal(t, r.Forbidden, res.Fitness)
	assert.Equal(t, start, res.Final)

	res = NewIncrementalScorer(m, r).Score([]Move{Down, Right, Right})
	assert.True(t, res.Reached)
	assert.Equal(t, 3*(r.Permitted+r.NewCell)+r.GoalBonus, res.Fitness)
}

func TestNewRejectsBadLayouts(t *testing.T) {
	_, err := New(nil, Position{}, Position{})
	assert.ErrorIs(t, err, ErrEmptyGrid)

	_, err = New([][]int{{1, 1}, {1}}, Position{}, Position{})
	assert.ErrorIs(t, err, ErrRaggedGrid)

	_, err = New([][]int{{0, 1}}, Position{}, Position{Col: 1})
	assert.ErrorIs(t, err, ErrBlockedTarget)
}

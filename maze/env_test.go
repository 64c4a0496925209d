package maze

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gym-labs/types"
	"github.com/zeu5/gym-labs/util"
)

func TestEnvironmentFollowsScorer(t *testing.T) {
	m := DefaultMaze()
	env := NewEnvironment(m)
	env.Reset(nil)

	total := 0.0
	var res *types.StepResult
	var err error
	for _, mv := range labRoute {
		res, err = env.Step(types.DiscreteAction(mv))
		require.NoError(t, err)
		total += res.Reward
	}
	assert.True(t, res.Terminated)
	assert.Equal(t, m.Goal, res.State)
	assert.Equal(t, Walk(m, labRoute).Fitness, total)
}

func TestEnvironmentRejectsInvalidAction(t *testing.T) {
	env := NewEnvironment(DefaultMaze())
	_, err := env.Step(types.DiscreteAction(4))
	assert.ErrorIs(t, err, types.ErrInvalidAction)

	_, err = env.Step(types.ContinuousAction{0.5})
	assert.ErrorIs(t, err, types.ErrInvalidAction)
}

func TestEnvironmentRender(t *testing.T) {
	m := DefaultMaze()
	env := NewEnvironment(m)
	env.Colors = false
	env.Reset(nil)

	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "############", lines[0])
	assert.Equal(t, "#@..#...#..#", lines[1])
	assert.Equal(t, 'G', rune(lines[10][10]))
}

func TestVisitAnalyzerCountsRandomWalk(t *testing.T) {
	m := DefaultMaze()
	agent := types.NewAgent(&types.AgentConfig{
		Steps:       200,
		ResetOnDone: true,
		Policy:      types.NewSeededRandomPolicy(42),
		Environment: types.WithTimeLimit(NewEnvironment(m), 50),
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)

	ds := VisitAnalyzer(m)("random", traces).(*util.GridDataSet)
	total := 0
	for _, row := range ds.Visits {
		for _, c := range row {
			total += c
		}
	}
	assert.Equal(t, 200, total)
	assert.GreaterOrEqual(t, len(traces), 4)
	assert.Equal(t, 0, ds.Count(0, 0))
}

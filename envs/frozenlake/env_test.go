package frozenlake

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gym-labs/types"
)

var labScript = []int{2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 2, 1, 1, 1}

func TestScriptedRouteReachesGoal(t *testing.T) {
	env := NewEnvironment(Map8x8, false)
	env.Reset(types.Seed(42))

	var res *types.StepResult
	for i, a := range labScript {
		var err error
		res, err = env.Step(types.DiscreteAction(a))
		require.NoError(t, err)
		if i < len(labScript)-1 {
			assert.False(t, res.Terminated, "step %d", i)
		}
	}
	assert.True(t, res.Terminated)
	assert.Equal(t, 1.0, res.Reward)
	assert.Equal(t, types.DiscreteState(63), res.State)
}

func TestHoleTerminatesWithoutReward(t *testing.T) {
	env := NewEnvironment(Map4x4, false)
	env.Reset(nil)

	res, err := env.Step(types.DiscreteAction(Right))
	require.NoError(t, err)
	assert.False(t, res.Terminated)

	res, err = env.Step(types.DiscreteAction(Down))
	require.NoError(t, err)
	assert.True(t, res.Terminated)
	assert.Equal(t, 0.0, res.Reward)
	assert.Equal(t, types.DiscreteState(5), res.State)

	// absorbing afterwards
	res, err = env.Step(types.DiscreteAction(Right))
	require.NoError(t, err)
	assert.True(t, res.Terminated)
	assert.Equal(t, types.DiscreteState(5), res.State)
}

func TestEdgesClampMoves(t *testing.T) {
	env := NewEnvironment(Map8x8, false)
	env.Reset(nil)
	for _, a := range []int{Left, Up} {
		res, err := env.Step(types.DiscreteAction(a))
		require.NoError(t, err)
		assert.Equal(t, types.DiscreteState(0), res.State)
	}
}

func TestSlipperyIsSeeded(t *testing.T) {
	run := func() []types.State {
		env := NewEnvironment(Map8x8, true)
		env.Reset(types.Seed(7))
		states := make([]types.State, 0)
		for i := 0; i < 20; i++ {
			res, err := env.Step(types.DiscreteAction(Right))
			require.NoError(t, err)
			states = append(states, res.State)
		}
		return states
	}
	assert.Equal(t, run(), run())
}

func TestSlipperyNeverMovesBackwards(t *testing.T) {
	env := NewEnvironment(Map8x8, true)
	env.Reset(types.Seed(1))
	for i := 0; i < 50; i++ {
		env.Reset(nil)
		// row 1, col 3, right above a hole
		env.state = 8 + 3
		res, err := env.Step(types.DiscreteAction(Down))
		require.NoError(t, err)
		row, _ := env.Position(res.State.(types.DiscreteState))
		assert.GreaterOrEqual(t, row, 1)
	}
}

func TestInvalidAction(t *testing.T) {
	env := NewEnvironment(Map8x8, false)
	_, err := env.Step(types.DiscreteAction(4))
	assert.ErrorIs(t, err, types.ErrInvalidAction)
}

func TestTimeLimitTruncates(t *testing.T) {
	env := New8x8(false)
	agent := types.NewAgent(&types.AgentConfig{
		Steps:       MaxEpisodeSteps + 10,
		ResetOnDone: true,
		Seed:        types.Seed(42),
		Policy:      types.DiscreteScript(repeatAction(Left, MaxEpisodeSteps+10)...),
		Environment: env,
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, MaxEpisodeSteps, traces[0].Len())
	_, _, last, _ := traces[0].Last()
	assert.True(t, last.Truncated)
	assert.Equal(t, 10, traces[1].Len())
}

func TestRender(t *testing.T) {
	env := NewEnvironment(Map4x4, false)
	env.Colors = false
	env.Reset(nil)
	_, err := env.Step(types.DiscreteAction(Right))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "  (Right)", lines[0])
	assert.Equal(t, "SFFF", lines[1])
}

func repeatAction(a, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = a
	}
	return out
}

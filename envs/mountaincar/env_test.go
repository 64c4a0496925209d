package mountaincar

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gym-labs/types"
)

func TestResetRange(t *testing.T) {
	e := NewEnvironment()
	for i := int64(0); i < 20; i++ {
		obs := e.Reset(types.Seed(i)).(types.Observation)
		assert.GreaterOrEqual(t, obs[0], -0.6)
		assert.LessOrEqual(t, obs[0], -0.4)
		assert.Equal(t, 0.0, obs[1])
	}
}

func TestStepDynamics(t *testing.T) {
	e := NewEnvironment()
	e.Position, e.Velocity = -0.5, 0
	res, err := e.Step(types.DiscreteAction(PushRight))
	require.NoError(t, err)

	wantVel := Force + -0.0025*cosTriple(-0.5)
	obs := res.State.(types.Observation)
	assert.InDelta(t, wantVel, obs[1], 1e-12)
	assert.InDelta(t, -0.5+wantVel, obs[0], 1e-12)
	assert.Equal(t, -1.0, res.Reward)
	assert.False(t, res.Terminated)
}

func TestLeftWallStopsCar(t *testing.T) {
	e := NewEnvironment()
	e.Position, e.Velocity = MinPosition+0.001, -0.05
	res, err := e.Step(types.DiscreteAction(PushLeft))
	require.NoError(t, err)
	obs := res.State.(types.Observation)
	assert.Equal(t, MinPosition, obs[0])
	assert.Equal(t, 0.0, obs[1])
}

func TestGoalTerminates(t *testing.T) {
	e := NewEnvironment()
	e.Position, e.Velocity = 0.49, 0.05
	res, err := e.Step(types.DiscreteAction(PushRight))
	require.NoError(t, err)
	assert.True(t, res.Terminated)
}

func TestRandomRunIsTruncated(t *testing.T) {
	agent := types.NewAgent(&types.AgentConfig{
		Steps:       300,
		ResetOnDone: true,
		Seed:        types.Seed(42),
		Policy:      types.NewSeededRandomPolicy(42),
		Environment: New(),
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, MaxEpisodeSteps, traces[0].Len())
	assert.Equal(t, -float64(MaxEpisodeSteps), traces[0].Return())
	assert.Equal(t, 100, traces[1].Len())
}

func TestInvalidAction(t *testing.T) {
	_, err := NewEnvironment().Step(types.DiscreteAction(3))
	assert.ErrorIs(t, err, types.ErrInvalidAction)
}

func cosTriple(x float64) float64 {
	return math.Cos(3 * x)
}

func TestRenderTrack(t *testing.T) {
	assert.Equal(t, 0, trackColumn(MinPosition))
	assert.Equal(t, trackWidth-1, trackColumn(MaxPosition))
	assert.Equal(t, 36, trackColumn(GoalPosition))

	env := NewEnvironment()
	env.Reset(types.Seed(42))
	env.Position = MinPosition
	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	track, _, ok := strings.Cut(buf.String(), " ")
	require.True(t, ok)
	require.Len(t, track, trackWidth)
	assert.Equal(t, byte('C'), track[0])
	assert.Equal(t, byte('|'), track[36])
}

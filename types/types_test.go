package types

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// chainEnv moves right on action 1 and terminates at the end of the chain
type chainEnv struct {
	length int
	pos    int
	resets int
}

var _ Environment = &chainEnv{}
var _ Renderer = &chainEnv{}

func (c *chainEnv) Reset(_ *int64) State {
	c.pos = 0
	c.resets++
	return DiscreteState(c.pos)
}

func (c *chainEnv) Step(a Action) (*StepResult, error) {
	action, ok := a.(DiscreteAction)
	if !ok || !c.ActionSpace().Contains(action) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, a)
	}
	c.pos += int(action)
	res := &StepResult{State: DiscreteState(c.pos), Terminated: c.pos == c.length}
	if res.Terminated {
		res.Reward = 1
	}
	return res, nil
}

func (c *chainEnv) ActionSpace() Space      { return Discrete{N: 2} }
func (c *chainEnv) ObservationSpace() Space { return Discrete{N: c.length + 1} }

func (c *chainEnv) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "pos %d\n", c.pos)
	return err
}

func TestAgentResetsOnDone(t *testing.T) {
	env := &chainEnv{length: 3}
	agent := NewAgent(&AgentConfig{
		Steps:       8,
		ResetOnDone: true,
		Policy:      DiscreteScript(1, 1, 1, 1, 1, 1, 1, 1),
		Environment: env,
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, []int{3, 3, 2}, []int{traces[0].Len(), traces[1].Len(), traces[2].Len()})
	assert.Equal(t, 1.0, traces[0].Return())
	assert.True(t, traces[1].Ended())
	assert.False(t, traces[2].Ended())
	assert.Equal(t, 3, env.resets)
	assert.Equal(t, traces, agent.Traces())
}

func TestAgentStopsWhenScriptEnds(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Steps:       100,
		Policy:      DiscreteScript(0, 1),
		Environment: &chainEnv{length: 5},
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, 2, traces[0].Len())
	state, action, result, ok := traces[0].Get(1)
	require.True(t, ok)
	assert.Equal(t, DiscreteState(0), state)
	assert.Equal(t, DiscreteAction(1), action)
	assert.Equal(t, DiscreteState(1), result.State)
}

func TestAgentReportsStepErrors(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Steps:       3,
		Policy:      DiscreteScript(1, 7),
		Environment: &chainEnv{length: 5},
	})
	traces, err := agent.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAction)
	require.Len(t, traces, 1)
	assert.Equal(t, 1, traces[0].Len())
}

func TestAgentStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agent := NewAgent(&AgentConfig{
		Steps:       10,
		Policy:      NewSeededRandomPolicy(1),
		Environment: &chainEnv{length: 5},
	})
	_, err := agent.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAgentRenders(t *testing.T) {
	var buf bytes.Buffer
	agent := NewAgent(&AgentConfig{
		Steps:       2,
		Policy:      DiscreteScript(1, 1),
		Environment: &chainEnv{length: 5},
		Render:      &buf,
	})
	_, err := agent.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pos 0\nstep 1\npos 1\nstep 2\npos 2\n", buf.String())
}

func TestTimeLimitTruncates(t *testing.T) {
	env := WithTimeLimit(&chainEnv{length: 100}, 4)
	agent := NewAgent(&AgentConfig{
		Steps:       10,
		ResetOnDone: true,
		Policy:      NewScriptedPolicy(Repeat(DiscreteAction(1), 10)...),
		Environment: env,
	})
	traces, err := agent.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, traces, 3)
	_, _, last, _ := traces[0].Last()
	assert.True(t, last.Truncated)
	assert.False(t, last.Terminated)
	assert.Equal(t, 2, env.Elapsed())

	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf))
	assert.Equal(t, "pos 2\n", buf.String())
}

func TestSpaces(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	d := Discrete{N: 3}
	for i := 0; i < 50; i++ {
		assert.True(t, d.Contains(d.Sample(r)))
	}
	assert.False(t, d.Contains(DiscreteAction(3)))
	assert.False(t, d.Contains(ContinuousAction{1}))

	b := Box{Low: []float64{-1, 0}, High: []float64{1, 2}}
	for i := 0; i < 50; i++ {
		assert.True(t, b.Contains(b.Sample(r)))
	}
	assert.False(t, b.Contains(Observation{0, 3}))
	assert.False(t, b.Contains(Observation{0}))
	assert.Equal(t, "[0.5000, -1.2500]", Observation{0.5, -1.25}.Hash())
}

func TestScriptedPolicy(t *testing.T) {
	p := DiscreteScript(2, 0)
	assert.Equal(t, 2, p.Len())
	a, ok := p.NextAction(0, DiscreteState(0), Discrete{N: 3})
	require.True(t, ok)
	assert.Equal(t, DiscreteAction(2), a)
	_, ok = p.NextAction(1, DiscreteState(0), Discrete{N: 3})
	require.True(t, ok)
	_, ok = p.NextAction(2, DiscreteState(0), Discrete{N: 3})
	assert.False(t, ok)
	p.Reset()
	a, _ = p.NextAction(0, DiscreteState(0), Discrete{N: 3})
	assert.Equal(t, DiscreteAction(2), a)
}

func TestSoftMaxPolicyLearnsChain(t *testing.T) {
	policy := NewSoftMaxPolicy(0.3, 0.9, 0.1, 1)
	agent := NewAgent(&AgentConfig{
		Steps:       3000,
		ResetOnDone: true,
		Policy:      policy,
		Environment: &chainEnv{length: 3},
	})
	_, err := agent.Run(context.Background())
	require.NoError(t, err)

	q := policy.QTable[DiscreteState(0).Hash()]
	assert.Greater(t, q[DiscreteAction(1).Hash()], q[DiscreteAction(0).Hash()])
}

func TestComparisonRecordsAndAnalyzes(t *testing.T) {
	dir := t.TempDir()
	c := NewComparison(&ComparisonConfig{
		Name:        "chain",
		Steps:       7,
		ResetOnDone: true,
		Seed:        Seed(3),
		RecordPath:  dir,
		Params:      map[string]any{"length": 3},
	})
	var returns *ReturnsDataSet
	c.AddAnalysis("Returns", EpisodeReturns(), func(_ []string, ds []DataSet) error {
		returns = ds[0].(*ReturnsDataSet)
		return nil
	})
	c.AddAnalysis("Coverage", CoverageAnalyzer(), CoverageComparator(dir))
	c.AddAnalysis("Plot", EpisodeReturns(), ReturnsPlotter(dir, "chain", true))
	c.AddExperiment(NewExperiment("right", NewScriptedPolicy(Repeat(DiscreteAction(1), 7)...), &chainEnv{length: 3}))
	require.NoError(t, c.Run(context.Background()))

	require.NotNil(t, returns)
	assert.Equal(t, []float64{1, 1, 0}, returns.Returns)
	assert.Equal(t, []int{3, 3, 1}, returns.Lengths)

	for _, f := range []string{"chain_config.json", "right_graph.json", "chain_returns.png", "chain_returns.html"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	bs, err := os.ReadFile(filepath.Join(dir, "chain_config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), c.RunID)
	assert.Contains(t, string(bs), `"length": 3`)
}

func TestVisitGraph(t *testing.T) {
	g := NewVisitGraph()
	assert.True(t, g.Update(DiscreteState(0), DiscreteAction(1), DiscreteState(1)))
	assert.False(t, g.Update(DiscreteState(0), DiscreteAction(1), DiscreteState(1)))
	assert.False(t, g.Update(DiscreteState(1), DiscreteAction(0), DiscreteState(1)))
	assert.Equal(t, map[string]int{"0": 2, "1": 1}, g.GetVisits())
	assert.Equal(t, 2, g.Transitions())
}

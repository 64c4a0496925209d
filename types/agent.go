package types

import (
	"context"
	"fmt"
	"io"
)

type AgentConfig struct {
	// Steps is the total number of environment steps across episodes
	Steps int
	// ResetOnDone starts a new episode when one terminates or is truncated.
	// Otherwise the environment keeps being stepped
	ResetOnDone bool
	// Seed passed to the first Reset
	Seed        *int64
	Policy      Policy
	Environment Environment
	// Render receives a text frame after every step when set
	Render io.Writer
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, 0),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Traces of the last run, one per episode
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// Run drives the environment for the configured number of steps.
// It stops early when the context is cancelled or the policy has no more actions
func (a *Agent) Run(ctx context.Context) ([]*Trace, error) {
	a.traces = make([]*Trace, 0)
	episode := 0
	state := a.environment.Reset(a.config.Seed)
	trace := NewTrace()
	a.render(-1)

	finishEpisode := func() {
		a.policy.UpdateIteration(episode, trace)
		a.traces = append(a.traces, trace)
		episode++
	}

	for i := 0; i < a.config.Steps; i++ {
		select {
		case <-ctx.Done():
			finishEpisode()
			return a.traces, ctx.Err()
		default:
		}

		nextAction, ok := a.policy.NextAction(trace.Len(), state, a.environment.ActionSpace())
		if !ok {
			break
		}
		result, err := a.environment.Step(nextAction)
		if err != nil {
			finishEpisode()
			return a.traces, fmt.Errorf("step %d: %w", i, err)
		}
		a.policy.Update(trace.Len(), state, nextAction, result)
		trace.Append(state, nextAction, result)
		a.render(i)

		state = result.State
		if result.Done() && a.config.ResetOnDone {
			finishEpisode()
			trace = NewTrace()
			state = a.environment.Reset(nil)
		}
	}
	if trace.Len() > 0 || len(a.traces) == 0 {
		finishEpisode()
	}
	return a.traces, nil
}

func (a *Agent) render(step int) {
	if a.config.Render == nil {
		return
	}
	r, ok := a.environment.(Renderer)
	if !ok {
		return
	}
	if step >= 0 {
		fmt.Fprintf(a.config.Render, "step %d\n", step+1)
	}
	r.Render(a.config.Render)
}

package types

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/zeu5/gym-labs/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Experiment encapsulates the policy and environment driven by an agent
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

// Run the experiment and return one trace per episode
func (e *Experiment) Run(ctx context.Context, cfg *ComparisonConfig) ([]*Trace, error) {
	fmt.Printf("Running Experiment: %s\n", e.Name)
	agent := NewAgent(&AgentConfig{
		Steps:       cfg.Steps,
		ResetOnDone: cfg.ResetOnDone,
		Seed:        cfg.Seed,
		Policy:      e.policy,
		Environment: e.environment,
		Render:      cfg.Render,
	})
	traces, err := agent.Run(ctx)
	steps := 0
	for _, t := range traces {
		steps += t.Len()
	}
	fmt.Printf("Experiment: %s, Steps: %d/%d, Episodes: %d\n", e.Name, steps, cfg.Steps, len(traces))
	return traces, err
}

// Reset the policy between runs
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the traces of an experiment to a DataSet
type Analyzer func(string, []*Trace) DataSet

// Comparator differentiates between different datasets with associated names
type Comparator func([]string, []DataSet) error

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Name        string // name used for the recorded configuration
	Steps       int    // number of environment steps per experiment
	ResetOnDone bool   // reset when an episode ends
	Seed        *int64 // seed of the first reset

	RecordPath string    // path to store the results
	Render     io.Writer // frames are written here when set

	// extra parameters recorded with the configuration
	Params map[string]any
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	RunID       string
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		RunID:       uuid.New().String(),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.RecordPath, 0777); err != nil {
		return err
	}

	out := make(map[string]interface{})
	out["run_id"] = c.RunID
	out["name"] = cfg.Name
	out["steps"] = cfg.Steps
	out["reset_on_done"] = cfg.ResetOnDone
	if cfg.Seed != nil {
		out["seed"] = *cfg.Seed
	}
	for k, v := range cfg.Params {
		out[k] = v
	}

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.analysisNames()

	return util.WriteJSON(path.Join(cfg.RecordPath, cfg.Name+"_config.json"), out)
}

func (c *Comparison) analysisNames() []string {
	names := maps.Keys(c.analyzers)
	slices.Sort(names)
	return names
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return fmt.Errorf("recording config: %w", err)
	}

	datasets := make(map[string][]DataSet)
	for name := range c.analyzers {
		datasets[name] = make([]DataSet, len(c.Experiments))
	}

	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		traces, err := e.Run(ctx, c.cConfig)
		if err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		for name, a := range c.analyzers {
			datasets[name][i] = a(e.Name, traces)
		}
		names[i] = e.Name
		e.Reset()
	}
	for _, name := range c.analysisNames() {
		if err := c.comparators[name](names, datasets[name]); err != nil {
			return fmt.Errorf("analysis %s: %w", name, err)
		}
	}
	return nil
}

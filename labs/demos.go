package labs

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/gym-labs/envs/frozenlake"
	"github.com/zeu5/gym-labs/envs/lunarlander"
	"github.com/zeu5/gym-labs/envs/mountaincar"
	"github.com/zeu5/gym-labs/envs/pendulum"
	"github.com/zeu5/gym-labs/maze"
	"github.com/zeu5/gym-labs/types"
)

// route through FrozenLake8x8 without slipping
var frozenScript = []int{2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 2, 1, 1, 1}

type demo struct {
	name        string
	steps       int
	resetOnDone bool
	policy      types.Policy
	env         types.Environment
	params      map[string]any
	// compared against the main experiment
	others []*types.Experiment
}

type analysis struct {
	name       string
	analyzer   types.Analyzer
	comparator types.Comparator
}

// runDemo drives one environment and reports the episode returns
func runDemo(ctx context.Context, d demo, extra ...analysis) error {
	var frames io.Writer
	if render {
		frames = os.Stdout
	}
	c := types.NewComparison(&types.ComparisonConfig{
		Name:        d.name,
		Steps:       d.steps,
		ResetOnDone: d.resetOnDone,
		Seed:        types.Seed(seed),
		RecordPath:  saveFile,
		Render:      frames,
		Params:      d.params,
	})
	c.AddAnalysis("Returns", types.EpisodeReturns(), types.ReturnsPrinter())
	c.AddAnalysis("Coverage", types.CoverageAnalyzer(), types.CoverageComparator(saveFile))
	if saveFile != "" {
		c.AddAnalysis("ReturnsPlot", types.EpisodeReturns(), types.ReturnsPlotter(saveFile, d.name, html))
	}
	for _, a := range extra {
		c.AddAnalysis(a.name, a.analyzer, a.comparator)
	}
	c.AddExperiment(types.NewExperiment(d.name, d.policy, d.env))
	for _, e := range d.others {
		c.AddExperiment(e)
	}
	logger.Printf("run %s: %s", c.RunID, d.name)
	if err := c.Run(ctx); err != nil {
		return err
	}
	return appendRunLog(c.RunID, d.name)
}

func FrozenLakeCommand() *cobra.Command {
	var slippery bool
	cmd := &cobra.Command{
		Use:   "frozen",
		Short: "Walk a fixed route through FrozenLake8x8",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()
			return runDemo(ctx, demo{
				name:        "frozen",
				steps:       len(frozenScript),
				resetOnDone: true,
				policy:      types.DiscreteScript(frozenScript...),
				env:         frozenlake.New8x8(slippery),
				params:      map[string]any{"slippery": slippery, "actions": frozenScript},
			})
		},
	}
	cmd.Flags().BoolVar(&slippery, "slippery", false, "Use the slippery variant")
	return cmd
}

// randomDemoCommand runs a random policy for a number of steps
func randomDemoCommand(use, short string, newEnv func() types.Environment) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()
			return runDemo(ctx, demo{
				name:        use,
				steps:       steps,
				resetOnDone: true,
				policy:      types.NewSeededRandomPolicy(uint64(seed)),
				env:         newEnv(),
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 300, "Number of environment steps")
	return cmd
}

func MountainCarCommand() *cobra.Command {
	return randomDemoCommand("mountaincar", "Random actions on MountainCar", func() types.Environment {
		return mountaincar.New()
	})
}

func PendulumCommand() *cobra.Command {
	return randomDemoCommand("pendulum", "Random torques on Pendulum", func() types.Environment {
		return pendulum.New()
	})
}

func LunarLanderCommand() *cobra.Command {
	var reset bool
	var steps int
	cmd := &cobra.Command{
		Use:   "lunar",
		Short: "Fire the left engine, then drift, on LunarLander",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()
			script := append(
				types.Repeat(types.DiscreteAction(lunarlander.FireLeft), steps),
				types.Repeat(types.DiscreteAction(lunarlander.Noop), steps)...,
			)
			return runDemo(ctx, demo{
				name:        "lunar",
				steps:       len(script),
				resetOnDone: reset,
				policy:      types.NewScriptedPolicy(script...),
				env:         lunarlander.New(),
				params:      map[string]any{"phase_steps": steps},
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Reset when the lander lands or crashes")
	cmd.Flags().IntVar(&steps, "steps", 100, "Steps of each phase")
	return cmd
}

func MazeWalkCommand() *cobra.Command {
	var steps int
	var horizon int
	var temperature float64
	cmd := &cobra.Command{
		Use:   "maze-walk",
		Short: "Random and Q-learning walks through the lab maze with visit heatmaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()
			m := maze.DefaultMaze()
			var extra []analysis
			if saveFile != "" {
				extra = append(extra, analysis{"Visits", maze.VisitAnalyzer(m), maze.VisitComparator(saveFile)})
			}
			return runDemo(ctx, demo{
				name:        "maze-walk",
				steps:       steps,
				resetOnDone: true,
				policy:      types.NewSeededRandomPolicy(uint64(seed)),
				env:         types.WithTimeLimit(maze.NewEnvironment(m), horizon),
				params:      map[string]any{"horizon": horizon, "temperature": temperature},
				others: []*types.Experiment{
					types.NewExperiment(
						"maze-walk-softmax",
						types.NewSoftMaxPolicy(0.3, 0.9, temperature, uint64(seed)),
						types.WithTimeLimit(maze.NewEnvironment(m), horizon),
					),
				},
			}, extra...)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 3000, "Number of environment steps")
	cmd.Flags().IntVar(&horizon, "horizon", 30, "Steps per episode")
	cmd.Flags().Float64Var(&temperature, "temperature", 1, "Temperature of the softmax Q-learning walker")
	return cmd
}

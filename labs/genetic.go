package labs

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/gym-labs/genetic"
	"github.com/zeu5/gym-labs/maze"
	"github.com/zeu5/gym-labs/util"
)

// search runs the genetic algorithm. An interrupted search still yields
// the best solution found so far
func search(ctx context.Context, cfg genetic.Config, factory genetic.Factory) (*genetic.Outcome, error) {
	outcome, err := genetic.Run(ctx, cfg, factory)
	if errors.Is(err, context.Canceled) && outcome != nil {
		logger.Printf("interrupted after %d generations, reporting the best solution so far", outcome.Generations)
		return outcome, nil
	}
	return outcome, err
}

// gaFlags overrides the defaults of an exercise
func gaFlags(cmd *cobra.Command, cfg *genetic.Config) {
	cmd.Flags().UintVar(&cfg.PopSize, "population", cfg.PopSize, "Solutions per population")
	cmd.Flags().UintVar(&cfg.Generations, "generations", cfg.Generations, "Number of generations")
	cmd.Flags().IntVar(&cfg.Parents, "parents", cfg.Parents, "Tournament size of steady state selection")
	cmd.Flags().IntVar(&cfg.KeepParents, "keep-parents", cfg.KeepParents, "Best parents kept in the next generation")
	cmd.Flags().StringVar(&cfg.Selection, "selection", cfg.Selection, "Parent selection: tournament, sss or rws")
	cmd.Flags().StringVar(&cfg.Crossover, "crossover", cfg.Crossover, "Crossover: single_point or two_points")
	cmd.Flags().StringVar(&cfg.Mutation, "mutation", cfg.Mutation, "Mutation: scramble or random")
	cmd.Flags().Float64Var(&cfg.MutationPercent, "mutation-percent", cfg.MutationPercent, "Percent of genes mutated")
}

func gaParams(cfg genetic.Config) map[string]any {
	return map[string]any{
		"population":       cfg.PopSize,
		"generations":      cfg.Generations,
		"genes":            cfg.Genes,
		"parents":          cfg.Parents,
		"keep_parents":     cfg.KeepParents,
		"selection":        cfg.Selection,
		"crossover":        cfg.Crossover,
		"mutation":         cfg.Mutation,
		"mutation_percent": cfg.MutationPercent,
	}
}

func MazeCommand() *cobra.Command {
	cfg := genetic.MazeConfig()
	var variant string
	cmd := &cobra.Command{
		Use:   "maze",
		Short: "Search a path through the lab maze with a genetic algorithm",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			m := maze.DefaultMaze()
			var scorer maze.Scorer
			switch variant {
			case "path":
				scorer = maze.NewPathScorer(m)
			case "incremental":
				scorer = maze.NewIncrementalScorer(m, maze.DefaultRewards())
			default:
				return fmt.Errorf("unknown variant %q", variant)
			}
			cfg.Seed = seed

			params := gaParams(cfg)
			params["variant"] = variant
			runID, err := recordRun("maze", params)
			if err != nil {
				return err
			}
			logger.Printf("run %s: maze, %s fitness", runID, variant)

			factory, err := genetic.NewMazeFactory(cfg, scorer)
			if err != nil {
				return err
			}
			outcome, err := search(ctx, cfg, factory)
			if err != nil {
				return err
			}
			best := outcome.Best.(*genetic.MazeGenome)
			res := best.Result()

			fmt.Println("Best solution:", best)
			fmt.Println("Best fitness:", outcome.Fitness)
			fmt.Println("Steps taken:", res.Steps)
			fmt.Println("Final position:", res.Final)
			if res.Reached {
				fmt.Println("Goal reached")
			}
			fmt.Print(maze.RenderPath(m, res.Path, true))

			if saveFile == "" {
				return nil
			}
			if err := util.WriteToFile(path.Join(saveFile, "maze_path.txt"), maze.RenderPath(m, res.Path, false)); err != nil {
				return err
			}
			if err := util.SaveHeatMap(path.Join(saveFile, "maze_path.png"), "Best path", maze.PathDataSet(m, res.Path)); err != nil {
				return err
			}
			return saveCurves("maze_fitness", "Best Fitness Value vs. Generation", "Generation", "Best Fitness Value",
				util.Series{Name: variant, Values: outcome.History})
		},
	}
	gaFlags(cmd, &cfg)
	cmd.Flags().IntVar(&cfg.Genes, "genes", cfg.Genes, "Moves per solution")
	cmd.Flags().StringVar(&variant, "variant", "path", "Fitness function: path or incremental")
	return cmd
}

func EnduranceCommand() *cobra.Command {
	cfg := genetic.EnduranceConfig()
	cmd := &cobra.Command{
		Use:   "endurance",
		Short: "Maximize the endurance function with a genetic algorithm",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			cfg.Seed = seed
			runID, err := recordRun("endurance", gaParams(cfg))
			if err != nil {
				return err
			}
			logger.Printf("run %s: endurance", runID)

			factory, err := genetic.NewEnduranceFactory(cfg)
			if err != nil {
				return err
			}
			outcome, err := search(ctx, cfg, factory)
			if err != nil {
				return err
			}
			fmt.Println("Best solution:", outcome.Best)
			fmt.Println("Best fitness:", outcome.Fitness)

			return saveCurves("endurance_fitness", "Best Fitness Value vs. Generation", "Generation", "Best Fitness Value",
				util.Series{Name: "endurance", Values: outcome.History})
		},
	}
	gaFlags(cmd, &cfg)
	return cmd
}

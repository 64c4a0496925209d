// Package labs wires every exercise into a cobra command line
package labs

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zeu5/gym-labs/util"
)

var (
	seed       int64
	saveFile   string
	render     bool
	html       bool
	cpuprofile string
	memprofile string
)

var logger = log.New(os.Stderr, "[labs] ", log.LstdFlags)

func GetRootCommand() *cobra.Command {
	loadEnv()

	rootCommand := &cobra.Command{
		Use:           "labs",
		Short:         "Reinforcement learning, genetic algorithm and neural network lab exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			startProfiling()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopProfiling()
		},
	}
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed of the environments and the search")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", getEnvWithDefault("LABS_RESULTS", "results"), "Save the result data in the specified folder")
	rootCommand.PersistentFlags().BoolVar(&render, "render", false, "Print every frame of the environment")
	rootCommand.PersistentFlags().BoolVar(&html, "html", false, "Also save the plots as html charts")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(FrozenLakeCommand())
	rootCommand.AddCommand(MountainCarCommand())
	rootCommand.AddCommand(PendulumCommand())
	rootCommand.AddCommand(LunarLanderCommand())
	rootCommand.AddCommand(MazeWalkCommand())
	rootCommand.AddCommand(MazeCommand())
	rootCommand.AddCommand(EnduranceCommand())
	rootCommand.AddCommand(DiabetesCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

// loadEnv reads the first .env file found
func loadEnv() {
	for _, envFile := range []string{
		".env",
		"../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// interruptContext is cancelled on an interrupt from the os
func interruptContext() (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			logger.Println("interrupted")
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, cancel
}

// recordRun writes the parameters of a run with a fresh run id to
// <save>/<name>_config.json and returns the id
func recordRun(name string, params map[string]any) (string, error) {
	runID := uuid.New().String()
	if saveFile == "" {
		return runID, nil
	}
	out := map[string]any{
		"run_id": runID,
		"name":   name,
		"seed":   seed,
		"time":   time.Now().Format(time.RFC3339),
	}
	for k, v := range params {
		out[k] = v
	}
	if err := util.WriteJSON(path.Join(saveFile, name+"_config.json"), out); err != nil {
		return runID, err
	}
	return runID, appendRunLog(runID, name)
}

// appendRunLog adds a line for the run to <save>/runs.txt
func appendRunLog(runID, name string) error {
	if saveFile == "" {
		return nil
	}
	line := fmt.Sprintf("%s %s %s", time.Now().Format(time.RFC3339), runID, name)
	return util.AppendToFile(path.Join(saveFile, "runs.txt"), line)
}

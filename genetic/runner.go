package genetic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/MaxHalford/eaopt"
)

// Factory creates a random genome of the initial population
type Factory func(rng *rand.Rand) eaopt.Genome

// Outcome of a run
type Outcome struct {
	Best    eaopt.Genome
	Fitness float64
	// History is the best fitness after initialization and after every generation
	History     []float64
	Generations uint
}

// Run maximizes the fitness of the genomes produced by factory.
// A cancelled context stops the run after the current generation and the
// partial outcome is returned with the context error
func Run(ctx context.Context, cfg Config, factory Factory) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := cfg.model()
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		History: make([]float64, 0, cfg.Generations+1),
	}

	conf := eaopt.NewDefaultGAConfig()
	conf.NPops = 1
	conf.PopSize = cfg.PopSize
	conf.NGenerations = cfg.Generations
	conf.HofSize = 1
	conf.Model = model
	conf.RNG = rand.New(rand.NewSource(cfg.Seed))
	conf.Callback = func(ga *eaopt.GA) {
		outcome.History = append(outcome.History, -ga.HallOfFame[0].Fitness)
	}
	conf.EarlyStop = func(_ *eaopt.GA) bool {
		return ctx.Err() != nil
	}

	ga, err := conf.NewGA()
	if err != nil {
		return nil, fmt.Errorf("creating GA: %w", err)
	}
	if err := ga.Minimize(func(rng *rand.Rand) eaopt.Genome {
		return factory(rng)
	}); err != nil {
		return nil, fmt.Errorf("running GA: %w", err)
	}

	best := ga.HallOfFame[0]
	outcome.Best = best.Genome
	outcome.Fitness = -best.Fitness
	outcome.Generations = ga.Generations
	return outcome, ctx.Err()
}

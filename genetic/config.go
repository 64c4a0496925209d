// Package genetic runs the lab's genetic algorithm exercises on top of
// the eaopt engine. Fitness is maximized: genomes report the negated
// fitness to eaopt, which minimizes.
package genetic

import (
	"errors"
	"fmt"

	"github.com/MaxHalford/eaopt"
)

var (
	ErrInvalidConfig   = errors.New("invalid genetic algorithm config")
	ErrUnknownOperator = errors.New("unknown genetic operator")
)

// Parent selection types
const (
	SelectTournament  = "tournament"
	SelectSteadyState = "sss"
	SelectRoulette    = "rws"
)

// Crossover types
const (
	CrossSinglePoint = "single_point"
	CrossTwoPoints   = "two_points"
)

// Mutation types
const (
	MutateScramble = "scramble"
	MutateRandom   = "random"
)

// TournamentSize of the tournament selection
const TournamentSize = 3

// Config mirrors the parameters of the lab exercises
type Config struct {
	PopSize     uint
	Generations uint
	Genes       int
	// Parents sizes the tournament of steady state selection. The
	// tournament and roulette selections ignore it, tournaments there
	// always have TournamentSize contestants
	Parents int
	// KeepParents best individuals survive into the next generation
	KeepParents     int
	Selection       string
	Crossover       string
	Mutation        string
	MutationPercent float64
	Seed            int64
}

// MazeConfig are the parameters of the maze path search
func MazeConfig() Config {
	return Config{
		PopSize:         200,
		Generations:     500,
		Genes:           30,
		Parents:         70,
		KeepParents:     50,
		Selection:       SelectTournament,
		Crossover:       CrossTwoPoints,
		Mutation:        MutateScramble,
		MutationPercent: 6,
	}
}

// EnduranceConfig are the parameters of the endurance search
func EnduranceConfig() Config {
	return Config{
		PopSize:         50,
		Generations:     50,
		Genes:           6,
		Parents:         3,
		KeepParents:     1,
		Selection:       SelectSteadyState,
		Crossover:       CrossSinglePoint,
		Mutation:        MutateRandom,
		MutationPercent: 17,
	}
}

func (c Config) Validate() error {
	switch {
	case c.PopSize < 2:
		return fmt.Errorf("%w: population of %d", ErrInvalidConfig, c.PopSize)
	case c.Generations == 0:
		return fmt.Errorf("%w: no generations", ErrInvalidConfig)
	case c.Genes < 2:
		return fmt.Errorf("%w: %d genes", ErrInvalidConfig, c.Genes)
	case c.Parents < 1 || c.Parents > int(c.PopSize):
		return fmt.Errorf("%w: %d parents for a population of %d", ErrInvalidConfig, c.Parents, c.PopSize)
	case c.KeepParents < 0 || c.KeepParents >= int(c.PopSize):
		return fmt.Errorf("%w: keeping %d parents of %d", ErrInvalidConfig, c.KeepParents, c.PopSize)
	case c.MutationPercent <= 0 || c.MutationPercent > 100:
		return fmt.Errorf("%w: mutation percent %v", ErrInvalidConfig, c.MutationPercent)
	}
	if _, err := c.crossPoints(); err != nil {
		return err
	}
	switch c.Mutation {
	case MutateScramble, MutateRandom:
	default:
		return fmt.Errorf("%w: mutation %q", ErrUnknownOperator, c.Mutation)
	}
	_, err := c.selector()
	return err
}

// MutatedGenes is the number of genes touched by one mutation, at least one
func (c Config) MutatedGenes() int {
	n := int(c.MutationPercent * float64(c.Genes) / 100)
	return max(n, 1)
}

func (c Config) crossPoints() (uint, error) {
	switch c.Crossover {
	case CrossSinglePoint:
		return 1, nil
	case CrossTwoPoints:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: crossover %q", ErrUnknownOperator, c.Crossover)
}

func (c Config) selector() (eaopt.Selector, error) {
	switch c.Selection {
	case SelectTournament:
		return eaopt.SelTournament{NContestants: TournamentSize}, nil
	case SelectSteadyState:
		return eaopt.SelTournament{NContestants: uint(max(c.Parents, 2))}, nil
	case SelectRoulette:
		return eaopt.SelRoulette{}, nil
	}
	return nil, fmt.Errorf("%w: selection %q", ErrUnknownOperator, c.Selection)
}

// model translates the selection and survival parameters to an eaopt model
func (c Config) model() (eaopt.Model, error) {
	sel, err := c.selector()
	if err != nil {
		return nil, err
	}
	switch {
	case c.Selection == SelectSteadyState:
		return eaopt.ModSteadyState{
			Selector:  sel,
			KeepBest:  c.KeepParents > 0,
			MutRate:   1,
			CrossRate: 1,
		}, nil
	case c.KeepParents > 0:
		return eaopt.ModDownToSize{
			NOffsprings: c.PopSize - uint(c.KeepParents),
			SelectorA:   sel,
			SelectorB:   eaopt.SelElitism{},
			MutRate:     1,
			CrossRate:   1,
		}, nil
	}
	return eaopt.ModGenerational{
		Selector:  sel,
		MutRate:   1,
		CrossRate: 1,
	}, nil
}

package genetic

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/MaxHalford/eaopt"
	"github.com/zeu5/gym-labs/maze"
)

// operators shared by every genome of a run
type operators struct {
	crossPoints  uint
	mutation     string
	mutatedGenes int
}

func newOperators(c Config) (*operators, error) {
	points, err := c.crossPoints()
	if err != nil {
		return nil, err
	}
	return &operators{
		crossPoints:  points,
		mutation:     c.Mutation,
		mutatedGenes: c.MutatedGenes(),
	}, nil
}

// scramble shuffles a random window of the genes in place
func scramble[T any](genes []T, window int, rng *rand.Rand) {
	// a window of one gene would leave the genome unchanged
	window = min(max(window, 2), len(genes))
	start := rng.Intn(len(genes) - window + 1)
	part := genes[start : start+window]
	rng.Shuffle(len(part), func(i, j int) {
		part[i], part[j] = part[j], part[i]
	})
}

// MazeGenome is a sequence of move codes scored on a maze
type MazeGenome struct {
	Moves  []int
	scorer maze.Scorer
	ops    *operators
}

var _ eaopt.Genome = &MazeGenome{}

// NewMazeFactory returns random maze genomes of cfg.Genes moves
func NewMazeFactory(cfg Config, scorer maze.Scorer) (Factory, error) {
	ops, err := newOperators(cfg)
	if err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) eaopt.Genome {
		moves := make([]int, cfg.Genes)
		for i := range moves {
			moves[i] = rng.Intn(len(maze.AllMoves))
		}
		return &MazeGenome{Moves: moves, scorer: scorer, ops: ops}
	}, nil
}

func (g *MazeGenome) Result() maze.Result {
	return g.scorer.Score(maze.Moves(g.Moves))
}

func (g *MazeGenome) Evaluate() (float64, error) {
	return -g.Result().Fitness, nil
}

func (g *MazeGenome) Mutate(rng *rand.Rand) {
	switch g.ops.mutation {
	case MutateScramble:
		scramble(g.Moves, g.ops.mutatedGenes, rng)
	case MutateRandom:
		for _, i := range rng.Perm(len(g.Moves))[:g.ops.mutatedGenes] {
			g.Moves[i] = rng.Intn(len(maze.AllMoves))
		}
	}
}

func (g *MazeGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	eaopt.CrossGNXInt(g.Moves, other.(*MazeGenome).Moves, g.ops.crossPoints, rng)
}

func (g *MazeGenome) Clone() eaopt.Genome {
	moves := make([]int, len(g.Moves))
	copy(moves, g.Moves)
	return &MazeGenome{Moves: moves, scorer: g.scorer, ops: g.ops}
}

func (g *MazeGenome) String() string {
	return fmt.Sprint(g.Moves)
}

// gene space of the endurance problem: [0, 1) in steps of GeneStep
const (
	GeneStep   = 0.001
	geneValues = 1000
)

// Endurance is the function maximized by the endurance search
func Endurance(x, y, z, u, v, w float64) float64 {
	return math.Exp(-2*math.Pow(y-math.Sin(x), 2)) + math.Sin(z*u) + math.Cos(v*w)
}

// EnduranceGenome holds the six parameters x, y, z, u, v, w
type EnduranceGenome struct {
	Genes []float64
	ops   *operators
}

var _ eaopt.Genome = &EnduranceGenome{}

func NewEnduranceFactory(cfg Config) (Factory, error) {
	if cfg.Genes != 6 {
		return nil, fmt.Errorf("%w: endurance takes 6 genes, got %d", ErrInvalidConfig, cfg.Genes)
	}
	ops, err := newOperators(cfg)
	if err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) eaopt.Genome {
		genes := make([]float64, cfg.Genes)
		for i := range genes {
			genes[i] = randomGene(rng)
		}
		return &EnduranceGenome{Genes: genes, ops: ops}
	}, nil
}

func randomGene(rng *rand.Rand) float64 {
	return float64(rng.Intn(geneValues)) * GeneStep
}

func (g *EnduranceGenome) Fitness() float64 {
	x := g.Genes
	return Endurance(x[0], x[1], x[2], x[3], x[4], x[5])
}

func (g *EnduranceGenome) Evaluate() (float64, error) {
	return -g.Fitness(), nil
}

func (g *EnduranceGenome) Mutate(rng *rand.Rand) {
	switch g.ops.mutation {
	case MutateScramble:
		scramble(g.Genes, g.ops.mutatedGenes, rng)
	case MutateRandom:
		for _, i := range rng.Perm(len(g.Genes))[:g.ops.mutatedGenes] {
			g.Genes[i] = randomGene(rng)
		}
	}
}

func (g *EnduranceGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	eaopt.CrossGNXFloat64(g.Genes, other.(*EnduranceGenome).Genes, g.ops.crossPoints, rng)
}

func (g *EnduranceGenome) Clone() eaopt.Genome {
	genes := make([]float64, len(g.Genes))
	copy(genes, g.Genes)
	return &EnduranceGenome{Genes: genes, ops: g.ops}
}

func (g *EnduranceGenome) String() string {
	parts := make([]string, len(g.Genes))
	for i, v := range g.Genes {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

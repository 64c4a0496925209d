package maze

// Result of walking a move sequence through the maze
type Result struct {
	Fitness float64
	// Steps consumed, including moves absorbed by walls
	Steps   int
	Final   Position
	Reached bool
	// Path holds the start and the position after every step
	Path []Position
}

// Scorer assigns a fitness to a move sequence, higher is better
type Scorer interface {
	Score([]Move) Result
}

// PathScorer rewards reaching the goal in few steps.
// Reaching the goal after n steps scores -n. Otherwise the score is
// -(distance to goal + 1) * steps
type PathScorer struct {
	Maze *Maze
}

var _ Scorer = &PathScorer{}

func NewPathScorer(m *Maze) *PathScorer {
	return &PathScorer{Maze: m}
}

// Walk scores moves on m with a PathScorer
func Walk(m *Maze, moves []Move) Result {
	return NewPathScorer(m).Score(moves)
}

func (s *PathScorer) Score(moves []Move) Result {
	m := s.Maze
	pos := m.Start
	res := Result{Path: make([]Position, 1, len(moves)+1)}
	res.Path[0] = pos

	if pos == m.Goal {
		res.Final = pos
		res.Reached = true
		return res
	}

	for _, move := range moves {
		if next, ok := pos.Add(move); ok && m.Grid.Open(next) {
			pos = next
		}
		res.Steps++
		res.Path = append(res.Path, pos)
		if pos == m.Goal {
			res.Final = pos
			res.Reached = true
			res.Fitness = -float64(res.Steps)
			return res
		}
	}

	res.Final = pos
	// an empty sequence is charged as a single absorbed step
	steps := res.Steps
	if steps < 1 {
		steps = 1
	}
	res.Fitness = -float64((pos.Manhattan(m.Goal) + 1) * steps)
	return res
}

// Rewards of the IncrementalScorer
type Rewards struct {
	// landing on a safe cell
	Permitted float64
	// trying to enter a wall or leave the grid
	Forbidden float64
	// first visit of a cell
	NewCell float64
	// every later visit of a cell
	Revisit float64
	// reaching the goal, ends the walk
	GoalBonus float64
}

func DefaultRewards() Rewards {
	return Rewards{
		Permitted: 1,
		Forbidden: -5,
		NewCell:   2,
		Revisit:   -1,
		GoalBonus: 100,
	}
}

// IncrementalScorer accumulates a reward per step instead of scoring the
// end position
type IncrementalScorer struct {
	Maze    *Maze
	Rewards Rewards
}

var _ Scorer = &IncrementalScorer{}

func NewIncrementalScorer(m *Maze, r Rewards) *IncrementalScorer {
	return &IncrementalScorer{Maze: m, Rewards: r}
}

func (s *IncrementalScorer) Score(moves []Move) Result {
	m := s.Maze
	r := s.Rewards
	pos := m.Start
	visited := map[Position]bool{pos: true}
	res := Result{Path: make([]Position, 1, len(moves)+1)}
	res.Path[0] = pos

	if pos == m.Goal {
		res.Final = pos
		res.Reached = true
		res.Fitness = r.GoalBonus
		return res
	}

	for _, move := range moves {
		res.Steps++
		next, ok := pos.Add(move)
		switch {
		case !ok:
			// unknown code, the step is spent in place
		case !m.Permitted(next):
			res.Fitness += r.Forbidden
		default:
			pos = next
			res.Fitness += r.Permitted
			if visited[pos] {
				res.Fitness += r.Revisit
			} else {
				res.Fitness += r.NewCell
				visited[pos] = true
			}
		}
		res.Path = append(res.Path, pos)
		if pos == m.Goal {
			res.Fitness += r.GoalBonus
			res.Reached = true
			break
		}
	}
	res.Final = pos
	return res
}

package types

import (
	"fmt"
	"path"

	"github.com/zeu5/gym-labs/util"
)

// VisitGraph records the states seen in a run and the transitions between
// them, keyed by state hash
type VisitGraph struct {
	Nodes map[string]*Node
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Update adds the transition and returns true if from was not seen before
func (v *VisitGraph) Update(from State, action Action, to State) bool {
	fromKey := from.Hash()
	toKey := to.Hash()
	new := false
	if _, ok := v.Nodes[fromKey]; !ok {
		v.Nodes[fromKey] = NewNode(from)
		new = true
	}
	if _, ok := v.Nodes[toKey]; !ok {
		v.Nodes[toKey] = NewNode(to)
	}
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action.Hash(), toKey)
	v.Nodes[toKey].AddPrev(action.Hash(), fromKey)
	return new
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

// Transitions counts the distinct (state, action, next state) triples
func (v *VisitGraph) Transitions() int {
	count := 0
	for _, n := range v.Nodes {
		for _, next := range n.Next {
			count += len(next)
		}
	}
	return count
}

func (v *VisitGraph) Record(filePath string) error {
	return util.WriteJSON(filePath, v)
}

type Node struct {
	Key    string
	State  State
	Visits int
	// Next, Prev: Each action can lead to many states
	Next map[string]map[string]bool
	Prev map[string]map[string]bool
}

func NewNode(s State) *Node {
	return &Node{
		Key:    s.Hash(),
		State:  s,
		Visits: 0,
		Next:   make(map[string]map[string]bool),
		Prev:   make(map[string]map[string]bool),
	}
}

func (n *Node) AddPrev(a, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}

// CoverageAnalyzer builds the visit graph of all traces
func CoverageAnalyzer() Analyzer {
	return func(_ string, traces []*Trace) DataSet {
		graph := NewVisitGraph()
		for _, t := range traces {
			for i := 0; i < t.Len(); i++ {
				state, action, result, _ := t.Get(i)
				graph.Update(state, action, result.State)
			}
		}
		return graph
	}
}

// CoverageComparator prints the number of distinct states and transitions.
// With a non empty recordPath the graphs are saved as <name>_graph.json
func CoverageComparator(recordPath string) Comparator {
	return func(names []string, datasets []DataSet) error {
		for i, name := range names {
			graph := datasets[i].(*VisitGraph)
			fmt.Printf("%s: states %d, transitions %d\n", name, len(graph.Nodes), graph.Transitions())
			if recordPath == "" {
				continue
			}
			if err := graph.Record(path.Join(recordPath, name+"_graph.json")); err != nil {
				return err
			}
		}
		return nil
	}
}

package maze

import (
	"path"

	"github.com/zeu5/gym-labs/types"
	"github.com/zeu5/gym-labs/util"
)

// PathDataSet counts the cells of a single path
func PathDataSet(m *Maze, p []Position) *util.GridDataSet {
	dataSet := util.NewGridDataSet(m.Grid.Rows(), m.Grid.Cols())
	for _, pos := range p {
		dataSet.Visit(pos.Row, pos.Col)
	}
	return dataSet
}

// VisitAnalyzer counts the cells visited across all traces
func VisitAnalyzer(m *Maze) types.Analyzer {
	return func(_ string, traces []*types.Trace) types.DataSet {
		dataSet := util.NewGridDataSet(m.Grid.Rows(), m.Grid.Cols())
		for _, trace := range traces {
			for i := 0; i < trace.Len(); i++ {
				_, _, res, _ := trace.Get(i)
				pos, ok := res.State.(Position)
				if !ok {
					continue
				}
				dataSet.Visit(pos.Row, pos.Col)
			}
		}
		return dataSet
	}
}

// VisitComparator saves a heat map and the raw counts of every experiment
func VisitComparator(figPath string) types.Comparator {
	return func(names []string, ds []types.DataSet) error {
		for i := 0; i < len(names); i++ {
			name := names[i]
			dataSet := ds[i].(*util.GridDataSet)

			if err := util.WriteJSON(path.Join(figPath, name+"_visits.json"), dataSet); err != nil {
				return err
			}
			if err := util.SaveHeatMap(path.Join(figPath, name+"_visits.png"), name, dataSet); err != nil {
				return err
			}
		}
		return nil
	}
}

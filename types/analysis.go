package types

import (
	"fmt"
	"os"
	"path"

	"github.com/zeu5/gym-labs/util"
	"gonum.org/v1/gonum/stat"
)

// ReturnsDataSet holds the return and length of every episode
type ReturnsDataSet struct {
	Returns []float64
	Lengths []int
}

// EpisodeReturns computes the undiscounted return of each episode
func EpisodeReturns() Analyzer {
	return func(_ string, traces []*Trace) DataSet {
		ds := &ReturnsDataSet{
			Returns: make([]float64, len(traces)),
			Lengths: make([]int, len(traces)),
		}
		for i, t := range traces {
			ds.Returns[i] = t.Return()
			ds.Lengths[i] = t.Len()
		}
		return ds
	}
}

// ReturnsPrinter prints summary statistics of the returns
func ReturnsPrinter() Comparator {
	return func(names []string, datasets []DataSet) error {
		for i, name := range names {
			ds := datasets[i].(*ReturnsDataSet)
			if len(ds.Returns) == 0 {
				fmt.Printf("%s: no episodes\n", name)
				continue
			}
			mean, std := stat.MeanStdDev(ds.Returns, nil)
			if len(ds.Returns) < 2 {
				std = 0
			}
			fmt.Printf("%s: episodes %d, mean return %.3f (std %.3f)\n", name, len(ds.Returns), mean, std)
		}
		return nil
	}
}

// ReturnsPlotter saves the return per episode of all experiments in one figure.
// html additionally renders the chart with echarts
func ReturnsPlotter(plotPath, prefix string, html bool) Comparator {
	return func(names []string, datasets []DataSet) error {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
		series := make([]util.Series, len(names))
		for i, name := range names {
			ds := datasets[i].(*ReturnsDataSet)
			series[i] = util.Series{Name: name, Values: ds.Returns}
		}
		err := util.SaveLinePlot(path.Join(plotPath, prefix+"_returns.png"), "Episode return", "Episode", "Return", series...)
		if err != nil {
			return err
		}
		if html {
			return util.SaveLineChart(path.Join(plotPath, prefix+"_returns.html"), "Episode return", series...)
		}
		return nil
	}
}

package util

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SaveLineChart renders the series as an interactive html line chart
func SaveLineChart(chartPath, title string, series ...Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	numSteps := 0
	for _, s := range series {
		if len(s.Values) > numSteps {
			numSteps = len(s.Values)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, numSteps)
	for i := 0; i < numSteps; i++ {
		steps[i] = fmt.Sprintf("%d", i)
	}

	line = line.SetXAxis(steps)
	for _, s := range series {
		items := make([]opts.LineData, 0, len(s.Values))
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				// echarts leaves a gap for "-"
				items = append(items, opts.LineData{Value: "-"})
				continue
			}
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)

	if err := ensureParent(chartPath); err != nil {
		return err
	}
	f, err := os.Create(chartPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

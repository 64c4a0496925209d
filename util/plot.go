package util

import (
	"errors"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrNoSeries = errors.New("no series to plot")

// Series is a named sequence of values indexed by their position
type Series struct {
	Name   string
	Values []float64
}

// Points of the series with x as the index. Values that are not finite are skipped
func (s Series) Points() plotter.XYs {
	points := make(plotter.XYs, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, plotter.XY{
			X: float64(i),
			Y: v,
		})
	}
	return points
}

// SaveLinePlot draws every series as a line in a single figure.
// The format is taken from the file extension
func SaveLinePlot(figPath, title, xLabel, yLabel string, series ...Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	for i, s := range series {
		points := s.Points()
		if len(points) == 0 {
			continue
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true
	if err := ensureParent(figPath); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, figPath)
}

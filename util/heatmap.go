package util

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GridDataSet counts visits of the cells of a rows x cols grid
type GridDataSet struct {
	Visits map[int]map[int]int
	Height int
	Width  int
}

var _ plotter.GridXYZ = &GridDataSet{}

func NewGridDataSet(height, width int) *GridDataSet {
	return &GridDataSet{
		Visits: make(map[int]map[int]int),
		Height: height,
		Width:  width,
	}
}

// Visit records one visit of cell (i, j), growing the grid if needed
func (g *GridDataSet) Visit(i, j int) {
	if _, ok := g.Visits[i]; !ok {
		g.Visits[i] = make(map[int]int)
	}
	g.Visits[i][j] += 1
	if i+1 > g.Height {
		g.Height = i + 1
	}
	if j+1 > g.Width {
		g.Width = j + 1
	}
}

func (g *GridDataSet) Count(i, j int) int {
	return g.Visits[i][j]
}

func (g *GridDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

// Z flips the rows so that row 0 is drawn at the top
func (g *GridDataSet) Z(c, r int) float64 {
	return float64(g.Visits[g.Height-1-r][c])
}

func (g *GridDataSet) X(c int) float64 {
	return float64(c)
}

func (g *GridDataSet) Y(r int) float64 {
	return float64(r)
}

func (g *GridDataSet) Min() float64 {
	return 0.0
}

func (g *GridDataSet) Max() float64 {
	max := 0
	for _, vals := range g.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// Merge adds the visits of the other datasets
func (g *GridDataSet) Merge(others ...*GridDataSet) {
	for _, o := range others {
		for i, vals := range o.Visits {
			for j, visits := range vals {
				if _, ok := g.Visits[i]; !ok {
					g.Visits[i] = make(map[int]int)
				}
				g.Visits[i][j] += visits
			}
		}
		if o.Height > g.Height {
			g.Height = o.Height
		}
		if o.Width > g.Width {
			g.Width = o.Width
		}
	}
}

// SaveHeatMap draws the visit counts as a heat map
func SaveHeatMap(figPath, title string, g *GridDataSet) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row (flipped)"
	pal := palette.Heat(20, 1)
	h := plotter.NewHeatMap(g, pal)
	if g.Max() == 0 {
		h.Max = 1
	}
	p.Add(h)
	if err := ensureParent(figPath); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, figPath)
}

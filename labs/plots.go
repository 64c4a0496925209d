package labs

import (
	"path"

	"github.com/zeu5/gym-labs/util"
)

// saveCurves writes <save>/<name>.png and, with --html, <save>/<name>.html
func saveCurves(name, title, xLabel, yLabel string, series ...util.Series) error {
	if saveFile == "" {
		return nil
	}
	if err := util.SaveLinePlot(path.Join(saveFile, name+".png"), title, xLabel, yLabel, series...); err != nil {
		return err
	}
	if html {
		return util.SaveLineChart(path.Join(saveFile, name+".html"), title, series...)
	}
	return nil
}

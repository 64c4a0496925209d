package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Round thresholds probabilities at 0.5
func Round(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		if v >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Accuracy is the fraction of equal labels
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix counts samples with rows as the true class and columns as
// the predicted class. Labels outside [0, classes) are skipped
func ConfusionMatrix(yTrue, yPred []float64, classes int) *mat.Dense {
	cm := mat.NewDense(classes, classes, nil)
	for i := range yTrue {
		t, p := int(math.Round(yTrue[i])), int(math.Round(yPred[i]))
		if t < 0 || p < 0 || t >= classes || p >= classes {
			continue
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm
}

package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Loss averaged over the rows of a batch
type Loss interface {
	Name() string
	Loss(pred, y *mat.Dense) float64
	// Grad of the mean loss with respect to pred
	Grad(pred, y *mat.Dense) *mat.Dense
}

// BinaryCrossEntropy expects probabilities, clipped to [Epsilon, 1-Epsilon]
type BinaryCrossEntropy struct {
	Epsilon float64
}

var _ Loss = BinaryCrossEntropy{}

func NewBinaryCrossEntropy() BinaryCrossEntropy {
	return BinaryCrossEntropy{Epsilon: 1e-7}
}

func (b BinaryCrossEntropy) Name() string {
	return "binary_crossentropy"
}

func (b BinaryCrossEntropy) clip(p float64) float64 {
	return math.Min(math.Max(p, b.Epsilon), 1-b.Epsilon)
}

func (b BinaryCrossEntropy) Loss(pred, y *mat.Dense) float64 {
	r, c := pred.Dims()
	sum := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p, t := b.clip(pred.At(i, j)), y.At(i, j)
			sum -= t*math.Log(p) + (1-t)*math.Log(1-p)
		}
	}
	return sum / float64(r*c)
}

func (b BinaryCrossEntropy) Grad(pred, y *mat.Dense) *mat.Dense {
	r, c := pred.Dims()
	n := float64(r * c)
	g := mat.NewDense(r, c, nil)
	g.Apply(func(i, j int, v float64) float64 {
		p, t := b.clip(v), y.At(i, j)
		return (p - t) / (p * (1 - p)) / n
	}, pred)
	return g
}

type MeanSquaredError struct{}

var _ Loss = MeanSquaredError{}

func (MeanSquaredError) Name() string {
	return "mse"
}

func (MeanSquaredError) Loss(pred, y *mat.Dense) float64 {
	r, c := pred.Dims()
	var diff mat.Dense
	diff.Sub(pred, y)
	return mat.Sum(mulElem(&diff, &diff)) / float64(r*c)
}

func (MeanSquaredError) Grad(pred, y *mat.Dense) *mat.Dense {
	r, c := pred.Dims()
	g := mat.NewDense(r, c, nil)
	g.Sub(pred, y)
	g.Scale(2/float64(r*c), g)
	return g
}

func mulElem(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.MulElem(a, b)
	return &out
}

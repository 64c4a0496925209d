package nn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer: a = act(x W + b)
type Dense struct {
	Units      int
	Activation Activation

	W *mat.Dense
	B *mat.Dense

	// cached by Forward for the backward pass
	input *mat.Dense
	z     *mat.Dense
	a     *mat.Dense

	dW *mat.Dense
	dB *mat.Dense
}

func NewDense(units int, act Activation) *Dense {
	return &Dense{
		Units:      units,
		Activation: act,
	}
}

// build initializes the weights with Glorot uniform and zero biases
func (d *Dense) build(inputDim int, r *rand.Rand) {
	limit := math.Sqrt(6 / float64(inputDim+d.Units))
	w := make([]float64, inputDim*d.Units)
	for i := range w {
		w[i] = (2*r.Float64() - 1) * limit
	}
	d.W = mat.NewDense(inputDim, d.Units, w)
	d.B = mat.NewDense(1, d.Units, nil)
	d.dW = mat.NewDense(inputDim, d.Units, nil)
	d.dB = mat.NewDense(1, d.Units, nil)
}

func (d *Dense) Params() int {
	r, c := d.W.Dims()
	return r*c + c
}

func (d *Dense) Forward(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	z := mat.NewDense(n, d.Units, nil)
	z.Mul(x, d.W)
	bias := d.B.RawRowView(0)
	z.Apply(func(_, j int, v float64) float64 {
		return v + bias[j]
	}, z)
	a := mat.NewDense(n, d.Units, nil)
	a.Apply(func(_, _ int, v float64) float64 {
		return d.Activation.F(v)
	}, z)
	d.input, d.z, d.a = x, z, a
	return a
}

// Backward takes the gradient of the loss with respect to the output of
// the last Forward call, stores the parameter gradients and returns the
// gradient with respect to the input
func (d *Dense) Backward(dA *mat.Dense) *mat.Dense {
	n, _ := dA.Dims()
	dZ := mat.NewDense(n, d.Units, nil)
	dZ.Apply(func(i, j int, v float64) float64 {
		return v * d.Activation.Grad(d.z.At(i, j), d.a.At(i, j))
	}, dA)

	d.dW.Mul(d.input.T(), dZ)
	for j := 0; j < d.Units; j++ {
		d.dB.Set(0, j, floats.Sum(mat.Col(nil, j, dZ)))
	}

	_, in := d.input.Dims()
	dX := mat.NewDense(n, in, nil)
	dX.Mul(dZ, d.W.T())
	return dX
}

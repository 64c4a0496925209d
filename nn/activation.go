// Package nn is a small feed-forward network for binary classification:
// dense layers trained with mini-batch gradient descent on gonum matrices.
package nn

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknown = errors.New("unknown name")

// Activation applied element wise after a dense layer.
// Grad receives the pre-activation z and the output a = F(z)
type Activation struct {
	Name string
	F    func(z float64) float64
	Grad func(z, a float64) float64
}

var (
	ReLU = Activation{
		Name: "relu",
		F:    func(z float64) float64 { return math.Max(0, z) },
		Grad: func(z, _ float64) float64 {
			if z > 0 {
				return 1
			}
			return 0
		},
	}
	Sigmoid = Activation{
		Name: "sigmoid",
		F:    func(z float64) float64 { return 1 / (1 + math.Exp(-z)) },
		Grad: func(_, a float64) float64 { return a * (1 - a) },
	}
	Tanh = Activation{
		Name: "tanh",
		F:    math.Tanh,
		Grad: func(_, a float64) float64 { return 1 - a*a },
	}
	Linear = Activation{
		Name: "linear",
		F:    func(z float64) float64 { return z },
		Grad: func(_, _ float64) float64 { return 1 },
	}
)

var activations = map[string]Activation{
	ReLU.Name:    ReLU,
	Sigmoid.Name: Sigmoid,
	Tanh.Name:    Tanh,
	Linear.Name:  Linear,
}

// ActivationNames are the hidden layer activations the labs compare
var ActivationNames = []string{"relu", "sigmoid", "tanh", "linear"}

func ActivationByName(name string) (Activation, error) {
	a, ok := activations[name]
	if !ok {
		return Activation{}, fmt.Errorf("%w: activation %q", ErrUnknown, name)
	}
	return a, nil
}

package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Optimizer updates parameters in place from their gradients. Update is
// called once per batch with the parameters in the same order every time
type Optimizer interface {
	Name() string
	Update(params, grads []*mat.Dense)
}

// OptimizerNames are the optimizers the labs compare
var OptimizerNames = []string{"adam", "sgd", "rmsprop"}

// OptimizerByName returns a fresh optimizer with the keras defaults
func OptimizerByName(name string) (Optimizer, error) {
	switch name {
	case "adam":
		return NewAdam(0.001), nil
	case "sgd":
		return NewSGD(0.01), nil
	case "rmsprop":
		return NewRMSProp(0.001), nil
	}
	return nil, fmt.Errorf("%w: optimizer %q", ErrUnknown, name)
}

type SGD struct {
	LearningRate float64
}

var _ Optimizer = &SGD{}

func NewSGD(lr float64) *SGD {
	return &SGD{LearningRate: lr}
}

func (s *SGD) Name() string { return "sgd" }

func (s *SGD) Update(params, grads []*mat.Dense) {
	for i, p := range params {
		p.Apply(func(r, c int, v float64) float64 {
			return v - s.LearningRate*grads[i].At(r, c)
		}, p)
	}
}

type RMSProp struct {
	LearningRate float64
	Rho          float64
	Epsilon      float64

	avg []*mat.Dense
}

var _ Optimizer = &RMSProp{}

func NewRMSProp(lr float64) *RMSProp {
	return &RMSProp{
		LearningRate: lr,
		Rho:          0.9,
		Epsilon:      1e-7,
	}
}

func (o *RMSProp) Name() string { return "rmsprop" }

func (o *RMSProp) Update(params, grads []*mat.Dense) {
	if o.avg == nil {
		o.avg = zerosLike(params)
	}
	for i, p := range params {
		avg, g := o.avg[i], grads[i]
		avg.Apply(func(r, c int, v float64) float64 {
			gv := g.At(r, c)
			return o.Rho*v + (1-o.Rho)*gv*gv
		}, avg)
		p.Apply(func(r, c int, v float64) float64 {
			return v - o.LearningRate*g.At(r, c)/(math.Sqrt(avg.At(r, c))+o.Epsilon)
		}, p)
	}
}

type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	t int
	m []*mat.Dense
	v []*mat.Dense
}

var _ Optimizer = &Adam{}

func NewAdam(lr float64) *Adam {
	return &Adam{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
	}
}

func (o *Adam) Name() string { return "adam" }

func (o *Adam) Update(params, grads []*mat.Dense) {
	if o.m == nil {
		o.m = zerosLike(params)
		o.v = zerosLike(params)
	}
	o.t++
	lr := o.LearningRate * math.Sqrt(1-math.Pow(o.Beta2, float64(o.t))) / (1 - math.Pow(o.Beta1, float64(o.t)))
	for i, p := range params {
		m, v, g := o.m[i], o.v[i], grads[i]
		m.Apply(func(r, c int, x float64) float64 {
			return o.Beta1*x + (1-o.Beta1)*g.At(r, c)
		}, m)
		v.Apply(func(r, c int, x float64) float64 {
			gv := g.At(r, c)
			return o.Beta2*x + (1-o.Beta2)*gv*gv
		}, v)
		p.Apply(func(r, c int, x float64) float64 {
			return x - lr*m.At(r, c)/(math.Sqrt(v.At(r, c))+o.Epsilon)
		}, p)
	}
}

func zerosLike(params []*mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(params))
	for i, p := range params {
		r, c := p.Dims()
		out[i] = mat.NewDense(r, c, nil)
	}
	return out
}

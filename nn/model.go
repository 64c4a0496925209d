package nn

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

var ErrShape = errors.New("shape mismatch")

// Sequential is a stack of dense layers with a single output
type Sequential struct {
	Layers    []*Dense
	Loss      Loss
	Optimizer Optimizer

	inputDim int
	rand     *rand.Rand
}

// NewSequential builds the layers for inputs of inputDim features.
// seed drives weight initialization and batch shuffling
func NewSequential(inputDim int, loss Loss, opt Optimizer, seed uint64, layers ...*Dense) (*Sequential, error) {
	if len(layers) == 0 || inputDim < 1 {
		return nil, fmt.Errorf("%w: %d inputs, %d layers", ErrShape, inputDim, len(layers))
	}
	m := &Sequential{
		Layers:    layers,
		Loss:      loss,
		Optimizer: opt,
		inputDim:  inputDim,
		rand:      rand.New(rand.NewSource(seed)),
	}
	in := inputDim
	for _, l := range layers {
		if l.Units < 1 {
			return nil, fmt.Errorf("%w: layer with %d units", ErrShape, l.Units)
		}
		l.build(in, m.rand)
		in = l.Units
	}
	return m, nil
}

func (m *Sequential) forward(x *mat.Dense) *mat.Dense {
	out := x
	for _, l := range m.Layers {
		out = l.Forward(out)
	}
	return out
}

func (m *Sequential) backward(grad *mat.Dense) {
	for i := len(m.Layers) - 1; i >= 0; i-- {
		grad = m.Layers[i].Backward(grad)
	}
	params := make([]*mat.Dense, 0, 2*len(m.Layers))
	grads := make([]*mat.Dense, 0, 2*len(m.Layers))
	for _, l := range m.Layers {
		params = append(params, l.W, l.B)
		grads = append(grads, l.dW, l.dB)
	}
	m.Optimizer.Update(params, grads)
}

func (m *Sequential) checkInput(x *mat.Dense, y []float64) error {
	r, c := x.Dims()
	if c != m.inputDim {
		return fmt.Errorf("%w: %d features, model takes %d", ErrShape, c, m.inputDim)
	}
	if y != nil && len(y) != r {
		return fmt.Errorf("%w: %d rows and %d labels", ErrShape, r, len(y))
	}
	return nil
}

// Predict returns the output of the network for every row of x
func (m *Sequential) Predict(x *mat.Dense) ([]float64, error) {
	if err := m.checkInput(x, nil); err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, m.forward(x)), nil
}

// Evaluate returns the mean loss and the binary accuracy on (x, y)
func (m *Sequential) Evaluate(x *mat.Dense, y []float64) (float64, float64, error) {
	if err := m.checkInput(x, y); err != nil {
		return 0, 0, err
	}
	pred := m.forward(x)
	loss := m.Loss.Loss(pred, column(y))
	return loss, Accuracy(y, Round(mat.Col(nil, 0, pred))), nil
}

type FitConfig struct {
	Epochs    int
	BatchSize int
	// validation data evaluated after every epoch, optional
	ValX *mat.Dense
	ValY []float64
	// OnEpoch is called after every epoch with the history so far
	OnEpoch func(epoch int, h *History)
}

// History of a Fit, one entry per epoch
type History struct {
	Loss        []float64
	ValLoss     []float64
	Accuracy    []float64
	ValAccuracy []float64
}

func (h *History) Epochs() int {
	return len(h.Loss)
}

// Fit trains on (x, y) with shuffled mini batches
func (m *Sequential) Fit(ctx context.Context, x *mat.Dense, y []float64, cfg FitConfig) (*History, error) {
	if err := m.checkInput(x, y); err != nil {
		return nil, err
	}
	validate := cfg.ValX != nil
	if validate {
		if err := m.checkInput(cfg.ValX, cfg.ValY); err != nil {
			return nil, fmt.Errorf("validation data: %w", err)
		}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	n, c := x.Dims()
	history := &History{}
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		perm := m.rand.Perm(n)
		for start := 0; start < n; start += batchSize {
			rows := perm[start:min(start+batchSize, n)]
			xb := mat.NewDense(len(rows), c, nil)
			yb := mat.NewDense(len(rows), 1, nil)
			for i, r := range rows {
				xb.SetRow(i, x.RawRowView(r))
				yb.Set(i, 0, y[r])
			}
			pred := m.forward(xb)
			m.backward(m.Loss.Grad(pred, yb))
		}

		loss, acc, err := m.Evaluate(x, y)
		if err != nil {
			return history, err
		}
		history.Loss = append(history.Loss, loss)
		history.Accuracy = append(history.Accuracy, acc)
		if validate {
			valLoss, valAcc, err := m.Evaluate(cfg.ValX, cfg.ValY)
			if err != nil {
				return history, fmt.Errorf("validation data: %w", err)
			}
			history.ValLoss = append(history.ValLoss, valLoss)
			history.ValAccuracy = append(history.ValAccuracy, valAcc)
		}
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(epoch, history)
		}
	}
	return history, nil
}

// Summary writes the layers and their parameter counts
func (m *Sequential) Summary(w io.Writer) {
	fmt.Fprintf(w, "%-8s %-10s %-8s %s\n", "Layer", "Activation", "Units", "Params")
	total := 0
	for i, l := range m.Layers {
		fmt.Fprintf(w, "dense_%-2d %-10s %-8d %d\n", i, l.Activation.Name, l.Units, l.Params())
		total += l.Params()
	}
	fmt.Fprintf(w, "Total params: %d\n", total)
}

func column(y []float64) *mat.Dense {
	return mat.NewDense(len(y), 1, append([]float64(nil), y...))
}

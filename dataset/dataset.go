// Package dataset loads labelled numeric tables and prepares them for
// training: label binarization, splits and standardization.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty         = errors.New("dataset is empty")
	ErrMissingColumn = errors.New("missing column")
	ErrUnknownLabel  = errors.New("unknown label value")
	ErrBadValue      = errors.New("non numeric value")
	ErrBadFraction   = errors.New("fraction must be in (0, 1)")
)

// Diabetes dataset schema
const DiabetesLabel = "class"

var DiabetesClasses = map[string]float64{
	"tested_positive": 1,
	"tested_negative": 0,
}

// Dataset is a feature matrix with one label per row
type Dataset struct {
	Columns  []string
	Features *mat.Dense
	Labels   []float64
}

func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Dims returns the number of rows and feature columns
func (d *Dataset) Dims() (int, int) {
	return d.Features.Dims()
}

// Subset copies the given rows in order
func (d *Dataset) Subset(rows []int) *Dataset {
	sub := &Dataset{
		Columns:  d.Columns,
		Features: &mat.Dense{},
		Labels:   make([]float64, len(rows)),
	}
	if len(rows) == 0 {
		return sub
	}
	_, c := d.Dims()
	sub.Features = mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		sub.Features.SetRow(i, d.Features.RawRowView(r))
		sub.Labels[i] = d.Labels[r]
	}
	return sub
}

// Read parses a CSV table with a header row. The label column is mapped
// through mapping, or parsed as a number when mapping is nil. Every other
// column is a numeric feature
func Read(r io.Reader, label string, mapping map[string]float64) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	} else if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	labelCol := -1
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == label {
			labelCol = i
			continue
		}
		columns = append(columns, name)
	}
	if labelCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, label)
	}

	data := make([]float64, 0)
	labels := make([]float64, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i, field := range record {
			field = strings.TrimSpace(field)
			if i == labelCol {
				y, err := parseLabel(field, mapping)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				labels = append(labels, y)
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w: %q", line, header[i], ErrBadValue, field)
			}
			data = append(data, v)
		}
	}
	if len(labels) == 0 || len(columns) == 0 {
		return nil, ErrEmpty
	}
	return &Dataset{
		Columns:  columns,
		Features: mat.NewDense(len(labels), len(columns), data),
		Labels:   labels,
	}, nil
}

func parseLabel(field string, mapping map[string]float64) (float64, error) {
	if mapping == nil {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadValue, field)
		}
		return v, nil
	}
	v, ok := mapping[field]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, field)
	}
	return v, nil
}

// LoadCSV reads the CSV file at path
func LoadCSV(path, label string, mapping map[string]float64) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Read(f, label, mapping)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return ds, nil
}

// TrainTestSplit shuffles the rows with seed and holds out
// ceil(testFraction * n) of them for testing
func TrainTestSplit(ds *Dataset, testFraction float64, seed uint64) (*Dataset, *Dataset, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadFraction, testFraction)
	}
	n := ds.Len()
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d rows cannot hold out %d", ErrEmpty, n, nTest)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return ds.Subset(perm[nTest:]), ds.Subset(perm[:nTest]), nil
}

// Split keeps the row order: the first round(leftFraction * n) rows go left
func Split(ds *Dataset, leftFraction float64) (*Dataset, *Dataset, error) {
	if leftFraction <= 0 || leftFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadFraction, leftFraction)
	}
	n := ds.Len()
	left := int(math.Round(leftFraction * float64(n)))
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return ds.Subset(rows[:left]), ds.Subset(rows[left:]), nil
}

// Scaler standardizes every feature column to zero mean and unit variance
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes the column statistics of ds
func FitScaler(ds *Dataset) *Scaler {
	_, c := ds.Dims()
	s := &Scaler{
		Mean: make([]float64, c),
		Std:  make([]float64, c),
	}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, ds.Features)
		s.Mean[j], s.Std[j] = stat.MeanStdDev(col, nil)
	}
	return s
}

// Transform returns a standardized copy of ds. Constant columns are only centered
func (s *Scaler) Transform(ds *Dataset) *Dataset {
	r, c := ds.Dims()
	features := mat.NewDense(r, c, nil)
	features.Apply(func(i, j int, v float64) float64 {
		std := s.Std[j]
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		return (v - s.Mean[j]) / std
	}, ds.Features)
	labels := make([]float64, len(ds.Labels))
	copy(labels, ds.Labels)
	return &Dataset{Columns: ds.Columns, Features: features, Labels: labels}
}

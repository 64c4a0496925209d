package dataset

import (
	"io/fs"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func loadDiabetes(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadCSV("testdata/diabetes.csv", DiabetesLabel, DiabetesClasses)
	require.NoError(t, err)
	return ds
}

func TestLoadDiabetes(t *testing.T) {
	ds := loadDiabetes(t)
	r, c := ds.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 8, c)
	assert.Equal(t, []string{"preg", "plas", "pres", "skin", "insu", "mass", "pedi", "age"}, ds.Columns)
	assert.Equal(t, []float64{1, 0, 1, 0, 1, 0, 1, 0, 1, 1}, ds.Labels)
	assert.Equal(t, 33.6, ds.Features.At(0, 5))
	assert.Equal(t, 54.0, ds.Features.At(9, 7))
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadCSV("testdata/missing.csv", DiabetesLabel, DiabetesClasses)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = LoadCSV("testdata/diabetes.csv", "outcome", DiabetesClasses)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = LoadCSV("testdata/unknown_label.csv", DiabetesLabel, DiabetesClasses)
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.Contains(t, err.Error(), "line 3")

	_, err = LoadCSV("testdata/bad_value.csv", DiabetesLabel, DiabetesClasses)
	assert.ErrorIs(t, err, ErrBadValue)

	_, err = Read(strings.NewReader(""), DiabetesLabel, DiabetesClasses)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Read(strings.NewReader("a,class\n"), DiabetesLabel, DiabetesClasses)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNumericLabels(t *testing.T) {
	ds, err := Read(strings.NewReader("y, x\n1, 2\n0, 3\n"), "y", nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, ds.Labels)
	assert.Equal(t, []string{"x"}, ds.Columns)
}

func rowKey(ds *Dataset, i int) float64 {
	// pedi is unique per row in the sample
	return ds.Features.At(i, 6)
}

func TestTrainTestSplit(t *testing.T) {
	ds := loadDiabetes(t)
	train, test, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, test.Len())

	keys := make([]float64, 0)
	for _, part := range []*Dataset{train, test} {
		for i := 0; i < part.Len(); i++ {
			keys = append(keys, rowKey(part, i))
		}
	}
	want := make([]float64, 0)
	for i := 0; i < ds.Len(); i++ {
		want = append(want, rowKey(ds, i))
	}
	sort.Float64s(keys)
	sort.Float64s(want)
	assert.Equal(t, want, keys)

	again, _, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.True(t, mat.Equal(train.Features, again.Features))

	// 0.25 of 10 rounds up
	_, test, err = TrainTestSplit(ds, 0.25, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, test.Len())

	_, _, err = TrainTestSplit(ds, 1, 1)
	assert.ErrorIs(t, err, ErrBadFraction)
}

func TestSplitKeepsOrder(t *testing.T) {
	ds := loadDiabetes(t)
	left, right, err := Split(ds, 0.7)
	require.NoError(t, err)
	require.Equal(t, 7, left.Len())
	require.Equal(t, 3, right.Len())
	assert.Equal(t, rowKey(ds, 0), rowKey(left, 0))
	assert.Equal(t, rowKey(ds, 7), rowKey(right, 0))
	assert.Equal(t, ds.Labels[7:], right.Labels)
}

func TestScaler(t *testing.T) {
	ds := loadDiabetes(t)
	scaled := FitScaler(ds).Transform(ds)
	_, c := scaled.Dims()
	for j := 0; j < c; j++ {
		mean, std := stat.MeanStdDev(mat.Col(nil, j, scaled.Features), nil)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, std, 1e-9)
	}
	// the source is untouched
	assert.Equal(t, 6.0, ds.Features.At(0, 0))

	constant, err := Read(strings.NewReader("x,y\n2,0\n2,1\n"), "y", nil)
	require.NoError(t, err)
	out := FitScaler(constant).Transform(constant)
	assert.Equal(t, 0.0, out.Features.At(0, 0))
	assert.False(t, math.IsNaN(out.Features.At(1, 0)))
}

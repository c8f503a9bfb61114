package eisa

import (
	"errors"
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func mustMatrix(t *testing.T, counts [][]float64, genes, samples []string) *CountMatrix {
	t.Helper()
	m, err := NewCountMatrix(counts, genes, samples)
	expect.NoError(t, err)
	return m
}

func mustCondition(t *testing.T, labels ...string) *Condition {
	t.Helper()
	c, err := NewCondition(labels)
	expect.NoError(t, err)
	return c
}

func TestNewCountMatrixSynthesizesIdentifiers(t *testing.T) {
	m, err := NewCountMatrix([][]float64{{1, 2}, {3, 4}, {5, 6}}, nil, nil)
	expect.NoError(t, err)
	expect.EQ(t, m.Genes, []string{"1", "2", "3"})
	expect.EQ(t, m.Samples, []string{"1", "2"})
}

func TestNewCountMatrixRaggedRows(t *testing.T) {
	_, err := NewCountMatrix([][]float64{{1, 2}, {3}}, nil, nil)
	expect.True(t, errors.Is(err, ErrShape))
}

func TestCombineShapeMismatch(t *testing.T) {
	ex := mustMatrix(t, [][]float64{{1, 2}, {3, 4}}, nil, nil)
	in := mustMatrix(t, [][]float64{{1, 2}}, nil, nil)
	_, err := Combine(ex, in, mustCondition(t, "a", "b"))
	expect.True(t, errors.Is(err, ErrShape))
}

func TestCombineIdentifierMismatch(t *testing.T) {
	ex := mustMatrix(t, [][]float64{{1, 2}}, []string{"g1"}, []string{"s1", "s2"})
	in := mustMatrix(t, [][]float64{{1, 2}}, []string{"g2"}, []string{"s1", "s2"})
	_, err := Combine(ex, in, mustCondition(t, "a", "b"))
	expect.True(t, errors.Is(err, ErrIdentifierMismatch))
}

func TestConditionCardinality(t *testing.T) {
	_, err := NewCondition([]string{"a", "a"})
	expect.True(t, errors.Is(err, ErrConditionCardinality))
	_, err = NewCondition([]string{"a", "b", "c"})
	expect.True(t, errors.Is(err, ErrConditionCardinality))

	// Wrong length surfaces at Combine time.
	ex := mustMatrix(t, [][]float64{{1, 2}}, nil, nil)
	in := mustMatrix(t, [][]float64{{1, 2}}, nil, nil)
	_, err = Combine(ex, in, mustCondition(t, "a", "b", "a"))
	expect.True(t, errors.Is(err, ErrConditionCardinality))
}

func TestCombinedTableLayout(t *testing.T) {
	ex := mustMatrix(t, [][]float64{{1, 2}, {3, 4}}, []string{"g1", "g2"}, []string{"s1", "s2"})
	in := mustMatrix(t, [][]float64{{5, 6}, {7, 8}}, []string{"g1", "g2"}, []string{"s1", "s2"})
	tbl, err := Combine(ex, in, mustCondition(t, "a", "b"))
	expect.NoError(t, err)
	expect.EQ(t, tbl.NGenes(), 2)
	expect.EQ(t, tbl.NSamples(), 2)
	expect.EQ(t, len(tbl.Cols), 4)
	expect.EQ(t, tbl.Labels(), []string{"s1.ex", "s2.ex", "s1.in", "s2.in"})
	expect.EQ(t, tbl.Col(0), []float64{1, 3})
	expect.EQ(t, tbl.Col(3), []float64{6, 8})
	expect.EQ(t, tbl.RegionCols(Intron), []int{2, 3})
	expect.EQ(t, tbl.GeneRows(), [][]float64{{1, 2, 5, 6}, {3, 4, 7, 8}})

	sub := tbl.Subset([]int{1})
	expect.EQ(t, sub.Genes, []string{"g2"})
	expect.EQ(t, sub.Col(0), []float64{3})
	// The original is untouched.
	expect.EQ(t, tbl.Col(0), []float64{1, 3})
}

func TestFracIntronic(t *testing.T) {
	ex := mustMatrix(t, [][]float64{{9, 0}, {1, 0}}, nil, nil)
	in := mustMatrix(t, [][]float64{{20, 0}, {70, 0}}, nil, nil)
	tbl, err := Combine(ex, in, mustCondition(t, "a", "b"))
	expect.NoError(t, err)
	frac := fracIntronic(tbl)
	expect.EQ(t, len(frac), 2)
	expect.True(t, math.Abs(frac[0]-0.9) < 1e-12)
	expect.EQ(t, frac[1], 0.0) // all-zero sample
	for _, f := range frac {
		expect.True(t, f >= 0 && f <= 1)
	}
}

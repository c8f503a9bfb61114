package eisa

import (
	"errors"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func testColumns(cond *Condition) []Column {
	n := len(cond.Labels)
	cols := make([]Column, 0, 2*n)
	for _, r := range []Region{Exon, Intron} {
		for s := 0; s < n; s++ {
			cols = append(cols, Column{Sample: "s" + string(rune('1'+s)), Region: r, Cond: cond.Labels[s]})
		}
	}
	return cols
}

func TestDesignWithSampleEffects(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	cols := testColumns(cond)
	d, err := buildDesign(cond, cols, true)
	expect.NoError(t, err)

	m, p := d.X.Dims()
	expect.EQ(t, m, 8)
	expect.EQ(t, p, 6)
	expect.EQ(t, d.RowNames, []string{
		"s1.ex", "s2.ex", "s3.ex", "s4.ex",
		"s1.in", "s2.in", "s3.in", "s4.in",
	})
	expect.EQ(t, d.ColNames, []string{
		"(Intercept)", "samples2", "samples3", "samples4", "ex.ctrl", "ex.treat",
	})
	expect.EQ(t, d.Contrast, []float64{0, 0, 0, 0, -1, 1})

	// s1 exon row: intercept and the ctrl exon indicator.
	expect.EQ(t, rowOf(d, 0), []float64{1, 0, 0, 0, 1, 0})
	// s4 exon row: intercept, sample s4, treat exon indicator.
	expect.EQ(t, rowOf(d, 3), []float64{1, 0, 0, 1, 0, 1})
	// s4 intron row: no exon indicator.
	expect.EQ(t, rowOf(d, 7), []float64{1, 0, 0, 1, 0, 0})
}

func TestDesignMainEffects(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	cols := testColumns(cond)
	d, err := buildDesign(cond, cols, false)
	expect.NoError(t, err)

	m, p := d.X.Dims()
	expect.EQ(t, m, 8)
	expect.EQ(t, p, 4)
	expect.EQ(t, d.Contrast, []float64{0, 0, 0, 1})

	// ctrl exon: intercept + region.
	expect.EQ(t, rowOf(d, 0), []float64{1, 1, 0, 0})
	// treat exon: everything.
	expect.EQ(t, rowOf(d, 2), []float64{1, 1, 1, 1})
	// treat intron: intercept + condition.
	expect.EQ(t, rowOf(d, 6), []float64{1, 0, 1, 0})
	// ctrl intron: intercept only.
	expect.EQ(t, rowOf(d, 4), []float64{1, 0, 0, 0})
}

func TestDesignDuplicateSampleIdentifiers(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	cols := testColumns(cond)
	for i := range cols {
		if cols[i].Sample == "s2" {
			cols[i].Sample = "s1"
		}
	}
	_, err := buildDesign(cond, cols, true)
	expect.True(t, errors.Is(err, ErrDesignRank), "got %v", err)

	// Without sample indicators the identifiers do not enter the design.
	d, err := buildDesign(cond, cols, false)
	expect.NoError(t, err)
	_, p := d.X.Dims()
	expect.EQ(t, p, 4)
}

func TestDesignTwoSamples(t *testing.T) {
	cond := mustCondition(t, "a", "b")
	for _, modelSamples := range []bool{true, false} {
		d, err := buildDesign(cond, testColumns(cond), modelSamples)
		expect.NoError(t, err)
		m, p := d.X.Dims()
		expect.EQ(t, m, 4)
		expect.EQ(t, p, 4)
		expect.EQ(t, len(d.Contrast), p)
	}
}

func rowOf(d *Design, i int) []float64 {
	_, p := d.X.Dims()
	row := make([]float64, p)
	for k := 0; k < p; k++ {
		row[k] = d.X.At(i, k)
	}
	return row
}

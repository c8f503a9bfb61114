package eisa

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Design is the model matrix over the combined table's columns together with
// the contrast vector that reads out the difference in exon effect between
// the two condition levels.
type Design struct {
	// X has one row per combined-table column, in the same order.
	X        *mat.Dense
	RowNames []string
	ColNames []string
	// Contrast has one entry per design column; its dot product with a
	// coefficient vector is the tested effect, level 2 versus level 1.
	Contrast []float64

	// ModelSamples records which of the two parameterizations X uses.
	ModelSamples bool

	// Coefficient positions used when reading effects out of predicted fold
	// changes. Unused positions are -1.
	interceptCol int
	// sampleCols[s] is the indicator column of sample s; -1 for the baseline
	// sample, whose effect is the intercept alone.
	sampleCols     []int
	ex1Col, ex2Col int
	condCol        int
	interCol       int
}

// buildDesign constructs the design matrix and contrast for the given
// condition and combined-table columns.
//
// With sample effects the design is an intercept, one indicator per
// non-baseline sample, and two appended indicators marking the exonic
// columns of level 1 and level 2; the contrast is their difference. Whether
// the interaction should instead be derived from a model without sample
// effects is debatable; this keeps the full-model readout.
//
// Without sample effects the design is intercept, exonic-region main
// effect, level-2 main effect and their interaction; the contrast selects
// the interaction alone.
func buildDesign(cond *Condition, cols []Column, modelSamples bool) (*Design, error) {
	m := len(cols)
	n := m / 2
	sampleIdx := make(map[string]int, n)
	var samples []string
	for _, c := range cols {
		if _, ok := sampleIdx[c.Sample]; !ok {
			sampleIdx[c.Sample] = len(samples)
			samples = append(samples, c.Sample)
		}
	}
	lv1, lv2 := cond.Levels[0], cond.Levels[1]

	d := &Design{
		ModelSamples: modelSamples,
		interceptCol: 0,
		ex1Col:       -1, ex2Col: -1,
		condCol: -1, interCol: -1,
	}
	var p int
	if modelSamples {
		// Duplicated sample identifiers collapse indicator columns and
		// cannot yield a full-rank sample-effects design.
		if len(samples) != n {
			return nil, errors.Wrapf(ErrDesignRank,
				"%d distinct sample identifiers for %d samples", len(samples), n)
		}
		p = n + 2
		d.X = mat.NewDense(m, p, nil)
		d.ColNames = make([]string, p)
		d.ColNames[0] = "(Intercept)"
		d.sampleCols = make([]int, n)
		d.sampleCols[0] = -1
		for s := 1; s < n; s++ {
			d.sampleCols[s] = s
			d.ColNames[s] = "sample" + samples[s]
		}
		d.ex1Col = n
		d.ex2Col = n + 1
		d.ColNames[n] = "ex." + lv1
		d.ColNames[n+1] = "ex." + lv2
		for i, c := range cols {
			d.X.Set(i, 0, 1)
			if s := sampleIdx[c.Sample]; s > 0 {
				d.X.Set(i, s, 1)
			}
			if c.Region == Exon {
				if c.Cond == lv1 {
					d.X.Set(i, d.ex1Col, 1)
				} else {
					d.X.Set(i, d.ex2Col, 1)
				}
			}
		}
		d.Contrast = make([]float64, p)
		d.Contrast[d.ex1Col] = -1
		d.Contrast[d.ex2Col] = 1
	} else {
		p = 4
		d.X = mat.NewDense(m, p, nil)
		d.ColNames = []string{"(Intercept)", "region.ex", "cond." + lv2, "region.ex:cond." + lv2}
		d.condCol = 2
		d.interCol = 3
		for i, c := range cols {
			d.X.Set(i, 0, 1)
			ex := c.Region == Exon
			tr := c.Cond == lv2
			if ex {
				d.X.Set(i, 1, 1)
			}
			if tr {
				d.X.Set(i, 2, 1)
			}
			if ex && tr {
				d.X.Set(i, 3, 1)
			}
		}
		d.Contrast = []float64{0, 0, 0, 1}
	}

	d.RowNames = make([]string, m)
	for i, c := range cols {
		d.RowNames[i] = c.Label()
	}

	if err := checkFullRank(d.X); err != nil {
		return nil, err
	}
	return d, nil
}

func checkFullRank(x *mat.Dense) error {
	m, p := x.Dims()
	if m < p {
		return errors.Wrapf(ErrDesignRank, "%d rows for %d coefficients", m, p)
	}
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return errors.Wrap(ErrDesignRank, "singular value decomposition failed")
	}
	sv := svd.Values(nil)
	if sv[len(sv)-1] <= sv[0]*1e-12 {
		return errors.Wrapf(ErrDesignRank, "%dx%d design has rank < %d", m, p, p)
	}
	return nil
}

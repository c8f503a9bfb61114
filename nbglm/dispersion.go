package nbglm

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	dispPriorDF = 10.0
	dispMin     = 1e-8
	dispMax     = 20.0
	dispTrim    = 0.25
)

// DispersionModel carries the counts, design, offsets and per-gene
// dispersion estimates for one data set.
type DispersionModel struct {
	// Counts is gene major; every row has one entry per design row.
	Counts  [][]float64
	Design  *mat.Dense
	Offsets []float64
	// Common is the trimmed central dispersion across genes.
	Common float64
	// Gene is the per-gene dispersion, shrunk toward Common.
	Gene []float64
}

// EstimateDispersion fits per-gene Poisson models and turns the residual
// variance excess into moment estimates of the negative-binomial
// dispersion, shrunk toward the trimmed common value with dispPriorDF prior
// degrees of freedom.
func EstimateDispersion(counts [][]float64, design *mat.Dense, offsets []float64) (*DispersionModel, error) {
	m, p := design.Dims()
	df := float64(m - p)
	if df <= 0 {
		return nil, errors.Errorf("no residual degrees of freedom: %d rows, %d coefficients", m, p)
	}
	raw := make([]float64, len(counts))
	for g, y := range counts {
		_, mu, _, err := irls(y, design, offsets, 0)
		if err != nil {
			return nil, errors.WithMessagef(err, "gene %d", g)
		}
		var num, den float64
		for j := range y {
			d := y[j] - mu[j]
			num += d*d - mu[j]
			den += mu[j] * mu[j]
		}
		phi := 0.0
		if den > 0 {
			phi = num / den * float64(m) / df
		}
		raw[g] = clampDisp(phi)
	}
	common := clampDisp(trimmedMean(raw, dispTrim))
	gene := make([]float64, len(raw))
	for g, phi := range raw {
		gene[g] = clampDisp((dispPriorDF*common + df*phi) / (dispPriorDF + df))
	}
	return &DispersionModel{
		Counts:  counts,
		Design:  design,
		Offsets: offsets,
		Common:  common,
		Gene:    gene,
	}, nil
}

func clampDisp(phi float64) float64 {
	if math.IsNaN(phi) || phi < dispMin {
		return dispMin
	}
	if phi > dispMax {
		return dispMax
	}
	return phi
}

// trimmedMean drops the given fraction of values from each tail before
// averaging.
func trimmedMean(v []float64, trim float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	drop := int(float64(len(s)) * trim)
	if 2*drop >= len(s) {
		drop = (len(s) - 1) / 2
	}
	s = s[drop : len(s)-drop]
	var sum float64
	for _, x := range s {
		sum += x
	}
	return sum / float64(len(s))
}

// Fit is the fitted negative-binomial model for every gene at the
// dispersions of a DispersionModel.
type Fit struct {
	dm *DispersionModel
	// Beta holds per-gene coefficients on the natural log scale.
	Beta [][]float64
	// Deviance is the per-gene deviance of the full model.
	Deviance []float64
	// ResidDF is the residual degrees of freedom of the full model.
	ResidDF float64
}

// FitGLM fits the per-gene GLMs at the estimated dispersions.
func FitGLM(dm *DispersionModel) (*Fit, error) {
	m, p := dm.Design.Dims()
	fit := &Fit{
		dm:       dm,
		Beta:     make([][]float64, len(dm.Counts)),
		Deviance: make([]float64, len(dm.Counts)),
		ResidDF:  float64(m - p),
	}
	for g, y := range dm.Counts {
		beta, _, dev, err := irls(y, dm.Design, dm.Offsets, dm.Gene[g])
		if err != nil {
			return nil, errors.WithMessagef(err, "gene %d", g)
		}
		fit.Beta[g] = beta
		fit.Deviance[g] = dev
	}
	return fit, nil
}

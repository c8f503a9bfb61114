package eisa

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bioc/eisa/nbglm"
)

// Fitter abstracts the negative-binomial fitting engine behind the pipeline:
// dispersion estimation, per-gene GLM fitting, contrast testing and
// predicted fold changes. The two provided implementations, nbglm.QL and
// nbglm.LR, differ only in the statistic TestContrast uses.
type Fitter interface {
	// EstimateDispersion estimates per-gene dispersions for the gene-major
	// counts under the design, with per-column log effective library sizes
	// as offsets.
	EstimateDispersion(counts [][]float64, design *mat.Dense, offsets []float64) (*nbglm.DispersionModel, error)
	// FitGLM fits the per-gene GLMs at the estimated dispersions.
	FitGLM(dm *nbglm.DispersionModel) (*nbglm.Fit, error)
	// TestContrast tests the linear combination of coefficients per gene.
	TestContrast(fit *nbglm.Fit, contrast []float64) (*nbglm.TestTable, error)
	// PredFC returns shrunken per-gene coefficient estimates on the log2
	// scale, one row per gene and one column per design coefficient.
	PredFC(dm *nbglm.DispersionModel, priorCount float64) ([][]float64, error)
}

// fitterFor returns the engine implementing the configured framework.
func fitterFor(f Framework) Fitter {
	if f == LRT {
		return nbglm.LR{}
	}
	return nbglm.QL{}
}

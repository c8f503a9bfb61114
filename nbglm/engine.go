package nbglm

import "gonum.org/v1/gonum/mat"

// QL bundles the fitting stages with a quasi-likelihood F contrast test.
type QL struct{}

// LR bundles the fitting stages with a likelihood-ratio chi-squared
// contrast test.
type LR struct{}

func (QL) EstimateDispersion(counts [][]float64, design *mat.Dense, offsets []float64) (*DispersionModel, error) {
	return EstimateDispersion(counts, design, offsets)
}

func (QL) FitGLM(dm *DispersionModel) (*Fit, error) { return FitGLM(dm) }

func (QL) TestContrast(fit *Fit, contrast []float64) (*TestTable, error) {
	return testContrast(fit, contrast, true)
}

func (QL) PredFC(dm *DispersionModel, priorCount float64) ([][]float64, error) {
	return PredFC(dm, priorCount)
}

func (LR) EstimateDispersion(counts [][]float64, design *mat.Dense, offsets []float64) (*DispersionModel, error) {
	return EstimateDispersion(counts, design, offsets)
}

func (LR) FitGLM(dm *DispersionModel) (*Fit, error) { return FitGLM(dm) }

func (LR) TestContrast(fit *Fit, contrast []float64) (*TestTable, error) {
	return testContrast(fit, contrast, false)
}

func (LR) PredFC(dm *DispersionModel, priorCount float64) ([][]float64, error) {
	return PredFC(dm, priorCount)
}

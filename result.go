package eisa

import "github.com/bioc/eisa/nbglm"

// Result is the immutable output of one analysis run.
type Result struct {
	// FracIn is the intronic fraction of each sample's total raw counts, in
	// input sample order.
	FracIn []float64
	// ContrastName is "<level2> vs <level1>".
	ContrastName string
	// Genes lists the retained gene identifiers, a subset of the input rows.
	Genes []string
	// Effects is the per-gene Dex, Din and Dex.Din table over Genes.
	Effects *EffectTable
	// Fit is the fitted model; nil when fitting was skipped for insufficient
	// replication.
	Fit *nbglm.Fit
	// Tests is the per-gene interaction test over Genes; empty when fitting
	// was skipped.
	Tests *nbglm.TestTable
	// Contrast is the tested coefficient combination; nil when fitting was
	// skipped.
	Contrast []float64
	// Design is the model matrix the run used.
	Design *Design
	// Norm is the normalization profile, post-filter recomputed if so
	// configured.
	Norm *NormProfile
	// Opts is the resolved option set of the run.
	Opts Opts
}

// fracIntronic computes the per-sample intronic fraction of total counts.
func fracIntronic(tbl *CombinedTable) []float64 {
	exIdx := tbl.RegionCols(Exon)
	inIdx := tbl.RegionCols(Intron)
	out := make([]float64, len(exIdx))
	for s := range exIdx {
		var ex, in float64
		for _, v := range tbl.Col(exIdx[s]) {
			ex += v
		}
		for _, v := range tbl.Col(inIdx[s]) {
			in += v
		}
		if ex+in > 0 {
			out[s] = in / (ex + in)
		}
	}
	return out
}

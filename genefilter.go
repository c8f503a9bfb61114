package eisa

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
)

// Gene selection constants. The Gaidatzis2015 strategy is defined with a
// pseudocount of 8 and a mean log cutoff of 5 regardless of the configured
// prior count.
const (
	gaidatzisPriorCount = 8.0
	gaidatzisMinMeanLog = 5.0

	// filterByExpr heuristic parameters.
	filterMinCount      = 10.0
	filterMinTotalCount = 15.0
	filterLargeN        = 10.0
	filterMinProp       = 0.7
)

// logRescaled returns a gene-major table of log2 values for the region half:
// each count is divided by its column total, multiplied by the half's mean
// column total, and shifted by the pseudocount. Columns are in sample order.
func logRescaled(tbl *CombinedTable, r Region, pscnt float64) [][]float64 {
	idx := tbl.RegionCols(r)
	n := len(idx)
	sums := make([]float64, n)
	var meanSum float64
	for j, ci := range idx {
		var s float64
		for _, v := range tbl.Col(ci) {
			s += v
		}
		sums[j] = s
		meanSum += s
	}
	meanSum /= float64(n)
	out := make([][]float64, tbl.NGenes())
	for g := range out {
		row := make([]float64, n)
		for j, ci := range idx {
			var v float64
			if sums[j] > 0 {
				v = tbl.Col(ci)[g] / sums[j] * meanSum
			}
			row[j] = math.Log2(v + pscnt)
		}
		out[g] = row
	}
	return out
}

// selectGenes decides the quantifiable gene set according to the configured
// strategy and returns the retained row indices in input order.
func selectGenes(tbl *CombinedTable, cond *Condition, opts Opts) []int {
	switch opts.GeneSelection {
	case SelectNone:
		keep := make([]int, tbl.NGenes())
		for g := range keep {
			keep[g] = g
		}
		return keep
	case SelectGaidatzis2015:
		return selectGaidatzis2015(tbl, opts.PriorCount)
	default:
		return selectFilterByExpr(tbl, cond)
	}
}

func selectGaidatzis2015(tbl *CombinedTable, pscnt float64) []int {
	if pscnt != gaidatzisPriorCount {
		log.Error.Printf("prior count %g differs from the fixed value %g used for gene selection",
			pscnt, gaidatzisPriorCount)
	}
	nlex := logRescaled(tbl, Exon, gaidatzisPriorCount)
	nlin := logRescaled(tbl, Intron, gaidatzisPriorCount)
	var keep []int
	for g := 0; g < tbl.NGenes(); g++ {
		if rowMean(nlex[g]) > gaidatzisMinMeanLog && rowMean(nlin[g]) > gaidatzisMinMeanLog {
			keep = append(keep, g)
		}
	}
	return keep
}

// selectFilterByExpr applies the usual expression filter to each half
// independently, respecting the condition groups, and keeps genes passing in
// both halves.
func selectFilterByExpr(tbl *CombinedTable, cond *Condition) []int {
	exPass := filterHalf(tbl.HalfColumns(Exon), cond)
	inPass := filterHalf(tbl.HalfColumns(Intron), cond)
	var keep []int
	for g := range exPass {
		if exPass[g] && inPass[g] {
			keep = append(keep, g)
		}
	}
	return keep
}

// filterHalf keeps genes whose count-per-million exceeds a cutoff derived
// from filterMinCount and the median library size in at least
// min-group-size samples, and whose total count reaches
// filterMinTotalCount.
func filterHalf(cols [][]float64, cond *Condition) []bool {
	libs := colSums(cols)
	med := median(libs)
	cpmCutoff := filterMinCount / med * 1e6
	minSamples := float64(cond.MinGroupSize())
	if minSamples > filterLargeN {
		minSamples = filterLargeN + (minSamples-filterLargeN)*filterMinProp
	}
	const tol = 1e-14
	nGenes := 0
	if len(cols) > 0 {
		nGenes = len(cols[0])
	}
	pass := make([]bool, nGenes)
	for g := 0; g < nGenes; g++ {
		nAbove := 0.0
		total := 0.0
		for j, col := range cols {
			total += col[g]
			if libs[j] > 0 && col[g]/libs[j]*1e6 >= cpmCutoff {
				nAbove++
			}
		}
		pass[g] = nAbove >= minSamples-tol && total >= filterMinTotalCount-tol
	}
	return pass
}

func rowMean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

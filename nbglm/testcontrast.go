package nbglm

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const qlPriorDF = 10.0

// TestTable is the per-gene contrast test, in the row order of the fitted
// counts.
type TestTable struct {
	// LogFC is the contrast value per gene on the log2 scale.
	LogFC []float64
	// PValue is the per-gene two-sided p-value of the contrast being zero.
	PValue []float64
	// FDR is the Benjamini-Hochberg adjusted p-value.
	FDR []float64
}

// Len returns the number of tested genes.
func (t *TestTable) Len() int { return len(t.PValue) }

// testContrast refits every gene under the constraint that the contrast is
// zero and compares deviances. With ql the likelihood-ratio statistic is
// scaled by a moderated quasi-dispersion and referred to an F distribution;
// otherwise it is referred to chi-squared with one degree of freedom.
func testContrast(fit *Fit, contrast []float64, ql bool) (*TestTable, error) {
	dm := fit.dm
	_, p := dm.Design.Dims()
	if len(contrast) != p {
		return nil, errors.Errorf("contrast has %d entries for %d coefficients", len(contrast), p)
	}
	reduced, err := reducedDesign(dm.Design, contrast)
	if err != nil {
		return nil, err
	}
	nGenes := len(dm.Counts)
	lrt := make([]float64, nGenes)
	tab := &TestTable{
		LogFC:  make([]float64, nGenes),
		PValue: make([]float64, nGenes),
	}
	for g, y := range dm.Counts {
		_, _, dev0, err := irls(y, reduced, dm.Offsets, dm.Gene[g])
		if err != nil {
			return nil, errors.WithMessagef(err, "gene %d", g)
		}
		stat := dev0 - fit.Deviance[g]
		if stat < 0 {
			stat = 0
		}
		lrt[g] = stat
		var fc float64
		for k, c := range contrast {
			fc += c * fit.Beta[g][k]
		}
		tab.LogFC[g] = fc / math.Ln2
	}
	if ql {
		s2 := make([]float64, nGenes)
		for g := range s2 {
			s2[g] = fit.Deviance[g] / fit.ResidDF
		}
		prior := median(s2)
		if prior < 1e-8 {
			prior = 1e-8
		}
		fdist := distuv.F{D1: 1, D2: fit.ResidDF + qlPriorDF}
		for g := range lrt {
			shrunk := (qlPriorDF*prior + fit.ResidDF*s2[g]) / (qlPriorDF + fit.ResidDF)
			tab.PValue[g] = fdist.Survival(lrt[g] / shrunk)
		}
	} else {
		chi2 := distuv.ChiSquared{K: 1}
		for g := range lrt {
			tab.PValue[g] = chi2.Survival(lrt[g])
		}
	}
	tab.FDR = bhAdjust(tab.PValue)
	return tab, nil
}

// reducedDesign returns a design whose column space is the full design's
// restricted to coefficient vectors whose contrast value is zero. The
// restriction basis is the complement of the contrast direction, obtained
// from a Householder reflection carrying the first unit vector onto the
// normalized contrast.
func reducedDesign(design *mat.Dense, contrast []float64) (*mat.Dense, error) {
	p := len(contrast)
	nrm := 0.0
	for _, c := range contrast {
		nrm += c * c
	}
	nrm = math.Sqrt(nrm)
	if nrm == 0 {
		return nil, errors.New("zero contrast vector")
	}
	u := make([]float64, p)
	var unrm float64
	for k, c := range contrast {
		u[k] = c / nrm
		if k == 0 {
			u[k] -= 1
		}
		unrm += u[k] * u[k]
	}
	h := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			v := 0.0
			if i == j {
				v = 1
			}
			if unrm > 0 {
				v -= 2 * u[i] * u[j] / unrm
			}
			h.Set(i, j, v)
		}
	}
	// Drop the first column of the reflection: it is the contrast direction,
	// the rest span its complement.
	basis := h.Slice(0, p, 1, p)
	m, _ := design.Dims()
	reduced := mat.NewDense(m, p-1, nil)
	reduced.Mul(design, basis)
	return reduced, nil
}

// bhAdjust returns Benjamini-Hochberg adjusted p-values.
func bhAdjust(pv []float64) []float64 {
	n := len(pv)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return pv[order[i]] < pv[order[j]] })
	adj := make([]float64, n)
	minSoFar := 1.0
	for r := n - 1; r >= 0; r-- {
		i := order[r]
		q := pv[i] * float64(n) / float64(r+1)
		if q < minSoFar {
			minSoFar = q
		}
		adj[i] = minSoFar
	}
	return adj
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

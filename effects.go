package eisa

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// EffectTable holds the per-gene exonic, intronic and exon-versus-intron
// log2 fold changes, level 2 versus level 1.
type EffectTable struct {
	Genes  []string
	Dex    []float64
	Din    []float64
	DexDin []float64
}

// gaidatzisEffects derives the fold changes from the normalized log tables:
// Dex and Din are the differences of condition-level means of NLex and NLin,
// Dex.Din is exactly their difference.
func gaidatzisEffects(genes []string, nlex, nlin [][]float64, cond *Condition) *EffectTable {
	lv1 := cond.LevelIndices(cond.Levels[0])
	lv2 := cond.LevelIndices(cond.Levels[1])
	t := newEffectTable(genes)
	for g := range genes {
		dex := meanAt(nlex[g], lv2) - meanAt(nlex[g], lv1)
		din := meanAt(nlin[g], lv2) - meanAt(nlin[g], lv1)
		t.Dex[g] = dex
		t.Din[g] = din
		t.DexDin[g] = dex - din
	}
	return t
}

// predFCEffects reads the fold changes out of the predicted coefficient
// matrix (gene x design column, log2 scale).
//
// With sample effects, Din is the difference of condition-level means of the
// per-sample baselines (intercept plus sample coefficient; the intercept
// cancels), Dex.Din is the difference of the two appended exonic
// coefficients, and Dex = Din + Dex.Din. Without sample effects Din and
// Dex.Din sit at the condition and interaction coefficients.
func predFCEffects(genes []string, pfc [][]float64, d *Design, cond *Condition) (*EffectTable, error) {
	lv1 := cond.LevelIndices(cond.Levels[0])
	lv2 := cond.LevelIndices(cond.Levels[1])
	t := newEffectTable(genes)
	for g := range genes {
		row := pfc[g]
		if len(row) != len(d.ColNames) {
			return nil, errors.Errorf("predicted matrix has %d coefficients, design has %d", len(row), len(d.ColNames))
		}
		var din, dexdin float64
		if d.ModelSamples {
			base := make([]float64, len(d.sampleCols))
			for s, c := range d.sampleCols {
				base[s] = row[d.interceptCol]
				if c >= 0 {
					base[s] += row[c]
				}
			}
			din = meanAt(base, lv2) - meanAt(base, lv1)
			dexdin = row[d.ex2Col] - row[d.ex1Col]
		} else {
			din = row[d.condCol]
			dexdin = row[d.interCol]
		}
		t.Din[g] = din
		t.DexDin[g] = dexdin
		t.Dex[g] = din + dexdin
	}
	return t, nil
}

func newEffectTable(genes []string) *EffectTable {
	return &EffectTable{
		Genes:  genes,
		Dex:    make([]float64, len(genes)),
		Din:    make([]float64, len(genes)),
		DexDin: make([]float64, len(genes)),
	}
}

func meanAt(v []float64, idx []int) float64 {
	vals := make([]float64, len(idx))
	for j, i := range idx {
		vals[j] = v[i]
	}
	return stat.Mean(vals, nil)
}

package eisa

import (
	"math"

	"github.com/biogo/rnaseq/norm"
	"github.com/pkg/errors"
)

// TMM trim parameters, following Robinson and Oshlack (2010).
const (
	tmmLogRatioTrim = 0.3
	tmmSumTrim      = 0.05
	tmmACutoff      = -1e10
)

// BasisStats holds the per-column library sizes and TMM normalization
// factors of one basis. Both vectors run over all 2n combined-table columns.
type BasisStats struct {
	LibSize    []float64
	NormFactor []float64
}

// NormProfile carries the three alternative normalization bases of the
// combined table. The exon and intron bases are computed once per sample
// from the corresponding half and replicated across both halves; the
// individual basis treats every column independently.
type NormProfile struct {
	Exon       BasisStats
	Intron     BasisStats
	Individual BasisStats
}

// Basis returns the stats of the requested basis.
func (p *NormProfile) Basis(b SizeFactorBasis) BasisStats {
	switch b {
	case BasisExon:
		return p.Exon
	case BasisIntron:
		return p.Intron
	default:
		return p.Individual
	}
}

// Offsets returns the per-column log effective library size of the basis,
// used as GLM offsets.
func (p *NormProfile) Offsets(b SizeFactorBasis) []float64 {
	s := p.Basis(b)
	out := make([]float64, len(s.LibSize))
	for i := range out {
		out[i] = math.Log(s.LibSize[i] * s.NormFactor[i])
	}
	return out
}

func computeNormProfile(tbl *CombinedTable) (*NormProfile, error) {
	p := &NormProfile{}
	if err := p.Recompute(tbl, true, true); err != nil {
		return nil, err
	}
	return p, nil
}

// Recompute recalculates normalization factors and/or library sizes from
// tbl, overwriting the stored values. Calling it again with a gene-filtered
// table is the post-filter recomputation step.
func (p *NormProfile) Recompute(tbl *CombinedTable, factors, libSizes bool) error {
	if !factors && !libSizes {
		return nil
	}
	for _, half := range []struct {
		r   Region
		dst *BasisStats
	}{{Exon, &p.Exon}, {Intron, &p.Intron}} {
		cols := tbl.HalfColumns(half.r)
		if factors {
			fac, err := tmmFactors(cols)
			if err != nil {
				return errors.WithMessagef(err, "%s basis", half.r)
			}
			half.dst.NormFactor = replicateHalves(fac)
		}
		if libSizes {
			half.dst.LibSize = replicateHalves(colSums(cols))
		}
	}
	cols := tbl.AllColumns()
	if factors {
		fac, err := tmmFactors(cols)
		if err != nil {
			return errors.WithMessage(err, "individual basis")
		}
		p.Individual.NormFactor = fac
	}
	if libSizes {
		p.Individual.LibSize = colSums(cols)
	}
	return nil
}

// tmmFactors computes weighted TMM normalization factors against an
// automatically chosen reference column. The factors multiply to unity in
// log space.
func tmmFactors(cols [][]float64) ([]float64, error) {
	fac, err := norm.TMM(cols, -1, tmmLogRatioTrim, tmmSumTrim, tmmACutoff, true)
	if err != nil {
		return nil, errors.Wrapf(ErrNormalization, "tmm: %v", err)
	}
	for i, f := range fac {
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return nil, errors.Wrapf(ErrNormalization, "column %d factor %v", i, f)
		}
	}
	return fac, nil
}

// replicateHalves duplicates a per-sample vector across the exon and intron
// halves of the combined column order.
func replicateHalves(v []float64) []float64 {
	out := make([]float64, 2*len(v))
	copy(out, v)
	copy(out[len(v):], v)
	return out
}

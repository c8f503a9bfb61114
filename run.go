package eisa

import (
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/bioc/eisa/nbglm"
)

// countSetKeys are the recognized exonic/intronic key pairs of a combined
// input set.
var countSetKeys = [][2]string{
	{"exon", "intron"},
	{"ex", "in"},
	{"spliced", "unspliced"},
}

// RunSet runs the analysis on a keyed set of matrices carrying the exonic
// and intronic counts under one of the recognized key pairs.
func RunSet(set map[string]*CountMatrix, cond []string, opts Opts) (*Result, error) {
	for _, k := range countSetKeys {
		ex, okEx := set[k[0]]
		in, okIn := set[k[1]]
		if okEx && okIn {
			return Run(ex, in, cond, opts)
		}
	}
	return nil, errors.Wrapf(ErrShape, "no recognized exonic/intronic key pair among %d entries", len(set))
}

// Run performs one exon-intron split analysis of the exonic and intronic
// count matrices under the two-level condition, and returns the assembled
// result. Inputs are treated as immutable snapshots; repeated runs with
// identical inputs produce identical results.
func Run(exonic, intronic *CountMatrix, cond []string, opts Opts) (*Result, error) {
	ropts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	cv, err := NewCondition(cond)
	if err != nil {
		return nil, err
	}
	tbl, err := Combine(exonic, intronic, cv)
	if err != nil {
		return nil, err
	}
	log.Printf("validated %d genes x %d samples, contrast %s vs %s",
		tbl.NGenes(), tbl.NSamples(), cv.Levels[1], cv.Levels[0])
	fracIn := fracIntronic(tbl)

	prof, err := computeNormProfile(tbl)
	if err != nil {
		return nil, err
	}
	des, err := buildDesign(cv, tbl.Cols, ropts.ModelSamples)
	if err != nil {
		return nil, err
	}

	keep := selectGenes(tbl, cv, ropts)
	if len(keep) == 0 {
		return nil, errors.Wrapf(ErrEmptySelection, "selection %q", ropts.GeneSelection)
	}
	log.Printf("using %d of %d genes (%.1f%%)",
		len(keep), tbl.NGenes(), 100*float64(len(keep))/float64(tbl.NGenes()))
	sub := tbl.Subset(keep)
	if ropts.RecalcNormFactAfterFilt || ropts.RecalcLibSizeAfterFilt {
		if err := prof.Recompute(sub, ropts.RecalcNormFactAfterFilt, ropts.RecalcLibSizeAfterFilt); err != nil {
			return nil, err
		}
	}
	nlex := logRescaled(sub, Exon, ropts.PriorCount)
	nlin := logRescaled(sub, Intron, ropts.PriorCount)

	res := &Result{
		FracIn:       fracIn,
		ContrastName: cv.Levels[1] + " vs " + cv.Levels[0],
		Genes:        sub.Genes,
		Tests:        &nbglm.TestTable{},
		Design:       des,
		Norm:         prof,
		Opts:         ropts,
	}

	fitter := fitterFor(ropts.StatFramework)
	var dm *nbglm.DispersionModel
	if cv.MinGroupSize() < 2 {
		log.Error.Printf("fewer than two replicates in a condition level; skipping model fitting")
	} else {
		log.Printf("fitting %s models for %d genes", ropts.StatFramework, len(sub.Genes))
		dm, err = fitter.EstimateDispersion(sub.GeneRows(), des.X, prof.Offsets(ropts.SizeFactor))
		if err != nil {
			return nil, err
		}
		fit, err := fitter.FitGLM(dm)
		if err != nil {
			return nil, err
		}
		tests, err := fitter.TestContrast(fit, des.Contrast)
		if err != nil {
			return nil, err
		}
		res.Fit = fit
		res.Tests = tests
		res.Contrast = des.Contrast
	}

	log.Printf("calculating fold changes (%s)", ropts.Effects)
	switch ropts.Effects {
	case EffectsGaidatzis2015:
		res.Effects = gaidatzisEffects(sub.Genes, nlex, nlin, cv)
	default: // EffectsPredFC
		if dm == nil {
			return nil, errors.Wrap(ErrMissingFit,
				"insufficient replication; use the Gaidatzis2015 effect formula")
		}
		pfc, err := fitter.PredFC(dm, ropts.PriorCount)
		if err != nil {
			return nil, err
		}
		res.Effects, err = predFCEffects(sub.Genes, pfc, des, cv)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

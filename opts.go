package eisa

import (
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Method names a preset that fixes every other option.
type Method string

const (
	// MethodDefault leaves the individually supplied options in force.
	MethodDefault Method = ""
	// MethodGaidatzis2015 reproduces the analysis of Gaidatzis et al. 2015.
	MethodGaidatzis2015 Method = "Gaidatzis2015"
)

// GeneSelection selects the strategy that decides which genes are
// quantifiable.
type GeneSelection string

const (
	SelectFilterByExpr  GeneSelection = "filterByExpr"
	SelectNone          GeneSelection = "none"
	SelectGaidatzis2015 GeneSelection = "Gaidatzis2015"
)

// Framework selects the test statistic of the fitting engine.
type Framework string

const (
	// QLF tests with a quasi-likelihood F statistic.
	QLF Framework = "QLF"
	// LRT tests with a likelihood-ratio chi-squared statistic.
	LRT Framework = "LRT"
)

// EffectMethod selects the fold-change formula.
type EffectMethod string

const (
	// EffectsPredFC reads effects off the fitted model's predicted fold
	// changes.
	EffectsPredFC EffectMethod = "predFC"
	// EffectsGaidatzis2015 computes effects from the normalized log tables.
	EffectsGaidatzis2015 EffectMethod = "Gaidatzis2015"
)

// SizeFactorBasis selects the active normalization basis.
type SizeFactorBasis string

const (
	BasisExon       SizeFactorBasis = "exon"
	BasisIntron     SizeFactorBasis = "intron"
	BasisIndividual SizeFactorBasis = "individual"
)

// Opts configures one analysis run.
type Opts struct {
	// Method, when set, overrides every other option with the preset's
	// fixed values.
	Method Method
	// ModelSamples conditions out per-sample effects shared between the
	// exonic and intronic counts of a sample.
	ModelSamples bool
	// GeneSelection picks the quantifiable-gene strategy.
	GeneSelection GeneSelection
	// StatFramework picks the interaction test statistic.
	StatFramework Framework
	// Effects picks the fold-change formula.
	Effects EffectMethod
	// PriorCount is the pseudocount added before log transforms.
	PriorCount float64
	// SizeFactor picks the normalization basis used for fitting offsets and
	// reported magnitudes.
	SizeFactor SizeFactorBasis
	// RecalcNormFactAfterFilt recomputes normalization factors on the
	// filtered table.
	RecalcNormFactAfterFilt bool
	// RecalcLibSizeAfterFilt recomputes library sizes on the filtered table.
	RecalcLibSizeAfterFilt bool
}

// DefaultOpts is the default configuration.
var DefaultOpts = Opts{
	ModelSamples:            true,
	GeneSelection:           SelectFilterByExpr,
	StatFramework:           QLF,
	Effects:                 EffectsPredFC,
	PriorCount:              2,
	SizeFactor:              BasisIndividual,
	RecalcNormFactAfterFilt: true,
	RecalcLibSizeAfterFilt:  true,
}

// gaidatzis2015Opts is the full option set fixed by MethodGaidatzis2015.
var gaidatzis2015Opts = Opts{
	Method:                  MethodGaidatzis2015,
	ModelSamples:            false,
	GeneSelection:           SelectGaidatzis2015,
	StatFramework:           LRT,
	Effects:                 EffectsGaidatzis2015,
	PriorCount:              8,
	SizeFactor:              BasisIndividual,
	RecalcNormFactAfterFilt: false,
	RecalcLibSizeAfterFilt:  false,
}

// resolve applies the preset precedence rule: a named method replaces the
// supplied options wholesale. Without a preset, every enumerated value is
// validated against its domain.
func (o Opts) resolve() (Opts, error) {
	switch o.Method {
	case MethodGaidatzis2015:
		log.Printf("method %q overrides the individually supplied options", o.Method)
		return gaidatzis2015Opts, nil
	case MethodDefault:
	default:
		return o, errors.Wrapf(ErrInvalidPolicy, "method %q", o.Method)
	}
	switch o.GeneSelection {
	case SelectFilterByExpr, SelectNone, SelectGaidatzis2015:
	default:
		return o, errors.Wrapf(ErrInvalidPolicy, "geneSelection %q", o.GeneSelection)
	}
	switch o.StatFramework {
	case QLF, LRT:
	default:
		return o, errors.Wrapf(ErrInvalidPolicy, "statFramework %q", o.StatFramework)
	}
	switch o.Effects {
	case EffectsPredFC, EffectsGaidatzis2015:
	default:
		return o, errors.Wrapf(ErrInvalidPolicy, "effects %q", o.Effects)
	}
	switch o.SizeFactor {
	case BasisExon, BasisIntron, BasisIndividual:
	default:
		return o, errors.Wrapf(ErrInvalidPolicy, "sizeFactor %q", o.SizeFactor)
	}
	if !(o.PriorCount > 0) {
		return o, errors.Wrapf(ErrInvalidPolicy, "pscnt %v must be positive", o.PriorCount)
	}
	return o, nil
}

// Package nbglm fits per-gene negative-binomial generalized linear models
// for count tables, with a log link and per-column offsets.
//
// The entry points mirror the stages of a differential analysis: dispersion
// estimation (EstimateDispersion), model fitting at fixed dispersions
// (FitGLM), contrast testing (TestContrast) and shrunken predicted fold
// changes (PredFC). QL and LR bundle the stages behind a common interface
// and differ in the contrast test: QL uses a quasi-likelihood F statistic,
// LR a likelihood-ratio chi-squared statistic.
package nbglm

package eisa

import "github.com/pkg/errors"

// Sentinel errors returned by the pipeline. Callers match them with
// errors.Is; the returned errors carry additional context on top.
var (
	// ErrShape indicates that the exonic and intronic matrices do not have
	// the same dimensions, or that a count matrix is malformed.
	ErrShape = errors.New("exonic and intronic count matrices differ in shape")
	// ErrIdentifierMismatch indicates that both matrices carry identifiers
	// but they disagree.
	ErrIdentifierMismatch = errors.New("exonic and intronic identifiers differ")
	// ErrConditionCardinality indicates a condition vector without exactly
	// two distinct levels, or of the wrong length.
	ErrConditionCardinality = errors.New("condition must assign one of exactly two levels to every sample")
	// ErrInvalidPolicy indicates an option value outside its allowed domain.
	ErrInvalidPolicy = errors.New("option value outside its allowed domain")
	// ErrDesignRank indicates a design matrix that is not of full column
	// rank.
	ErrDesignRank = errors.New("design matrix is not of full column rank")
	// ErrNormalization indicates that normalization factors could not be
	// computed, typically because of an all-zero column.
	ErrNormalization = errors.New("normalization factors could not be computed")
	// ErrEmptySelection indicates that no gene survived gene selection.
	ErrEmptySelection = errors.New("no genes retained by gene selection")
	// ErrMissingFit indicates that predFC effects were requested but no
	// fitted model exists, e.g. because fitting was skipped for insufficient
	// replication.
	ErrMissingFit = errors.New("no fitted model available for predFC effects")
)

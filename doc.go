// Package eisa implements exon-intron split analysis (EISA) of gene-level
// RNA-seq read counts.
//
// EISA compares changes in exonic (mature mRNA) and intronic (pre-mRNA)
// counts between two conditions to separate transcriptional from
// post-transcriptional regulation. A change in intronic signal reflects a
// change in transcription; a change in exonic signal beyond what the
// intronic change predicts is the post-transcriptional component.
//
// Run takes an exonic and an intronic count matrix with identical gene and
// sample identifiers plus a two-level condition, and produces per-gene
// exonic, intronic and exon-versus-intron log2 fold changes (Dex, Din,
// Dex.Din) together with a negative-binomial interaction test. The
// statistical engine lives in the nbglm subpackage behind the Fitter
// interface.
//
// See Gaidatzis et al., Nature Biotechnology 33, 722-729 (2015).
package eisa

package eisa

import (
	"strconv"

	"github.com/pkg/errors"
)

// Region tags a column of the combined count table as exonic or intronic.
type Region uint8

const (
	Exon Region = iota
	Intron
)

func (r Region) String() string {
	if r == Exon {
		return "ex"
	}
	return "in"
}

// CountMatrix is a gene x sample matrix of read counts.
type CountMatrix struct {
	Genes   []string
	Samples []string
	// Counts is row major: Counts[gene][sample].
	Counts [][]float64
}

// NewCountMatrix wraps counts with the given identifiers. Missing (nil)
// identifiers are synthesized as 1-based sequential strings, so a validated
// matrix always carries them.
func NewCountMatrix(counts [][]float64, genes, samples []string) (*CountMatrix, error) {
	nGenes := len(counts)
	nSamples := 0
	if nGenes > 0 {
		nSamples = len(counts[0])
	}
	for g, row := range counts {
		if len(row) != nSamples {
			return nil, errors.Wrapf(ErrShape, "row %d has %d entries, want %d", g, len(row), nSamples)
		}
	}
	if genes == nil {
		genes = seqIDs(nGenes)
	}
	if samples == nil {
		samples = seqIDs(nSamples)
	}
	if len(genes) != nGenes || len(samples) != nSamples {
		return nil, errors.Wrapf(ErrShape, "identifiers %dx%d do not match counts %dx%d",
			len(genes), len(samples), nGenes, nSamples)
	}
	return &CountMatrix{Genes: genes, Samples: samples, Counts: counts}, nil
}

func seqIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return ids
}

// Condition is a two-level grouping of the samples. Levels are ordered as
// first observed in the labels; the analysis contrast is level 2 versus
// level 1.
type Condition struct {
	Labels []string
	Levels [2]string
}

// NewCondition validates labels as a two-level condition.
func NewCondition(labels []string) (*Condition, error) {
	var levels []string
	for _, l := range labels {
		seen := false
		for _, v := range levels {
			if v == l {
				seen = true
				break
			}
		}
		if !seen {
			levels = append(levels, l)
		}
	}
	if len(levels) != 2 {
		return nil, errors.Wrapf(ErrConditionCardinality, "%d distinct levels", len(levels))
	}
	return &Condition{Labels: labels, Levels: [2]string{levels[0], levels[1]}}, nil
}

// LevelIndices returns the sample indices belonging to the given level.
func (c *Condition) LevelIndices(level string) []int {
	var idx []int
	for i, l := range c.Labels {
		if l == level {
			idx = append(idx, i)
		}
	}
	return idx
}

// MinGroupSize returns the size of the smaller of the two level groups.
func (c *Condition) MinGroupSize() int {
	n1 := len(c.LevelIndices(c.Levels[0]))
	n2 := len(c.LevelIndices(c.Levels[1]))
	if n1 < n2 {
		return n1
	}
	return n2
}

// Column tags one column of the combined table. Columns carry their sample,
// region and condition explicitly so that nothing downstream has to rely on
// positional half-table slicing.
type Column struct {
	Sample string
	Region Region
	Cond   string
}

// Label returns the column label, "<sample>.<region>".
func (c Column) Label() string { return c.Sample + "." + c.Region.String() }

// CombinedTable is the gene x (2 x samples) count table: the exonic columns
// in input sample order followed by the intronic columns in the same order.
// All normalization, filtering and model fitting operate on this table.
type CombinedTable struct {
	Genes []string
	Cols  []Column
	// data is column major: data[col][gene].
	data [][]float64
}

// Combine validates the exonic and intronic matrices against each other and
// the condition, and concatenates them into a tagged combined table.
func Combine(exonic, intronic *CountMatrix, cond *Condition) (*CombinedTable, error) {
	if len(exonic.Genes) != len(intronic.Genes) || len(exonic.Samples) != len(intronic.Samples) {
		return nil, errors.Wrapf(ErrShape, "exonic %dx%d, intronic %dx%d",
			len(exonic.Genes), len(exonic.Samples), len(intronic.Genes), len(intronic.Samples))
	}
	for i, g := range exonic.Genes {
		if intronic.Genes[i] != g {
			return nil, errors.Wrapf(ErrIdentifierMismatch, "gene %d: %q vs %q", i, g, intronic.Genes[i])
		}
	}
	for i, s := range exonic.Samples {
		if intronic.Samples[i] != s {
			return nil, errors.Wrapf(ErrIdentifierMismatch, "sample %d: %q vs %q", i, s, intronic.Samples[i])
		}
	}
	nSamples := len(exonic.Samples)
	if len(cond.Labels) != nSamples {
		return nil, errors.Wrapf(ErrConditionCardinality, "%d labels for %d samples", len(cond.Labels), nSamples)
	}
	nGenes := len(exonic.Genes)
	tbl := &CombinedTable{
		Genes: append([]string(nil), exonic.Genes...),
		Cols:  make([]Column, 0, 2*nSamples),
		data:  make([][]float64, 0, 2*nSamples),
	}
	for _, src := range []struct {
		m *CountMatrix
		r Region
	}{{exonic, Exon}, {intronic, Intron}} {
		for s := 0; s < nSamples; s++ {
			col := make([]float64, nGenes)
			for g := 0; g < nGenes; g++ {
				col[g] = src.m.Counts[g][s]
			}
			tbl.Cols = append(tbl.Cols, Column{Sample: src.m.Samples[s], Region: src.r, Cond: cond.Labels[s]})
			tbl.data = append(tbl.data, col)
		}
	}
	return tbl, nil
}

// NGenes returns the number of gene rows.
func (t *CombinedTable) NGenes() int { return len(t.Genes) }

// NSamples returns the number of samples (half the column count).
func (t *CombinedTable) NSamples() int { return len(t.Cols) / 2 }

// Col returns the counts of column i.
func (t *CombinedTable) Col(i int) []float64 { return t.data[i] }

// Labels returns the column labels in order.
func (t *CombinedTable) Labels() []string {
	out := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		out[i] = c.Label()
	}
	return out
}

// RegionCols returns the indices of the columns tagged with r, in sample
// order.
func (t *CombinedTable) RegionCols(r Region) []int {
	var idx []int
	for i, c := range t.Cols {
		if c.Region == r {
			idx = append(idx, i)
		}
	}
	return idx
}

// HalfColumns returns the column vectors of the region half, in sample
// order.
func (t *CombinedTable) HalfColumns(r Region) [][]float64 {
	idx := t.RegionCols(r)
	out := make([][]float64, len(idx))
	for j, i := range idx {
		out[j] = t.data[i]
	}
	return out
}

// AllColumns returns every column vector of the table.
func (t *CombinedTable) AllColumns() [][]float64 {
	return append([][]float64(nil), t.data...)
}

// GeneRows returns the counts in gene-major order across all columns, in
// column order, as consumed by the fitting engine.
func (t *CombinedTable) GeneRows() [][]float64 {
	rows := make([][]float64, t.NGenes())
	for g := range rows {
		row := make([]float64, len(t.Cols))
		for i := range t.Cols {
			row[i] = t.data[i][g]
		}
		rows[g] = row
	}
	return rows
}

// Subset returns a new table restricted to the gene rows in keep, preserving
// order.
func (t *CombinedTable) Subset(keep []int) *CombinedTable {
	genes := make([]string, len(keep))
	for j, g := range keep {
		genes[j] = t.Genes[g]
	}
	data := make([][]float64, len(t.data))
	for i, col := range t.data {
		sub := make([]float64, len(keep))
		for j, g := range keep {
			sub[j] = col[g]
		}
		data[i] = sub
	}
	return &CombinedTable{Genes: genes, Cols: append([]Column(nil), t.Cols...), data: data}
}

func colSums(cols [][]float64) []float64 {
	sums := make([]float64, len(cols))
	for i, col := range cols {
		var s float64
		for _, v := range col {
			s += v
		}
		sums[i] = s
	}
	return sums
}

package main

//
// bio-eisa runs an exon-intron split analysis from two TSV count tables.
//
// Example:
//
//    bio-eisa -exon exon_counts.tsv -intron intron_counts.tsv \
//        -cond ctrl,ctrl,treat,treat -output eisa.tsv
//
// The count tables have a header line (gene column first, then one column
// per sample) and one row per gene. Both tables must carry the same genes
// and samples in the same order.

import (
	"bufio"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"

	"github.com/bioc/eisa"
)

// Collection of options set via cmdline flags.
type eisaFlags struct {
	exonPath          string
	intronPath        string
	cond              string
	outputPath        string
	method            string
	modelSamples      bool
	geneSelection     string
	statFramework     string
	effects           string
	priorCount        float64
	sizeFactor        string
	recalcNormFactors bool
	recalcLibSizes    bool
}

func readCountTSV(path string) (*eisa.CountMatrix, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close() // nolint: errcheck
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var samples []string
	var genes []string
	var counts [][]float64
	first := true
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if first {
			samples = fields[1:]
			first = false
			continue
		}
		row := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		genes = append(genes, fields[0])
		counts = append(counts, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return eisa.NewCountMatrix(counts, genes, samples)
}

func writeResult(w io.Writer, res *eisa.Result) error {
	out := tsv.NewWriter(w)
	out.WriteString("gene\tDex\tDin\tDex.Din\tlogFC\tPValue\tFDR")
	if err := out.EndLine(); err != nil {
		return err
	}
	tested := res.Tests.Len() == len(res.Genes)
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
	for g, gene := range res.Genes {
		out.WriteString(gene)
		out.WriteString(ff(res.Effects.Dex[g]))
		out.WriteString(ff(res.Effects.Din[g]))
		out.WriteString(ff(res.Effects.DexDin[g]))
		if tested {
			out.WriteString(ff(res.Tests.LogFC[g]))
			out.WriteString(ff(res.Tests.PValue[g]))
			out.WriteString(ff(res.Tests.FDR[g]))
		} else {
			out.WriteString("NA")
			out.WriteString("NA")
			out.WriteString("NA")
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

func main() {
	d := eisa.DefaultOpts
	flags := eisaFlags{}
	flag.StringVar(&flags.exonPath, "exon", "", "TSV table of exonic gene-level counts")
	flag.StringVar(&flags.intronPath, "intron", "", "TSV table of intronic gene-level counts")
	flag.StringVar(&flags.cond, "cond", "", "Comma-separated condition label per sample (two levels)")
	flag.StringVar(&flags.outputPath, "output", "", "Output TSV path; stdout if empty")
	flag.StringVar(&flags.method, "method", string(d.Method), "Analysis preset; overrides the other options when set")
	flag.BoolVar(&flags.modelSamples, "model-samples", d.ModelSamples, "Condition out per-sample effects")
	flag.StringVar(&flags.geneSelection, "gene-selection", string(d.GeneSelection), "Quantifiable-gene strategy: filterByExpr, none or Gaidatzis2015")
	flag.StringVar(&flags.statFramework, "stat-framework", string(d.StatFramework), "Test statistic: QLF or LRT")
	flag.StringVar(&flags.effects, "effects", string(d.Effects), "Fold-change formula: predFC or Gaidatzis2015")
	flag.Float64Var(&flags.priorCount, "pscnt", d.PriorCount, "Pseudocount for log transforms")
	flag.StringVar(&flags.sizeFactor, "size-factor", string(d.SizeFactor), "Normalization basis: exon, intron or individual")
	flag.BoolVar(&flags.recalcNormFactors, "recalc-norm-factors", d.RecalcNormFactAfterFilt, "Recompute normalization factors after gene filtering")
	flag.BoolVar(&flags.recalcLibSizes, "recalc-lib-sizes", d.RecalcLibSizeAfterFilt, "Recompute library sizes after gene filtering")
	flag.Parse()
	if flags.exonPath == "" || flags.intronPath == "" || flags.cond == "" {
		log.Panic("-exon, -intron and -cond are required")
	}

	exon, err := readCountTSV(flags.exonPath)
	if err != nil {
		log.Panic(err)
	}
	intron, err := readCountTSV(flags.intronPath)
	if err != nil {
		log.Panic(err)
	}
	log.Printf("Read %d genes x %d samples from %s, %s",
		len(exon.Genes), len(exon.Samples), flags.exonPath, flags.intronPath)

	opts := eisa.Opts{
		Method:                  eisa.Method(flags.method),
		ModelSamples:            flags.modelSamples,
		GeneSelection:           eisa.GeneSelection(flags.geneSelection),
		StatFramework:           eisa.Framework(flags.statFramework),
		Effects:                 eisa.EffectMethod(flags.effects),
		PriorCount:              flags.priorCount,
		SizeFactor:              eisa.SizeFactorBasis(flags.sizeFactor),
		RecalcNormFactAfterFilt: flags.recalcNormFactors,
		RecalcLibSizeAfterFilt:  flags.recalcLibSizes,
	}
	res, err := eisa.Run(exon, intron, strings.Split(flags.cond, ","), opts)
	if err != nil {
		log.Panic(err)
	}

	w, dst := os.Stdout, "stdout"
	if flags.outputPath != "" {
		dst = flags.outputPath
		f, err := os.Create(flags.outputPath)
		if err != nil {
			log.Panic(err)
		}
		defer f.Close() // nolint: errcheck
		w = f
	}
	if err := writeResult(w, res); err != nil {
		log.Panic(err)
	}
	log.Printf("Wrote %d genes (%s) to %s", len(res.Genes), res.ContrastName, dst)
}

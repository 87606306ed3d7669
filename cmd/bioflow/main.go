// Command bioflow provides a CLI for pairwise and multiple sequence alignment.
//
// Usage:
//
//	bioflow [command] [options]
//
// Commands:
//
//	align       Align two sequences
//	matrix      Print the DP matrix of two sequences
//	dotplot     Print the residue identity grid of two sequences
//	msa         Progressive multiple alignment of a FASTA file
//	stats       Calculate sequence or alignment statistics
//	version     Show version information
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/config"
	"github.com/aria-lang/bioflow-msa/internal/msa"
	"github.com/aria-lang/bioflow-msa/internal/seqio"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/aria-lang/bioflow-msa/internal/stats"
	"github.com/aria-lang/bioflow-msa/pkg/bioflow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "matrix":
		matrixCmd(os.Args[2:])
	case "dotplot":
		dotplotCmd(os.Args[2:])
	case "msa":
		msaCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "version":
		fmt.Println(bioflow.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`BioFlow - Sequence Alignment Tool

Usage:
  bioflow <command> [options]

Commands:
  align     Align two sequences
  matrix    Print the DP matrix of two sequences
  dotplot   Print the residue identity grid of two sequences
  msa       Progressive multiple alignment of a FASTA file
  stats     Calculate sequence or alignment statistics
  version   Show version information
  help      Show this help message

Use "bioflow <command> -h" for more information about a command.`)
}

// pairInput reads the two operands of a pairwise command, from -seq1/-seq2
// or from the first two records of -file.
func pairInput(file, seq1, seq2 string, alpha sequence.Alphabet) (*sequence.Record, *sequence.Record) {
	if file != "" {
		records, err := seqio.ReadFASTA(file, alpha)
		if err != nil {
			fail("reading file: %v", err)
		}
		if len(records) < 2 {
			fail("%s holds %d record(s), need 2", file, len(records))
		}
		return records[0].Ungapped(), records[1].Ungapped()
	}

	if seq1 == "" || seq2 == "" {
		fail("either -file or both -seq1 and -seq2 are required")
	}
	a, err := sequence.WithAlphabet("seq1", seq1, alpha)
	if err != nil {
		fail("sequence 1: %v", err)
	}
	b, err := sequence.WithAlphabet("seq2", seq2, alpha)
	if err != nil {
		fail("sequence 2: %v", err)
	}
	return a, b
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file; its first two records are aligned")
	seq1 := fs.String("seq1", "", "First sequence")
	seq2 := fs.String("seq2", "", "Second sequence")
	global := fs.Bool("global", false, "Use global alignment (Needleman-Wunsch); same as -mode global")
	core := fs.Bool("core", false, "Local mode: print only the matched region")
	defaults := pairwiseDefaults()
	sf := addScoringFlags(fs, defaults)
	fs.Parse(args)

	run, err := sf.resolve(fs, defaults)
	if err != nil {
		fail("%v", err)
	}
	if *global {
		run.mode = alignment.Global
	}

	a, b := pairInput(*file, *seq1, *seq2, run.alpha)

	al, err := alignment.NewAligner(a, b, run.scoring)
	if err != nil {
		fail("aligning sequences: %v", err)
	}
	var g *alignment.Group
	if run.mode == alignment.Global {
		if err = al.FillGlobal(); err == nil {
			g, err = al.TracebackGlobal()
		}
	} else {
		if err = al.FillLocal(); err == nil {
			g, err = al.TracebackLocal(!*core)
		}
	}
	if err != nil {
		fail("aligning sequences: %v", err)
	}

	p, err := alignment.NewPairwise(g)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(p.Format())
}

func matrixCmd(args []string) {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file; its first two records are used")
	seq1 := fs.String("seq1", "", "First sequence (matrix columns)")
	seq2 := fs.String("seq2", "", "Second sequence (matrix rows)")
	defaults := pairwiseDefaults()
	sf := addScoringFlags(fs, defaults)
	fs.Parse(args)

	run, err := sf.resolve(fs, defaults)
	if err != nil {
		fail("%v", err)
	}

	a, b := pairInput(*file, *seq1, *seq2, run.alpha)

	m, best, cell, err := bioflow.FillMatrix(a, b, run.mode, run.scoring)
	if err != nil {
		fail("filling matrix: %v", err)
	}

	fmt.Printf("%s matrix, %s\n\n", run.mode, run.scoring)
	fmt.Print(m.Render(a.Residues, b.Residues))
	fmt.Printf("\nBest score: %d at %s\n", best, cell)
}

func dotplotCmd(args []string) {
	fs := flag.NewFlagSet("dotplot", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file; its first two records are used")
	seq1 := fs.String("seq1", "", "First sequence (rows)")
	seq2 := fs.String("seq2", "", "Second sequence (columns)")
	alphaName := fs.String("alphabet", "protein", "Residue alphabet: protein, dna or rna")
	fs.Parse(args)

	alpha, err := sequence.ParseAlphabet(*alphaName)
	if err != nil {
		fail("%v", err)
	}

	a, b := pairInput(*file, *seq1, *seq2, alpha)
	fmt.Print(bioflow.DotPlot(a, b))
}

func msaCmd(args []string) {
	fs := flag.NewFlagSet("msa", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file with the sequences to align")
	out := fs.String("out", "", "Write the alignment as FASTA to this file instead of stdout")
	showPairs := fs.Bool("pairs", false, "Print the pair similarity table to stderr")
	verbose := fs.Bool("v", false, "Log every merge")
	defaults := config.Default()
	sf := addScoringFlags(fs, defaults)
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	run, err := sf.resolve(fs, defaults)
	if err != nil {
		fail("%v", err)
	}

	records, err := seqio.ReadFASTA(*file, run.alpha)
	if err != nil {
		fail("reading file: %v", err)
	}
	for i, r := range records {
		if r.HasGaps() {
			records[i] = r.Ungapped()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := msa.Align(ctx, records, msa.Options{
		Mode:    run.mode,
		Scoring: run.scoring,
		Workers: run.cfg.Workers,
		Logger:  newLogger(*verbose),
	})
	if err != nil {
		fail("aligning: %v", err)
	}

	if *showPairs {
		fmt.Fprint(os.Stderr, res.SimilarityTable())
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fail("creating output: %v", err)
		}
		defer f.Close()
		w = f
	}
	if err := seqio.WriteFASTA(w, res.Members()); err != nil {
		fail("writing alignment: %v", err)
	}
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file to analyze")
	aligned := fs.Bool("aligned", false, "Treat the file as an alignment and summarize its columns")
	bins := fs.Int("bins", 10, "Length histogram bins")
	perRecord := fs.Bool("records", false, "Print per-record composition")
	alphaName := fs.String("alphabet", "protein", "Residue alphabet: protein, dna or rna")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	alpha, err := sequence.ParseAlphabet(*alphaName)
	if err != nil {
		fail("%v", err)
	}
	records, err := seqio.ReadFASTA(*file, alpha)
	if err != nil {
		fail("reading file: %v", err)
	}

	if *perRecord {
		for _, r := range records {
			fmt.Println(stats.FromRecord(r))
		}
		fmt.Println()
	}

	if *aligned {
		g, err := alignment.NewGroup(records...)
		if err != nil {
			fail("%v", err)
		}
		summary, err := stats.FromGroup(g)
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(summary)
		return
	}

	set, err := stats.FromRecords(records)
	if err != nil {
		fail("calculating statistics: %v", err)
	}

	fmt.Println("Sequence Set Statistics")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Number of sequences: %d\n", set.Count)
	fmt.Printf("Total residues: %d\n", set.TotalResidues)
	fmt.Printf("Length range: %d - %d\n", set.MinLength, set.MaxLength)
	fmt.Printf("Mean length: %.1f\n", set.MeanLength)
	fmt.Printf("Median length: %d\n", set.MedianLength)
	fmt.Printf("N50: %d\n", set.N50)

	hist, err := stats.NewLengthHistogram(records, *bins)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println()
	fmt.Print(hist)
}

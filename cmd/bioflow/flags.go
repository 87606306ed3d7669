package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/config"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
)

// scoringFlags binds the run configuration flags shared by the alignment
// commands. Values come from the defaults, then -config, then any flag set
// explicitly on the command line.
type scoringFlags struct {
	config       *string
	mode         *string
	match        *int
	mismatch     *int
	gap          *int
	substitution *string
	workers      *int
	alphabet     *string
}

func addScoringFlags(fs *flag.FlagSet, defaults *config.Config) *scoringFlags {
	return &scoringFlags{
		config:       fs.String("config", "", "YAML run configuration"),
		mode:         fs.String("mode", defaults.Mode, "Alignment mode: global or local"),
		match:        fs.Int("match", defaults.Match, "Match score"),
		mismatch:     fs.Int("mismatch", defaults.Mismatch, "Mismatch score"),
		gap:          fs.Int("gap", defaults.Gap, "Linear gap score"),
		substitution: fs.String("substitution", defaults.Substitution, "Substitution model for gap-free columns: none or blosum62"),
		workers:      fs.Int("workers", defaults.Workers, "Goroutines scoring pairs"),
		alphabet:     fs.String("alphabet", "protein", "Residue alphabet: protein, dna or rna"),
	}
}

// settings is a resolved run configuration with its scoring built.
type settings struct {
	cfg     *config.Config
	mode    alignment.Mode
	scoring *alignment.Scoring
	alpha   sequence.Alphabet
}

func (sf *scoringFlags) resolve(fs *flag.FlagSet, defaults *config.Config) (*settings, error) {
	cfg := *defaults
	if *sf.config != "" {
		loaded, err := config.Load(*sf.config)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *sf.mode
		case "match":
			cfg.Match = *sf.match
		case "mismatch":
			cfg.Mismatch = *sf.mismatch
		case "gap":
			cfg.Gap = *sf.gap
		case "substitution":
			cfg.Substitution = *sf.substitution
		case "workers":
			cfg.Workers = *sf.workers
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := cfg.AlignMode()
	if err != nil {
		return nil, err
	}
	scoring, err := cfg.Scoring()
	if err != nil {
		return nil, err
	}
	alpha, err := sequence.ParseAlphabet(*sf.alphabet)
	if err != nil {
		return nil, err
	}
	return &settings{cfg: &cfg, mode: mode, scoring: scoring, alpha: alpha}, nil
}

// pairwiseDefaults is the nucleotide scheme of the pairwise commands.
func pairwiseDefaults() *config.Config {
	return &config.Config{
		Mode:         "local",
		Match:        2,
		Mismatch:     -1,
		Gap:          -2,
		Substitution: "none",
		Workers:      1,
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

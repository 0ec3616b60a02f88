package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"time"

	"github.com/coregx/tokmatch"
	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/matcher"
	"github.com/coregx/tokmatch/tokens"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	rules    string
	docs     string
	attr     string
	strategy string
	workers  int
	timeout  time.Duration
	json     bool
	verbose  bool
}

// hit is one printed match.
type hit struct {
	Doc   int    `json:"doc"`
	Key   string `json:"key"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "tokmatch --rules FILE [--docs FILE]",
		Short:         "tokmatch - rule-based token matching",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return run(ctx, logger, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.rules, "rules", "r", "", "YAML rule file")
	f.StringVarP(&opts.docs, "docs", "d", "-", "YAML document file, - for stdin")
	f.StringVar(&opts.attr, "attr", "ORTH", "Token attribute phrases are matched on")
	f.StringVar(&opts.strategy, "strategy", "auto", "NFA executor: auto, backtrack or pikevm")
	f.IntVarP(&opts.workers, "workers", "w", matcher.DefaultConfig().Workers, "Parallel scan workers")
	f.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Overall timeout")
	f.BoolVar(&opts.json, "json", false, "Print matches as JSON lines")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (o options) config(logger *zap.Logger) (matcher.Config, error) {
	cfg := matcher.DefaultConfig()
	cfg.Logger = logger
	cfg.Workers = o.workers

	s, err := matcher.ParseStrategy(o.strategy)
	if err != nil {
		return cfg, err
	}
	cfg.Strategy = s

	id, err := attr.Parse(o.attr)
	if err != nil {
		return cfg, err
	}
	cfg.PhraseAttr = id
	return cfg, cfg.Validate()
}

func run(ctx context.Context, logger *zap.Logger, opts options, stdin io.Reader, out io.Writer) error {
	cfg, err := opts.config(logger)
	if err != nil {
		return err
	}

	rules, err := os.Open(opts.rules)
	if err != nil {
		return err
	}
	defer rules.Close()

	v := tokmatch.NewVocab()
	m, pm, err := tokmatch.CompileWithConfig(v, rules, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.rules, err)
	}

	in := stdin
	if opts.docs != "-" {
		f, err := os.Open(opts.docs)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	docs, err := tokens.LoadDocs(v, in)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.docs, err)
	}
	logger.Info("loaded",
		zap.Int("patterns", m.Len()),
		zap.Int("phrases", pm.Len()),
		zap.Int("docs", len(docs)))

	hits := make([][]hit, len(docs))
	collect := func(results iter.Seq2[matcher.Result, error]) error {
		for r, err := range results {
			if err != nil {
				return err
			}
			doc := docs[r.Index]
			for _, mt := range r.Matches {
				hits[r.Index] = append(hits[r.Index], hit{
					Doc:   r.Index,
					Key:   tokmatch.KeyOf(v, mt),
					Start: mt.Start,
					End:   mt.End,
					Text:  doc.SpanText(mt.Start, mt.End),
				})
			}
		}
		return nil
	}
	if m.Len() > 0 {
		if err := collect(m.ScanMany(ctx, sequences(docs))); err != nil {
			return err
		}
	}
	if pm.Len() > 0 {
		if err := collect(pm.ScanMany(ctx, sequences(docs))); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	for _, hs := range hits {
		slices.SortStableFunc(hs, func(a, b hit) int {
			if a.Start != b.Start {
				return a.Start - b.Start
			}
			return a.End - b.End
		})
		for _, h := range hs {
			if opts.json {
				if err := enc.Encode(h); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(out, "%d\t%s\t%d\t%d\t%s\n", h.Doc, h.Key, h.Start, h.End, h.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

func sequences(docs []*tokens.Doc) iter.Seq[attr.Sequence] {
	return func(yield func(attr.Sequence) bool) {
		for _, d := range docs {
			if !yield(d) {
				return
			}
		}
	}
}

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/HendryAvila/dossier/internal/catalog"
	"github.com/HendryAvila/dossier/internal/config"
	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/profile"
	"github.com/HendryAvila/dossier/internal/simulate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

func simulateCmd(configPath *string) *cobra.Command {
	var opts simulate.Options

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Grade random runs and summarize the outcomes",
		Long: "Answers every question with a random ranking, grades the run with the\n" +
			"configured engine settings and prints how the outcomes distribute.\n" +
			"Useful after changing catalog weights or clearance thresholds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				opts.Seed = cfg.Seed
			}

			eng, err := newEngine(cfg)
			if err != nil {
				return err
			}
			sum, err := simulate.Run(cmd.Context(), eng, opts)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), eng, sum)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Runs, "runs", 1000, "number of runs to grade")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "concurrent graders")
	return cmd
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	content, err := narrative.DefaultContent()
	if err != nil {
		return nil, err
	}
	blends, err := profile.DefaultBlends()
	if err != nil {
		return nil, err
	}
	return engine.New(cat, content, blends, cfg.EngineConfig()), nil
}

func printSummary(w io.Writer, eng *engine.Engine, sum simulate.Summary) {
	cat := eng.Catalog()
	fmt.Fprintf(w, "%s %s runs, %s hybrid\n\n",
		bold("Simulated"), cyan(sum.Runs), green(percent(sum.Hybrids, sum.Runs)))

	fmt.Fprintln(w, bold("Leading category"))
	for _, k := range byCount(sum.Leaders) {
		name := k
		if k != "none" {
			name = cat.CategoryName(k)
		}
		fmt.Fprintf(w, "  %-22s %6d  %s\n", name, sum.Leaders[k], gray(percent(sum.Leaders[k], sum.Runs)))
	}

	fmt.Fprintln(w, bold("\nClearance"))
	for _, tier := range profile.Ladder {
		fmt.Fprintf(w, "  %-22s %6d  %s\n", tier, sum.Tiers[tier], gray(percent(sum.Tiers[tier], sum.Runs)))
	}

	fmt.Fprintln(w, bold("\nMethod of operation"))
	for _, k := range byCount(sum.Patterns) {
		fmt.Fprintf(w, "  %-22s %6d  %s\n", k, sum.Patterns[k], gray(percent(sum.Patterns[k], sum.Runs)))
	}
}

// byCount orders keys by descending count, then name.
func byCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

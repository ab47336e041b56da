package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs and source folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			sources, _ := cmd.Flags().GetBool("sources")
			return a.runHistory(cmd, limit, sources)
		},
	}
	cmd.Flags().IntP("limit", "n", 10, "Number of entries to show")
	cmd.Flags().Bool("sources", false, "List recently used source folders instead of runs")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, limit int, sources bool) error {
	if a.cfg.Paths.HistoryDB == "" {
		return fmt.Errorf("history disabled: paths.history_db is empty")
	}
	store := a.history()
	if store == nil {
		return fmt.Errorf("history unavailable: %s", a.cfg.Paths.HistoryDB)
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if sources {
		paths, err := store.RecentSources(limit)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return json.NewEncoder(out).Encode(paths)
		}
		for _, p := range paths {
			_, _ = fmt.Fprintln(out, p)
		}
		return nil
	}

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if a.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "%-4s  %-16s  %-5s  %-6s  %-7s  %6s  %6s  %6s  %s\n",
		"ID", "WHEN", "CMD", "MODE", "RUN", "LINKED", "ALREADY", "ERRORS", "SOURCE")
	for _, r := range runs {
		run := "commit"
		if r.DryRun {
			run = "dry-run"
		}
		_, _ = fmt.Fprintf(out, "%-4d  %-16s  %-5s  %-6s  %-7s  %6d  %6d  %6d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Command, r.Mode, run,
			r.Stats.Linked, r.Stats.Already, r.Stats.Errors, r.Src)
	}
	return nil
}

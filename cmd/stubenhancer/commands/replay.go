package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stub-enhancer/predictor/internal/logging"
	"github.com/stub-enhancer/predictor/internal/replay"
)

// #region replay-command

func (a *app) replayCommand() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "replay <fixture.json> [--tolerance T]",
		Short: "Replays a fixture through the model that would be served and reports drift.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			f, err := replay.LoadFixture(args[0])
			if err != nil {
				return err
			}

			store, err := a.openExistingStore()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}
			p, err := a.loadPredictor(store)
			if err != nil {
				return err
			}

			tol := f.Tolerance
			if cmd.Flags().Changed("tolerance") {
				tol = tolerance
			}
			if f.ModelVersion != "" && f.ModelVersion != p.Version() {
				fmt.Fprintf(out, "fixture recorded against %s, replaying on %s\n", f.ModelVersion, p.Version())
			}

			results := replay.Replay(p, f.Interactions, tol)
			s := replay.Summarize(results)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"ID", "Action", "Reason"})
			for _, r := range results {
				if r.Action != "match" {
					t.AppendRow(table.Row{r.ID, r.Action, r.Reason})
				}
			}
			if t.Length() > 0 {
				t.SetStyle(table.StyleRounded)
				t.Render()
			}

			fmt.Fprintf(out, "%s: %d interactions, %d match, %d mismatch, max deviation %.6g\n",
				f.Description, s.Total, s.Matches, s.Mismatches, s.MaxDeviation)
			if s.Mismatches > 0 {
				return fmt.Errorf("replay: %d mismatches", s.Mismatches)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "override the fixture's output tolerance")
	return cmd
}

// #endregion replay-command

// #region export-command

func (a *app) exportFixtureCommand() *cobra.Command {
	var (
		last    int
		outPath string
		outcome string
	)

	cmd := &cobra.Command{
		Use:   "export-fixture --out <fixture.json> [--last N]",
		Short: "Exports recent logged predictions as a replay fixture.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}

			store, err := a.openExistingStore()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("no model store at %s", a.cfg.DBPath)
			}
			defer store.Close()

			entries, err := logging.ListPredictions(store.DB(), last, outcome)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no logged predictions in %s", a.cfg.DBPath)
			}

			f := replay.FromPredictions(entries, a.cfg.ReplayTolerance)
			if err := replay.WriteFixture(f, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d interactions to %s\n", len(f.Interactions), outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&last, "last", 50, "number of most recent predictions to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output fixture path")
	cmd.Flags().StringVar(&outcome, "outcome", "", "only export this outcome (predicted or rejected)")
	return cmd
}

// #endregion export-command

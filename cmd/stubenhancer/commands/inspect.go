package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stub-enhancer/predictor/internal/logging"
	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/modelstore"
	"github.com/stub-enhancer/predictor/internal/report"
)

func (a *app) inspectCommand() *cobra.Command {
	var (
		limit       int
		weights     bool
		predictions int
	)

	cmd := &cobra.Command{
		Use:   "inspect [--limit N] [--weights] [--predictions N]",
		Short: "Lists stored model versions, weight statistics, and recent predictions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store, err := a.openExistingStore()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				if err := printVersions(out, store, limit); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "no model store at %s\n", a.cfg.DBPath)
			}

			if weights {
				m, err := a.loadModel(store)
				if err != nil {
					return err
				}
				printWeights(out, m)
			}

			if predictions > 0 && store != nil {
				entries, err := logging.ListPredictions(store.DB(), predictions, "")
				if err != nil {
					return err
				}
				printPredictions(out, entries)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of versions to list")
	cmd.Flags().BoolVar(&weights, "weights", false, "summarize the weights of the model that would be served")
	cmd.Flags().IntVar(&predictions, "predictions", 0, "show the last N logged predictions")
	return cmd
}

func printVersions(w io.Writer, store *modelstore.Store, limit int) error {
	recs, err := store.ListVersions(limit)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Version ID", "Model", "Checksum", "Created"})
	for _, r := range recs {
		mark := ""
		if r.Active {
			mark = "*"
		}
		sum := r.Checksum
		if len(sum) > 12 {
			sum = sum[:12]
		}
		t.AppendRow(table.Row{mark, r.VersionID, r.ModelVersion, sum, humanize.Time(r.CreatedAt)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func printWeights(w io.Writer, m *model.Model) {
	fmt.Fprintf(w, "%s (%s)\n", m.Version, m.Topology.Sizes)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Layer", "Weights", "Mean", "StdDev", "Min", "Max", "Bias mean", "Bias max |b|"})
	for _, s := range m.Params.Summarize(m.Topology) {
		t.AppendRow(table.Row{
			s.Layer, s.Weights,
			fmt.Sprintf("%.4f", s.Mean), fmt.Sprintf("%.4f", s.StdDev),
			fmt.Sprintf("%.4f", s.Min), fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.BiasMean), fmt.Sprintf("%.4f", s.BiasMaxAbs),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printPredictions(w io.Writer, entries []logging.PredictionEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"When", "Model", "Credential", "Field", "Years", "Result"})
	for _, e := range entries {
		result := e.Reason
		if e.Output != nil {
			result = report.Currency(*e.Output)
		}
		t.AppendRow(table.Row{humanize.Time(e.CreatedAt), e.ModelVersion, e.Credential, e.Field, e.Years, result})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stub-enhancer/predictor/internal/codec"
	"github.com/stub-enhancer/predictor/internal/predict"
	"github.com/stub-enhancer/predictor/internal/report"
	"github.com/stub-enhancer/predictor/internal/visual"
)

func (a *app) predictCommand() *cobra.Command {
	var (
		sel      predict.Selection
		remote   string
		graph    bool
		elements bool
	)

	cmd := &cobra.Command{
		Use:   "predict --credential <label> --field <field> --years <1-5>",
		Short: "Predicts the average salary for one credential, field, and years of experience.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if remote != "" {
				if graph || elements {
					return fmt.Errorf("--graph and --elements need a local model")
				}
				if !sel.Ready() {
					fmt.Fprintln(out, predict.PromptText)
					return nil
				}
				years, err := strconv.Atoi(sel.Years)
				if err != nil {
					return fmt.Errorf("years: %w", err)
				}
				client, err := codec.NewClient(remote)
				if err != nil {
					return err
				}
				defer client.Close()
				res, err := client.Predict(cmd.Context(), codec.PredictRequest{
					Credential: sel.Credential, Field: sel.Field, Years: years,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, res.Sentence)
				return nil
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

			outcome, err := p.PredictSelection(sel)
			if err != nil {
				return err
			}
			if !outcome.Ready {
				fmt.Fprintln(out, outcome.Prompt)
				return nil
			}

			ex := outcome.Explanation
			fmt.Fprintln(out, report.Sentence(outcome.Input, ex.Output()))
			if graph {
				fmt.Fprintf(out, "credential input: %s\n", ex.CredentialNode())
				fmt.Fprint(out, report.LayerTable(ex.Result.Annotate(p.Model().Topology)))
			}
			if elements {
				data, err := visual.JSON(visual.Elements(p.Model().Topology, ex.Result, &visual.Marker{
					Slot:       ex.CredentialSlot,
					Credential: outcome.Input.Credential,
				}))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.Credential, "credential", predict.CredentialPlaceholder, "credential label, e.g. \"Master's degree\"")
	cmd.Flags().StringVar(&sel.Field, "field", predict.FieldPlaceholder, "field of study")
	cmd.Flags().StringVar(&sel.Years, "years", predict.YearsPlaceholder, "years after graduation (1-5)")
	cmd.Flags().StringVar(&remote, "remote", "", "predict through a stubenhancer server at this address")
	cmd.Flags().BoolVar(&graph, "graph", false, "print every node value by layer")
	cmd.Flags().BoolVar(&elements, "elements", false, "print the network visualization elements as JSON")
	return cmd
}

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/config"
	"github.com/stub-enhancer/predictor/internal/eval"
	"github.com/stub-enhancer/predictor/internal/gate"
	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/modelstore"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region promotion

// promotion is the outcome of importing one artifact.
type promotion struct {
	Record    modelstore.ModelRecord
	Eval      eval.EvalResult
	Gate      gate.GateDecision
	Duplicate bool
	Activated bool
}

var errRejected = errors.New("artifact rejected")

// promote runs artifact → eval → gate → store → activate. force skips the eval and gate
// verdicts but still records them.
func promote(store *modelstore.Store, art *model.Artifact, cfg *config.Config, activate, force bool) (promotion, error) {
	var pr promotion

	m, err := art.Build()
	if err != nil {
		return pr, err
	}
	candidate, err := predict.New(m, predict.WithCacheSize(cfg.CacheSize))
	if err != nil {
		return pr, err
	}

	// 1. Eval
	pr.Eval, err = eval.NewEvalHarness(cfg.Eval).Run(candidate)
	if err != nil {
		return pr, err
	}
	if !pr.Eval.Passed && !force {
		return pr, fmt.Errorf("%w: eval: %s", errRejected, pr.Eval.Reason)
	}

	// 2. Gate against the active version
	var current *predict.Predictor
	active, err := store.GetActive()
	switch {
	case err == nil:
		cm, err := active.Model()
		if err != nil {
			return pr, fmt.Errorf("active version %s: %w", active.VersionID, err)
		}
		if current, err = predict.New(cm, predict.WithCacheSize(cfg.CacheSize)); err != nil {
			return pr, err
		}
	case !errors.Is(err, modelstore.ErrNoActiveModel):
		return pr, err
	}

	pr.Gate, err = gate.NewGate(cfg.Gate).Evaluate(current, candidate)
	if err != nil {
		return pr, err
	}
	if pr.Gate.Action == "reject" && !force {
		return pr, fmt.Errorf("%w: gate: %s", errRejected, pr.Gate.Reason)
	}

	// 3. Store, reusing an identical earlier import
	sum := m.Checksum
	rec, found, err := store.FindByChecksum(sum)
	if err != nil {
		return pr, err
	}
	if found {
		pr.Duplicate = true
	} else {
		evalJSON, err := json.Marshal(pr.Eval)
		if err != nil {
			return pr, fmt.Errorf("marshal eval: %w", err)
		}
		if rec, err = store.Import(art, string(evalJSON)); err != nil {
			return pr, err
		}
	}
	pr.Record = rec

	// 4. Activate
	if activate {
		if err := store.Activate(rec.VersionID); err != nil {
			return pr, err
		}
		pr.Activated = true
		pr.Record.Active = true
		klog.Infof("activated %s (%s)", rec.VersionID, rec.ModelVersion)
	}
	return pr, nil
}

// #endregion promotion

// #region import-command

func (a *app) importCommand() *cobra.Command {
	var dense, force, noActivate bool

	cmd := &cobra.Command{
		Use:   "import <artifact.json> [--dense] [--force] [--no-activate]",
		Short: "Evaluates an artifact, gates it against the active model, stores it, and activates it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := readArtifact(args[0], dense)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pr, err := promote(store, art, a.cfg, !noActivate, force)
			printPromotion(cmd.OutOrStdout(), pr)
			return err
		},
	}

	cmd.Flags().BoolVar(&dense, "dense", false, "input is a per-layer kernel/bias export")
	cmd.Flags().BoolVar(&force, "force", false, "store and activate even if eval or the gate rejects")
	cmd.Flags().BoolVar(&noActivate, "no-activate", false, "store without moving the active pointer")
	return cmd
}

func readArtifact(path string, dense bool) (*model.Artifact, error) {
	if !dense {
		return model.LoadFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dense export %s: %w", path, err)
	}
	var d model.DenseExport
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse dense export %s: %w", path, err)
	}
	return d.ToArtifact()
}

func printPromotion(w io.Writer, pr promotion) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Check", "Value", "Pass"})
	for _, m := range pr.Eval.Metrics {
		t.AppendRow(table.Row{m.Name, fmt.Sprintf("%.4f", m.Value), m.Pass})
	}
	if pr.Gate.Action != "" {
		t.AppendRow(table.Row{"gate", pr.Gate.Reason, pr.Gate.Action == "commit"})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	switch {
	case pr.Record.VersionID == "":
		fmt.Fprintln(w, "not stored")
	case pr.Duplicate:
		fmt.Fprintf(w, "already stored as %s\n", pr.Record.VersionID)
	default:
		fmt.Fprintf(w, "stored %s as %s\n", pr.Record.ModelVersion, pr.Record.VersionID)
	}
	if pr.Activated {
		fmt.Fprintf(w, "active: %s\n", pr.Record.VersionID)
	}
}

// #endregion import-command

// #region activate-command

func (a *app) activateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <version-id>",
		Short: "Points the active model at a stored version; activating an older version rolls back.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Activate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active: %s\n", args[0])
			return nil
		},
	}
}

// #endregion activate-command

package commands

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/config"
)

// app carries state shared by every subcommand once the root has loaded config.
type app struct {
	configPath string
	dbPath     string
	cfg        *config.Config
}

// NewRootCommand builds the stubenhancer command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "stubenhancer",
		Short:         "stubenhancer predicts Alberta graduate salaries from a dense network.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.dbPath != "" {
				cfg.DBPath = a.dbPath
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "model store database (overrides config and STUB_DB)")

	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	root.PersistentFlags().AddGoFlagSet(fs)

	root.AddCommand(
		a.predictCommand(),
		a.serveCommand(),
		a.importCommand(),
		a.activateCommand(),
		a.inspectCommand(),
		a.replayCommand(),
		a.exportFixtureCommand(),
	)
	return root
}

// ExecuteContext runs the CLI and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	defer klog.Flush()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

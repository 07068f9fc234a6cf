package commands

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [--addr host:port]",
		Short: "Serves predictions over gRPC until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := a.loadPredictor(store)
			if err != nil {
				return err
			}

			var opts []server.Option
			if a.cfg.LogPredictions {
				opts = append(opts, server.WithPredictionLog(store.DB()))
			}

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = server.New(p, opts...).Serve(ctx, lis)
			klog.Info("server stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config listen_addr)")
	return cmd
}

package cmd

import (
	"context"
	"errors"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/inbound/stdio"
	"github.com/Sentinel-Gate/admitgate/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve evaluation as an MCP tool over stdio",
	Long: `Run an MCP server on stdin/stdout exposing a single tool, evaluate_admission.

The tool input schema is generated from the active policy. Each call is one
independent evaluation. Logs go to stderr; stdout carries only JSON-RPC.

Example MCP client configuration:
  {"command": "admit-gate", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), gracefulSignals()...)
		defer stop()

		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(context.Background()); cerr != nil && err == nil {
				err = cerr
			}
		}()

		if configFile := config.ConfigFileUsed(); configFile != "" {
			a.logger.Info("loaded config", "file", configFile)
		}
		a.logger.Info("admit-gate serving on stdio", "policy", a.service.Catalog().Name(), "version", Version)

		srv := stdio.NewServer(a.service, a.decoder, a.logger, Version)
		if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		a.logger.Info("admit-gate stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

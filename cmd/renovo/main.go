package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/renovo/internal/config"
	"github.com/vbonduro/renovo/internal/web"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "renovo",
		Short:        "Manage renovation project before photos",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigratePhotosCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := web.NewServer(a.service, a.photoStg, a.logger)
			if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
				a.logger.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/freeresearch/internal/app"
	"github.com/hyperifyio/freeresearch/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	cmd.Flags().String("addr", "", "listen address, e.g. :8080")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	srv, err := web.New(a, web.Info{
		Version:        app.BuildVersion,
		Provider:       a.ProviderName(),
		Strategy:       a.StrategyName(),
		GoogleKeySet:   cfg.GoogleAPIKey != "",
		LLMKeySet:      cfg.LLMAPIKey != "",
		RespectsRobots: cfg.RespectRobots,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, a.Config().Addr)
}

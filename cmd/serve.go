package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/victornm/drawboard/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC server",
		Long:  "Run the board server. The config file is read from --config, or from CONFIG_PATH when the flag is empty.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if err := setupLogger(c.Log.Level); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
			defer stop()

			return serve(ctx, c)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	return cmd
}

func serve(ctx context.Context, c server.Config) error {
	s, err := server.Init(c)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	go s.Start()

	<-ctx.Done()
	s.Shutdown()
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/victornm/drawboard/internal/config"
	"github.com/victornm/drawboard/internal/server"
	"github.com/victornm/drawboard/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "drawboard",
		Short:        "Lucky draw, lottery and quiz boards for live events",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newDrawCmd())
	return root
}

func loadConfig(path string) (server.Config, error) {
	c := server.Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if err := config.Load(path, &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}

func setupLogger(level string) error {
	l, err := telemetry.NewLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	slog.SetDefault(l)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/goalpost/internal"
	pkgconfig "github.com/starford/goalpost/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, err := internal.RunExport(ctx, cmd.String("dir"), internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("export error: %w", err)
	}
	slog.Info("goals exported", slog.Int("count", n), slog.String("dir", cmd.String("dir")))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "goalpost",
		Usage:  "SMART goal tracker with lifecycle rules, readiness scoring and metric analytics",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve the goal tools over MCP stdio",
				Action: runMCP,
			},
			{
				Name:   "export",
				Usage:  "Write every live goal as a fixture file",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory",
						Value: "./export",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

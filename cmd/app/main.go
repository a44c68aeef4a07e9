package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sikabut/internal"
	pkgconfig "github.com/starford/sikabut/pkg/config"
)

func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if optional {
		if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(cmd.String("config")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func lookup(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithFileNumber(cmd.String("file-number")),
		internal.WithRelayURL(cmd.String("relay-url")),
		internal.WithLogFile(cmd.String("log-file")),
	}
	if cmd.Bool("no-history") {
		opts = append(opts, internal.WithoutHistory())
	}

	return internal.RunLookup(ctx, opts...)
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "sikabut",
		Usage:  "Land-registry file status lookup: relay server, terminal UI and MCP tools",
		Action: serve,
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
				Name:   "serve",
				Usage:  "Run the lookup relay HTTP server",
				Action: serve,
			},
			{
				Name:   "lookup",
				Usage:  "Look up a file number in the terminal",
				Action: lookup,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file-number",
						Aliases: []string{"n"},
						Usage:   "Print the result for this file number and exit",
					},
					&cli.StringFlag{
						Name:    "relay-url",
						Usage:   "Relay endpoint, overrides portal.relay_url",
						Sources: cli.EnvVars("SIKABUT_RELAY_URL"),
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not read or record recent searches",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "Write logs to this file instead of discarding them",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve lookup tools to MCP clients over stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

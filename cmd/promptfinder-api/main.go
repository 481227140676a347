package main

import (
	"context"
	"os"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/cmd"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/config"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/log"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "promptfinder-api",
		Usage:                 "Serve saved form presets per workflow and user",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Preset repository URL (file://dir or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "nonce",
				Usage:   "Expected X-WP-Nonce value; empty disables the check",
				Sources: cli.EnvVars("PROMPTFINDER_NONCE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP HTTP",
				Sources: cli.EnvVars("PROMPTFINDER_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg := config.API{
				Port:        command.Int("port"),
				DatabaseURL: command.String("database-url"),
				Nonce:       command.String("nonce"),
				ServiceName: "promptfinder-api",
				Tracing:     command.Bool("tracing"),
				LogLevel:    command.String("log-level"),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)

			logger.InfoContext(ctx, "Initializing Prompt Finder API")

			if cfg.Tracing {
				if _, err := otelhelper.NewTracer(ctx, cfg.ServiceName); err != nil {
					logger.WarnContext(ctx, "Tracing disabled", "error", err)
				}
			}

			repository, err := cmd.NewPresetRepository(ctx, logger, cfg.DatabaseURL)
			if err != nil {
				return err
			}

			defer func() {
				if err := repository.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close preset repository", "error", err)
				}
			}()

			api := NewAPI(logger, repository, cfg.Nonce)

			if err := api.Start(cfg.Port); err != nil {
				logger.ErrorContext(ctx, "Failed to start preset API", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

// Package main provides the promptfinder command: fill workflow forms from
// the terminal and manage their presets.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/draft"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/status"
	cli "github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "promptfinder",
		Usage:                 "Fill prompt workflows and manage their presets",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Workflow definition file (YAML or JSON)",
				Required: true,
				Sources:  cli.EnvVars("PROMPTFINDER_WORKFLOW"),
			},
			&cli.StringFlag{
				Name:    "storage-url",
				Usage:   "Local storage for drafts and presets (file://, sqlite://, redis://, memory://)",
				Value:   "file://./.promptfinder",
				Sources: cli.EnvVars("PROMPTFINDER_STORAGE_URL"),
			},
			&cli.StringFlag{
				Name:    "user",
				Usage:   "User id presets and drafts belong to",
				Sources: cli.EnvVars("PROMPTFINDER_USER"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "YAML file with profile values",
				Sources: cli.EnvVars("PROMPTFINDER_PROFILE"),
			},
			&cli.BoolFlag{
				Name:    "profile-enabled",
				Usage:   "Allow profile values to fill fields",
				Value:   true,
				Sources: cli.EnvVars("PROMPTFINDER_PROFILE_ENABLED"),
			},
			&cli.BoolFlag{
				Name:    "server-presets",
				Usage:   "Store presets through the preset API",
				Sources: cli.EnvVars("PROMPTFINDER_SERVER_PRESETS"),
			},
			&cli.StringFlag{
				Name:    "api-base",
				Usage:   "Preset API base URL",
				Sources: cli.EnvVars("PROMPTFINDER_API_BASE"),
			},
			&cli.StringFlag{
				Name:    "nonce",
				Usage:   "Credential sent as X-WP-Nonce",
				Sources: cli.EnvVars("PROMPTFINDER_NONCE"),
			},
			&cli.DurationFlag{
				Name:    "autosave-interval",
				Usage:   "Quiet period before a draft is written",
				Value:   draft.DefaultInterval,
				Sources: cli.EnvVars("PROMPTFINDER_AUTOSAVE_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "completion-hide-delay",
				Usage:   "How long the completion badge stays visible",
				Value:   status.DefaultHideDelay,
				Sources: cli.EnvVars("PROMPTFINDER_COMPLETION_HIDE_DELAY"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			fillCommand(),
			presetsCommand(),
			{
				Name:   "profile",
				Usage:  "Show the profile values fields may use",
				Action: runProfile,
			},
		},
	}
}

func fillCommand() *cli.Command {
	return &cli.Command{
		Name:    "fill",
		Aliases: []string{"f"},
		Usage:   "Apply edits and print the interpolated prompts",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "Edit a field, key=value (repeatable)",
			},
			&cli.StringFlag{
				Name:  "step",
				Usage: "Only print this step; --set keys prefer its fields",
			},
			&cli.BoolFlag{
				Name:  "discard-draft",
				Usage: "Drop the stored draft before applying edits",
			},
		},
		Action: runFill,
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:    "presets",
		Aliases: []string{"p"},
		Usage:   "Manage named presets of the current form",
		Commands: []*cli.Command{
			{Name: "list", Usage: "List preset names", Action: runPresetsList},
			{Name: "save", Usage: "Save the current draft as a preset", ArgsUsage: "NAME", Action: runPresetsSave},
			{Name: "load", Usage: "Replace the draft with a preset", ArgsUsage: "NAME", Action: runPresetsLoad},
			{Name: "delete", Usage: "Delete a preset", ArgsUsage: "NAME", Action: runPresetsDelete},
			{
				Name:  "export",
				Usage: "Write all presets as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
				},
				Action: runPresetsExport,
			},
			{Name: "import", Usage: "Merge presets from a JSON file", ArgsUsage: "FILE", Action: runPresetsImport},
			{Name: "migrate", Usage: "Copy local presets to the preset API", Action: runPresetsMigrate},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

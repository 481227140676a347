package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/cmd"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/config"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/control"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/kv"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/log"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/server"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/session"
	cli "github.com/urfave/cli/v3"
)

var errUnknownField = errors.New("no field with this key")

// app is one hydrated and rendered session plus the resources behind it.
type app struct {
	workflow *models.Workflow
	session  *session.Session
	storage  kv.Store
	out      io.Writer
	logger   *slog.Logger
}

func clientConfig(command *cli.Command) config.Client {
	return config.Client{
		StorageURL:          command.String("storage-url"),
		UserID:              command.String("user"),
		ProfileEnabled:      command.Bool("profile-enabled"),
		ServerPresets:       command.Bool("server-presets"),
		APIBase:             command.String("api-base"),
		Nonce:               command.String("nonce"),
		AutosaveInterval:    command.Duration("autosave-interval"),
		CompletionHideDelay: command.Duration("completion-hide-delay"),
		LogLevel:            command.String("log-level"),
	}
}

func openApp(ctx context.Context, command *cli.Command) (*app, error) {
	cfg := clientConfig(command)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Setup(cfg.LogLevel)
	logger := log.WithModule("promptfinder")

	workflow, err := config.LoadWorkflow(command.String("workflow"))
	if err != nil {
		return nil, err
	}

	profile, err := config.LoadProfile(command.String("profile"))
	if err != nil {
		return nil, err
	}

	storage, err := cmd.NewStore(ctx, cfg.StorageURL)
	if err != nil {
		return nil, err
	}

	deps := session.Deps{
		Storage:       storage,
		ServerEnabled: cfg.ServerActive(),
		Profile:       resolver.NewStaticProfile(profile),
		Logger:        logger,
	}

	if deps.ServerEnabled {
		adapter, err := server.New(cfg.APIBase, cfg.Nonce, persistence.NewNamespace(workflow.ID, cfg.UserID))
		if err != nil {
			_ = storage.Close()

			return nil, err
		}

		deps.Server = adapter
	}

	sess, err := session.New(session.Config{
		UserID:              cfg.UserID,
		ProfileEnabled:      cfg.ProfileEnabled,
		AutosaveInterval:    cfg.AutosaveInterval,
		CompletionHideDelay: cfg.CompletionHideDelay,
	}, workflow, deps)
	if err != nil {
		_ = storage.Close()

		return nil, err
	}

	sess.Hydrate(ctx)
	sess.RenderAll()

	out := command.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	return &app{workflow: workflow, session: sess, storage: storage, out: out, logger: logger}, nil
}

// close flushes the draft and releases storage.
func (a *app) close(ctx context.Context) error {
	err := a.session.Teardown(ctx)

	if cerr := a.storage.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close storage: %w", cerr)
	}

	return err
}

func withApp(fn func(ctx context.Context, a *app, command *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) (err error) {
		a, err := openApp(ctx, command)
		if err != nil {
			return err
		}

		ctx = log.WithLogger(ctx, a.logger.With("command", command.FullName()))

		defer func() {
			if cerr := a.close(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}()

		return fn(ctx, a, command)
	}
}

// findControl looks up key in the preferred step, then the workflow
// section, then every step in order.
func (a *app) findControl(stepID, key string) (*control.Control, bool) {
	if stepID != "" {
		if c, ok := a.session.Control(stepID, key); ok {
			return c, true
		}
	}

	if c, ok := a.session.Control("", key); ok {
		return c, true
	}

	for _, step := range a.workflow.Steps {
		if c, ok := a.session.Control(step.ID, key); ok {
			return c, true
		}
	}

	return nil, false
}

// apply edits a field the way a user would.
func (a *app) apply(stepID, assignment string) error {
	key, value, found := strings.Cut(assignment, "=")
	if !found {
		return fmt.Errorf("invalid --set %q: expected key=value", assignment)
	}

	c, ok := a.findControl(stepID, key)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownField, key)
	}

	if c.Definition().Type == models.TypeBoolean {
		checked, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, err)
		}

		c.Toggle(checked)
	} else {
		c.Change(value)
	}

	if !c.Valid() {
		fmt.Fprintf(a.out, "warning: %s: %s\n", key, c.Message())
	}

	return nil
}

func (a *app) printStep(step models.Step) error {
	prompt, err := a.session.Prompt(step.ID)
	if err != nil {
		return err
	}

	missing, err := a.session.Unresolved(step.ID)
	if err != nil {
		return err
	}

	title := step.Title
	if title == "" {
		title = step.ID
	}

	fmt.Fprintf(a.out, "== %s\n%s\n", title, prompt)

	if len(missing) > 0 {
		fmt.Fprintf(a.out, "missing: %s\n", strings.Join(missing, ", "))
	}

	return nil
}

func (a *app) printCounts() {
	counts := a.session.Counts()
	fmt.Fprintf(a.out, "completion: %d/%d (%d%%)\n", counts.Filled, counts.Total, counts.Percent())
}

func requireName(command *cli.Command) (string, error) {
	name := strings.TrimSpace(command.Args().First())
	if name == "" {
		return "", fmt.Errorf("%s: preset name is required", command.Name)
	}

	return name, nil
}

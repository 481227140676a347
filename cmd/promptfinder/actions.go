package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/config"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/log"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/session"
	cli "github.com/urfave/cli/v3"
)

var errPresetFailed = errors.New("preset operation failed, see log")

var runFill = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	stepID := command.String("step")

	if stepID != "" {
		if _, ok := a.workflow.Step(stepID); !ok {
			return fmt.Errorf("%w: %s", session.ErrStepNotFound, stepID)
		}
	}

	if command.Bool("discard-draft") {
		if err := a.session.Autosaver().Discard(ctx); err != nil {
			return err
		}
	}

	for _, assignment := range command.StringSlice("set") {
		if err := a.apply(stepID, assignment); err != nil {
			return err
		}
	}

	for _, step := range a.workflow.Steps {
		if stepID != "" && step.ID != stepID {
			continue
		}

		if err := a.printStep(step); err != nil {
			return err
		}
	}

	a.printCounts()

	return nil
})

var runPresetsList = withApp(func(ctx context.Context, a *app, _ *cli.Command) error {
	names, ok := a.session.Presets().List(ctx)
	if !ok {
		return errPresetFailed
	}

	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}

	return nil
})

var runPresetsSave = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	name, err := requireName(command)
	if err != nil {
		return err
	}

	if !a.session.Presets().Save(ctx, name) {
		return errPresetFailed
	}

	fmt.Fprintf(a.out, "saved %q (%s)\n", name, a.session.Presets().Backend())

	return nil
})

var runPresetsLoad = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	name, err := requireName(command)
	if err != nil {
		return err
	}

	if !a.session.Presets().Load(ctx, name) {
		return errPresetFailed
	}

	fmt.Fprintf(a.out, "loaded %q\n", name)
	a.printCounts()

	return nil
})

var runPresetsDelete = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	name, err := requireName(command)
	if err != nil {
		return err
	}

	if !a.session.Presets().Delete(ctx, name) {
		return errPresetFailed
	}

	fmt.Fprintf(a.out, "deleted %q\n", name)

	return nil
})

var runPresetsExport = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	blob, ok := a.session.Presets().Export(ctx)
	if !ok {
		return errPresetFailed
	}

	if path := command.String("out"); path != "" {
		if err := os.WriteFile(path, blob, 0o600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		return nil
	}

	_, err := a.out.Write(append(blob, '\n'))

	return err
})

var runPresetsImport = withApp(func(ctx context.Context, a *app, command *cli.Command) error {
	path := command.Args().First()
	if path == "" {
		return errors.New("import: file is required")
	}

	var (
		blob []byte
		err  error
	)

	if path == "-" {
		blob, err = io.ReadAll(os.Stdin)
	} else {
		blob, err = os.ReadFile(path)
	}

	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if !a.session.Presets().Import(ctx, blob) {
		return errPresetFailed
	}

	fmt.Fprintln(a.out, "imported")

	return nil
})

var runPresetsMigrate = withApp(func(ctx context.Context, a *app, _ *cli.Command) error {
	if !a.session.Presets().MigrationAvailable(ctx) {
		fmt.Fprintln(a.out, "nothing to migrate")

		return nil
	}

	count, ok := a.session.Presets().MigrateLocalToServer(ctx)
	if !ok {
		return errPresetFailed
	}

	log.FromContext(ctx).InfoContext(ctx, "Presets migrated", "count", count)
	fmt.Fprintf(a.out, "migrated %d presets\n", count)

	return nil
})

// runProfile prints the profile values a form may display; sys_ keys are
// used for resolution but never shown.
func runProfile(_ context.Context, command *cli.Command) error {
	profile, err := config.LoadProfile(command.String("profile"))
	if err != nil {
		return err
	}

	visible := resolver.Visible(profile)

	out := command.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	for _, key := range slices.Sorted(maps.Keys(visible)) {
		fmt.Fprintf(out, "%s=%s\n", key, visible[key])
	}

	return nil
}

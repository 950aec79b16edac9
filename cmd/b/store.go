package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bugtrack/b/internal/config"
	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/editor"
	"github.com/bugtrack/b/internal/idgen"
	"github.com/bugtrack/b/internal/telemetry"
	"github.com/bugtrack/b/internal/templates"
	"github.com/bugtrack/b/internal/tracker"
	"github.com/bugtrack/b/internal/utils"
)

// resolveStoreDir turns the 'dir' setting into a store path. A bare name
// such as ".bugs" is searched for from cwd upwards when search is set, and
// otherwise placed in cwd. Anything with a path separator is used as given.
func resolveStoreDir(setting, cwd string, search bool) string {
	if setting == "" {
		setting = config.DefaultDir
	}
	if setting == "~" || strings.HasPrefix(setting, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			setting = filepath.Join(home, strings.TrimPrefix(setting, "~"))
		}
	}
	if filepath.IsAbs(setting) {
		return filepath.Clean(setting)
	}
	if strings.ContainsRune(setting, filepath.Separator) || strings.ContainsRune(setting, '/') {
		return filepath.Join(cwd, setting)
	}
	if search {
		if found := utils.FindUp(cwd, setting); found != "" {
			return found
		}
	}
	return filepath.Join(cwd, setting)
}

// storeDir returns the store of the current invocation.
func storeDir(search bool) string {
	cwd, err := os.Getwd()
	if err != nil {
		FatalError("cannot determine working directory: %v", err)
	}
	return resolveStoreDir(config.GetString("dir"), cwd, search)
}

func idGenerator() idgen.Generator {
	if config.GetBool("simple-hashing") {
		return idgen.ContentGenerator{}
	}
	return idgen.NewHashGenerator()
}

func trackerOptions(dir string) tracker.Options {
	return tracker.Options{
		Dir:       dir,
		User:      config.User(),
		Template:  config.GetString("template"),
		IDs:       idGenerator(),
		Templates: templates.NewProvider(dir),
		Logger:    debug.Logger(),
		Wrap:      telemetry.WrapFormat,
	}
}

func openTracker(ctx context.Context) (*tracker.Tracker, error) {
	return tracker.Open(ctx, trackerOptions(storeDir(true)))
}

func newLauncher() *editor.Launcher {
	return editor.New(config.Editor())
}

// launch opens path in the editor, reporting failures as warnings: the
// store has already been saved by the time an editor runs.
func launch(path string) {
	debug.Logger().Debug("launching editor", "editor", config.Editor(), "path", path)
	if err := newLauncher().Launch(rootCtx, path); err != nil {
		WarnError("%v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

const watchDebounce = 500 * time.Millisecond

// watchRelevant reports whether a change to name can alter the listing.
func watchRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return base == storage.IndexFile || strings.HasSuffix(base, storage.ExtStructured)
}

func printWatched(ctx context.Context, filter types.ListFilter) {
	res, err := trk.List(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing bugs: %v\n", err)
		return
	}
	writeList(os.Stdout, res)
	fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
}

// watchList prints the listing and prints it again whenever the store
// changes, until ctx is cancelled.
func watchList(ctx context.Context, filter types.ListFilter) {
	dir := trk.Dir()
	if !storage.Exists(dir) {
		handleError(storage.ErrNotInitialized)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		FatalError("creating watcher: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		FatalError("watching %s: %v", dir, err)
	}

	printWatched(ctx, filter)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if watchRelevant(event) {
				debounce = time.After(watchDebounce)
			}
		case <-debounce:
			debounce = nil
			if err := trk.Reload(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error reloading store: %v\n", err)
				continue
			}
			printWatched(ctx, filter)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/config"
	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/telemetry"
	"github.com/bugtrack/b/internal/tracker"
	"github.com/bugtrack/b/internal/ui"
)

var (
	dirFlag     string
	userFlag    string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// trk is the store of the current command, opened in PersistentPreRun
	// for every command that needs one.
	trk *tracker.Tracker
)

// noStoreCommands do not read the store before running.
var noStoreCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
	"migrate":    true,
}

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		WarnError("failed to initialize config: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Store directory (default: nearest .bugs, overrides the 'dir' setting)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Act as this user (default: 'user' setting, git user.name, $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")

	rootCmd.AddGroup(&cobra.Group{ID: "bugs", Title: "Working With Bugs:"})
	rootCmd.AddGroup(&cobra.Group{ID: "views", Title: "Views & Reports:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "Setup & Configuration:"})
	rootCmd.AddGroup(&cobra.Group{ID: "maint", Title: "Maintenance:"})
}

var rootCmd = &cobra.Command{
	Use:   "b",
	Short: "b - a simple, file-backed bug tracker",
	Long: `A simple bug tracker that keeps its records next to your code.

Bugs are referred to by the shortest prefix of their ID that is unique in
the store. Running b without a command lists the open bugs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		runList(defaultListFilter(), false)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		applyViperOverrides(cmd)
		ui.ApplyColorProfile()

		if err := telemetry.Init(rootCtx, "b", Version); err != nil {
			WarnError("telemetry disabled: %v", err)
		}

		if noStoreCommands[cmd.Name()] || under(cmd, "templates") || under(cmd, "config") {
			return
		}
		t, err := openTracker(rootCtx)
		if err != nil {
			handleError(err)
		}
		trk = t
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)

		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// applyViperOverrides copies explicitly passed global flags into the
// configuration so every lookup goes through one place.
func applyViperOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		config.Set("dir", dirFlag)
	}
	if flags.Changed("user") {
		config.Set("user", userFlag)
	}
	if flags.Changed("json") {
		config.Set("json", jsonOutput)
	}
	jsonOutput = config.GetBool("json")
}

// under reports whether cmd is the command called name or one of its
// subcommands.
func under(cmd *cobra.Command, name string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

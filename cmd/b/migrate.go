package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/migrations"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/ui"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	GroupID: "maint",
	Short:   "Upgrade the store to the current on-disk layout",
	Long: `Upgrade a store written by an older version of b to the current layout.

Every migration runs in order and only converts what is still in an older
format, so running migrate twice is harmless. A record that already exists
in the new layout is left alone and reported as a conflict.

Use --dry-run to list what would be converted without changing anything.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		dir := storeDir(true)
		if !storage.Exists(dir) {
			handleError(storage.ErrNotInitialized)
		}
		m := migrations.New(dir, debug.Logger())
		m.IDs = idGenerator()

		if dryRun {
			pending, err := m.Pending()
			if err != nil {
				FatalError("%v", err)
			}
			if jsonOutput {
				outputJSON(map[string]interface{}{"dir": dir, "pending": pending})
				return
			}
			writePending(dir, pending)
			return
		}

		report, err := m.Run(rootCtx)
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			outputJSON(report)
			return
		}
		writeReport(dir, report)
	},
}

func writePending(dir string, pending map[string][]string) {
	if len(pending) == 0 {
		fmt.Printf("%s %s is up to date\n", ui.RenderPassIcon(), dir)
		return
	}
	for _, mig := range migrations.Migrations {
		items, ok := pending[mig.Name]
		if !ok {
			continue
		}
		fmt.Printf("%s (%d): %s\n", ui.RenderHeader(mig.Name), len(items), mig.Description)
		sort.Strings(items)
		for _, item := range items {
			fmt.Printf("    %s\n", item)
		}
	}
}

func writeReport(dir string, report *migrations.Report) {
	for _, res := range report.Results {
		if !res.Changed() && len(res.Conflicts) == 0 {
			continue
		}
		fmt.Printf("%s %s: migrated %d, skipped %d\n",
			ui.RenderPassIcon(), res.Name, len(res.Migrated), len(res.Skipped))
	}
	for _, c := range report.Conflicts() {
		fmt.Printf("%s %s\n", ui.RenderWarnIcon(), c)
	}
	if report.Migrated() == 0 && len(report.Conflicts()) == 0 {
		fmt.Printf("%s %s is up to date\n", ui.RenderPassIcon(), dir)
	}
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "List what would be migrated without changing anything")
	rootCmd.AddCommand(migrateCmd)
}

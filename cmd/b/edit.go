package main

import (
	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/tracker"
	"github.com/bugtrack/b/internal/types"
)

// editDetails opens the details of the record id in the editor, seeding
// them from the default template when the record has none yet.
func editDetails(id string) {
	path, err := trk.DetailsPath(rootCtx, id, "")
	if err != nil {
		handleError(err)
	}
	launch(path)
}

// latestRecord returns the record added by this process, or else the one
// filed last.
func latestRecord(t *tracker.Tracker) *types.Record {
	if r := t.LastAdded(); r != nil {
		return r
	}
	var latest *types.Record
	for _, r := range t.Records() {
		if latest == nil || r.Entered.After(latest.Entered) {
			latest = r
		}
	}
	return latest
}

var editCmd = &cobra.Command{
	Use:     "edit [prefix]",
	GroupID: "bugs",
	Short:   "Open the details of a bug in your editor",
	Long: `Open the details of the bug denoted by PREFIX in your editor.

Without PREFIX the most recently filed bug is opened. The editor comes from
the 'editor' setting, then $VISUAL, then $EDITOR.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var id string
		if len(args) == 1 {
			r, err := trk.Resolve(args[0])
			if err != nil {
				handleError(err)
			}
			id = r.ID
		} else {
			last := latestRecord(trk)
			if last == nil {
				FatalErrorWithHint("no bugs to edit", "b add \"Crash when saving\"")
			}
			id = last.ID
		}
		debug.Logf("editing %s", id)
		editDetails(id)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/types"
)

var resolveCmd = &cobra.Command{
	Use:     "resolve <prefix>",
	Aliases: []string{"close"},
	GroupID: "bugs",
	Short:   "Mark a bug as resolved",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setStatus(cmd, args[0], trk.Close, "Resolved")
	},
}

var reopenCmd = &cobra.Command{
	Use:     "reopen <prefix>",
	GroupID: "bugs",
	Short:   "Mark a resolved bug as open again",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setStatus(cmd, args[0], trk.Reopen, "Reopened")
	},
}

func setStatus(cmd *cobra.Command, prefix string, op func(context.Context, string) (*types.Record, error), verb string) {
	edit, _ := cmd.Flags().GetBool("edit")

	r, err := op(rootCtx, prefix)
	if err != nil {
		handleError(err)
	}
	if jsonOutput {
		outputJSON(r)
	} else {
		debug.PrintNormal("%s %s: '%s'\n", verb, shortID(trk.Prefix(r.ID), r.ID), r.Title)
	}
	if edit {
		editDetails(r.ID)
	}
}

func init() {
	resolveCmd.Flags().BoolP("edit", "e", false, "Open the bug in the editor afterwards")
	reopenCmd.Flags().BoolP("edit", "e", false, "Open the bug in the editor afterwards")
	rootCmd.AddCommand(resolveCmd, reopenCmd)
}

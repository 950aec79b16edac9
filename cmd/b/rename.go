package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
)

var renameCmd = &cobra.Command{
	Use:     "rename <prefix> <title...>",
	GroupID: "bugs",
	Short:   "Change the title of a bug",
	Long: `Change the title of the bug denoted by PREFIX to TITLE.

A title of the form s/find/replace/ (or /find/replace/) edits the current
title instead: the first match of the regular expression find is replaced.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		edit, _ := cmd.Flags().GetBool("edit")

		r, err := trk.Rename(rootCtx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			handleError(err)
		}

		if jsonOutput {
			outputJSON(r)
		} else {
			debug.PrintNormal("Renamed %s to '%s'\n", shortID(trk.Prefix(r.ID), r.ID), r.Title)
		}
		if edit {
			editDetails(r.ID)
		}
	},
}

func init() {
	renameCmd.Flags().BoolP("edit", "e", false, "Open the bug in the editor after renaming it")
	rootCmd.AddCommand(renameCmd)
}

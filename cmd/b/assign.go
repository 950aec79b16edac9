package main

import (
	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/users"
)

type assignResult struct {
	ID     string `json:"id"`
	Prefix string `json:"prefix"`
	Title  string `json:"title"`
	Owner  string `json:"owner"`
}

var assignCmd = &cobra.Command{
	Use:     "assign <prefix> <user>",
	GroupID: "bugs",
	Short:   "Assign a bug to a user",
	Long: `Assign the bug denoted by PREFIX to USER.

USER may be "me" for yourself or "nobody" to remove the owner. Otherwise it
can be any prefix of an existing owner long enough to pick one: "mi" finds
"michael" in a project whose owners are "michael" and "mark". Use -f to
assign a new user verbatim instead.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		r, err := trk.Assign(rootCtx, args[0], args[1], force)
		if err != nil {
			handleError(err)
		}
		res := assignResult{ID: r.ID, Prefix: trk.Prefix(r.ID), Title: r.Title, Owner: r.Owner}

		if jsonOutput {
			outputJSON(res)
			return
		}
		debug.PrintNormal("Assigned %s: '%s' to %s\n", shortID(res.Prefix, r.ID), r.Title, users.Label(r.Owner))
	},
}

func init() {
	assignCmd.Flags().BoolP("force", "f", false, "Use USER verbatim, creating a new user")
	rootCmd.AddCommand(assignCmd)
}

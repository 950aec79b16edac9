package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/tracker"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	GroupID: "views",
	Short:   "List the owners of bugs and how many they hold",
	Long: `List every owner in the store with the number of open bugs they own.

Owners whose bugs are all resolved are listed last with a count of zero.
Use -d to list the bugs of every owner underneath it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := scopeFromFlags(cmd)
		if err != nil {
			handleError(err)
		}
		detailed, _ := cmd.Flags().GetBool("detailed")

		stats := trk.Users(scope)
		var rows *tracker.ListResult
		if detailed {
			filter := defaultListFilter()
			filter.Scope = scope
			if rows, err = trk.List(rootCtx, filter); err != nil {
				handleError(err)
			}
		}

		if jsonOutput {
			if rows == nil {
				outputJSON(stats)
				return
			}
			outputJSON(map[string]interface{}{"users": stats, "rows": rows.Rows})
			return
		}
		writeUsers(os.Stdout, stats, scope, rows)
	},
}

func init() {
	addScopeFlags(usersCmd, "bugs")
	usersCmd.Flags().BoolP("detailed", "d", false, "List the bugs of every owner")
	rootCmd.AddCommand(usersCmd)
}

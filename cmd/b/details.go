package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/ui"
)

var detailsCmd = &cobra.Command{
	Use:     "details <prefix>",
	Aliases: []string{"show"},
	GroupID: "views",
	Short:   "Show everything known about a bug",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noPager, _ := cmd.Flags().GetBool("no-pager")

		r, err := trk.Details(args[0])
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"prefix": trk.Prefix(r.ID), "record": r})
			return
		}

		var b strings.Builder
		writeDetails(&b, r, trk.Prefix(r.ID), ui.RenderMarkdown, time.Local)
		if err := ui.ToPager(b.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
			FatalError("%v", err)
		}
	},
}

func init() {
	detailsCmd.Flags().Bool("no-pager", false, "Print directly instead of through a pager")
	rootCmd.AddCommand(detailsCmd)
}

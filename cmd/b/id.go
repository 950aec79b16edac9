package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var idCmd = &cobra.Command{
	Use:     "id <prefix>",
	GroupID: "views",
	Short:   "Print the full ID of a bug",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := trk.ID(args[0])
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			outputJSON(map[string]string{"id": id, "prefix": trk.Prefix(id)})
			return
		}
		fmt.Println(id)
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/tracker"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Create a bugs directory for new bugs",
	Long: `Create a store directory (.bugs by default) in the current directory.

init refuses to run when a store already exists here or in any parent
directory. Use -f to create a nested store anyway.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		t := tracker.New(trackerOptions(storeDir(false)))
		if err := t.Initialize(force); err != nil {
			handleError(err)
		}

		if jsonOutput {
			outputJSON(map[string]string{"dir": t.Dir(), "format": t.Version().String()})
			return
		}
		fmt.Printf("%s Initialized bugs directory at %s\n", color.GreenString("✓"), t.Dir())
	},
}

func init() {
	initCmd.Flags().BoolP("force", "f", false, "Create the store here even if a parent directory has one")
	rootCmd.AddCommand(initCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/tracker"
	"github.com/bugtrack/b/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:     "verify",
	GroupID: "maint",
	Short:   "Check the store for damaged or inconsistent files",
	Long: `Read every file of the store again and report files that do not parse,
records filed under the wrong name, duplicate IDs, and details that belong
to no record. Nothing is modified. Exits with status 1 when problems are
found.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		problems, err := trk.Verify(rootCtx)
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			if problems == nil {
				problems = []tracker.Problem{}
			}
			outputJSON(map[string]interface{}{
				"dir":      trk.Dir(),
				"format":   trk.Version().String(),
				"records":  len(trk.Records()),
				"problems": problems,
			})
		} else {
			writeProblems(problems)
		}
		if len(problems) > 0 {
			os.Exit(1)
		}
	},
}

func writeProblems(problems []tracker.Problem) {
	if len(problems) == 0 {
		fmt.Printf("%s %d bugs, no problems found in %s (%s layout)\n",
			ui.RenderPassIcon(), len(trk.Records()), trk.Dir(), trk.Version())
		return
	}
	for _, p := range problems {
		fmt.Printf("%s %s\n", ui.RenderFailIcon(), p)
	}
	fmt.Printf("\n%s %d problem(s) found\n", ui.RenderWarnIcon(), len(problems))
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

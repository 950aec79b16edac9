package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/tracker"
)

var addCmd = &cobra.Command{
	Use:     "add [title...]",
	GroupID: "bugs",
	Short:   "Add a new, open bug",
	Long: `Add a new, open bug to the tracker.

The words of TITLE are joined with spaces. The details of the new bug are
seeded from a template: "bug" unless -t names another or the 'template'
setting changes the default. See 'b templates list'.

Use -i to fill in the title, template and owner in an interactive form.`,
	Run: func(cmd *cobra.Command, args []string) {
		self, _ := cmd.Flags().GetBool("self")
		tmpl, _ := cmd.Flags().GetString("template")
		edit, _ := cmd.Flags().GetBool("edit")
		interactive, _ := cmd.Flags().GetBool("interactive")

		title := strings.Join(args, " ")
		if interactive {
			form, err := runAddForm(title, tmpl, self)
			if err != nil {
				FatalError("%v", err)
			}
			title, tmpl, self = form.Title, form.Template, form.Self
		}
		if strings.TrimSpace(title) == "" {
			FatalErrorWithHint("must specify a bug title", "b add \"Crash when saving\"")
		}

		r, err := trk.Add(rootCtx, title, tracker.AddOptions{Template: tmpl, Self: self})
		if err != nil {
			handleError(err)
		}
		prefix := trk.Prefix(r.ID)

		if jsonOutput {
			outputJSON(map[string]interface{}{"prefix": prefix, "record": r})
		} else {
			debug.PrintNormal("Added bug %s\n", shortID(prefix, r.ID))
		}

		if edit {
			path, err := trk.DetailsPath(rootCtx, r.ID, tmpl)
			if err != nil {
				handleError(err)
			}
			launch(path)
		}
	},
}

func init() {
	addCmd.Flags().BoolP("self", "s", false, "Make me the owner of the new bug (default: unowned)")
	addCmd.Flags().StringP("template", "t", "", "Template for the details (default: 'template' setting, then bug)")
	addCmd.Flags().BoolP("edit", "e", false, "Open the new bug in the editor after creating it")
	addCmd.Flags().BoolP("interactive", "i", false, "Fill in the bug with an interactive form")
	rootCmd.AddCommand(addCmd)
}

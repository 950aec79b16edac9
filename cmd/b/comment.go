package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/storage"
)

var commentCmd = &cobra.Command{
	Use:     "comment <prefix> [text...]",
	GroupID: "bugs",
	Short:   "Add a comment to a bug",
	Long: `Append TEXT as a dated comment by you to the bug denoted by PREFIX.

Use -e instead of TEXT to write the comment in your editor, or --file to
read it from a file ('-' for stdin).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		edit, _ := cmd.Flags().GetBool("edit")
		file, _ := cmd.Flags().GetString("file")

		text := strings.Join(args[1:], " ")
		if file != "" {
			data, err := readInput(file)
			if err != nil {
				FatalError("reading comment: %v", err)
			}
			text = string(data)
		}

		if strings.TrimSpace(text) == "" {
			if !edit {
				handleError(storage.InputError("must specify a comment; pass TEXT or use -e to write one in the editor"))
			}
			editDetails(args[0])
			return
		}

		r, err := trk.Comment(rootCtx, args[0], text)
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			outputJSON(r.Comments[len(r.Comments)-1])
		} else {
			debug.PrintNormal("Commented on %s: '%s'\n", shortID(trk.Prefix(r.ID), r.ID), r.Title)
		}
		if edit {
			editDetails(r.ID)
		}
	},
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file) // #nosec G304 - user supplied path
}

func init() {
	commentCmd.Flags().BoolP("edit", "e", false, "Open the bug in the editor to write or review the comment")
	commentCmd.Flags().String("file", "", "Read the comment from a file ('-' for stdin)")
	rootCmd.AddCommand(commentCmd)
}

package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/config"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/timeparsing"
	"github.com/bugtrack/b/internal/types"
	"github.com/bugtrack/b/internal/ui"
)

// defaultListFilter lists open bugs of every owner, ordered by the
// list.sort setting. Lines are cut to list.truncate, or to the terminal
// width when that is 0.
func defaultListFilter() types.ListFilter {
	width := config.GetInt("list.truncate")
	if width == 0 {
		width = ui.Width()
	}
	return types.ListFilter{
		Scope:    types.ScopeOpen,
		Owner:    types.AllOwners,
		Sort:     types.SortOrder(config.GetString("list.sort")),
		Truncate: width,
	}
}

// scopeFromFlags reads the -O/-r/-a flags shared by list and users.
func scopeFromFlags(cmd *cobra.Command) (types.Scope, error) {
	open, _ := cmd.Flags().GetBool("open")
	resolved, _ := cmd.Flags().GetBool("resolved")
	all, _ := cmd.Flags().GetBool("all")

	n := 0
	for _, set := range []bool{open, resolved, all} {
		if set {
			n++
		}
	}
	if n > 1 {
		return 0, storage.CommandError("--open, --resolved and --all are mutually exclusive")
	}
	switch {
	case resolved:
		return types.ScopeResolved, nil
	case all:
		return types.ScopeAll, nil
	default:
		return types.ScopeOpen, nil
	}
}

func addScopeFlags(cmd *cobra.Command, what string) {
	cmd.Flags().BoolP("open", "O", false, "List open "+what+" (default)")
	cmd.Flags().BoolP("resolved", "r", false, "List resolved "+what)
	cmd.Flags().BoolP("all", "a", false, "List open and resolved "+what)
}

func listFilterFromFlags(cmd *cobra.Command, args []string) (types.ListFilter, error) {
	filter := defaultListFilter()

	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return filter, err
	}
	filter.Scope = scope

	if owner, _ := cmd.Flags().GetString("owner"); owner != "" {
		filter.Owner = owner
	}
	filter.Grep, _ = cmd.Flags().GetString("grep")
	if filter.Grep == "" && len(args) > 0 {
		filter.Grep = strings.Join(args, " ")
	}

	byTitle, _ := cmd.Flags().GetBool("title")
	byEntered, _ := cmd.Flags().GetBool("entered")
	switch {
	case byTitle && byEntered:
		return filter, storage.CommandError("--title and --entered are mutually exclusive")
	case byTitle:
		filter.Sort = types.SortTitle
	case byEntered:
		filter.Sort = types.SortEntered
	}
	filter.Descending, _ = cmd.Flags().GetBool("descending")

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := timeparsing.ParseSince(since, time.Now())
		if err != nil {
			return filter, storage.InputError("invalid --since %q: %v", since, err)
		}
		filter.Since = &t
	}
	if cmd.Flags().Changed("truncate") {
		filter.Truncate, _ = cmd.Flags().GetInt("truncate")
		if filter.Truncate < 0 {
			return filter, storage.InputError("--truncate must not be negative")
		}
	}
	return filter, nil
}

var listCmd = &cobra.Command{
	Use:     "list [text...]",
	Aliases: []string{"ls"},
	GroupID: "views",
	Short:   "List bugs",
	Long: `List the bugs of the store, open ones unless -r or -a says otherwise.

Every bug is shown by the shortest prefix of its ID that is unique in the
store. The list keeps the order bugs were added in unless -t or -e asks
for another.

Examples:
  b list -o me            # my open bugs
  b list -a -g crash      # every bug with "crash" in the title
  b list --since 2w -e    # bugs filed in the last two weeks, oldest first`,
	Run: func(cmd *cobra.Command, args []string) {
		filter, err := listFilterFromFlags(cmd, args)
		if err != nil {
			handleError(err)
		}
		watch, _ := cmd.Flags().GetBool("watch")
		runList(filter, watch)
	},
}

func runList(filter types.ListFilter, watch bool) {
	if watch {
		if jsonOutput {
			FatalError("--watch cannot be combined with --json")
		}
		watchList(rootCtx, filter)
		return
	}

	res, err := trk.List(rootCtx, filter)
	if err != nil {
		handleError(err)
	}
	if jsonOutput {
		outputJSON(res)
		return
	}
	writeList(os.Stdout, res)
}

func init() {
	addScopeFlags(listCmd, "bugs")
	listCmd.Flags().StringP("owner", "o", "", "Only list bugs of this owner (a name prefix, 'me', 'nobody' or '*')")
	listCmd.Flags().StringP("grep", "g", "", "Only list bugs whose title contains this text (case-insensitive)")
	listCmd.Flags().BoolP("title", "t", false, "Sort by title")
	listCmd.Flags().BoolP("entered", "e", false, "Sort by the date bugs were filed")
	listCmd.Flags().BoolP("descending", "d", false, "Reverse the order")
	listCmd.Flags().String("since", "", "Only list bugs filed since this time (e.g. 3d, 2025-01-15, 'last monday')")
	listCmd.Flags().Int("truncate", 0, "Cut lines to this many characters (0 = no limit)")
	listCmd.Flags().BoolP("watch", "w", false, "Keep listing as the store changes")
	rootCmd.AddCommand(listCmd)
}

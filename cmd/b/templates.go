package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/templates"
	"github.com/bugtrack/b/internal/ui"
)

func templateProvider() *templates.Provider {
	return templates.NewProvider(storeDir(true))
}

var templatesCmd = &cobra.Command{
	Use:     "templates",
	GroupID: "setup",
	Short:   "List the templates new bugs can start from",
	Long: `List the templates available to 'b add -t'.

Built-in templates can be copied into the store with 'b templates customize'
and changed there; a project template replaces the built-in of the same
name.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		onlyDefaults, _ := cmd.Flags().GetBool("defaults")
		onlyCustom, _ := cmd.Flags().GetBool("custom")

		infos, err := templateProvider().List(onlyDefaults, onlyCustom)
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			if infos == nil {
				infos = []templates.Info{}
			}
			outputJSON(infos)
			return
		}
		for _, info := range infos {
			if info.Custom {
				fmt.Printf("%s %s\n", info.Name, ui.RenderMuted("(custom: "+info.Path+")"))
				continue
			}
			fmt.Println(info.Name)
		}
	},
}

var templatesCustomizeCmd = &cobra.Command{
	Use:   "customize <name>",
	Short: "Copy a built-in template into the store for editing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := templateProvider()
		if !storage.Exists(p.Dir) {
			handleError(storage.ErrNotInitialized)
		}
		path, err := p.Customize(args[0])
		if err != nil {
			handleError(err)
		}
		if jsonOutput {
			outputJSON(map[string]string{"name": args[0], "path": path})
		} else {
			debug.PrintNormal("%s Copied template %s to %s\n", ui.RenderPassIcon(), args[0], path)
		}
		if edit, _ := cmd.Flags().GetBool("edit"); edit {
			launch(path)
		}
	},
}

var templatesEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Open a customized template in your editor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := templateProvider().CustomPath(args[0])
		if err != nil {
			handleError(err)
		}
		launch(path)
	},
}

func init() {
	templatesCmd.Flags().BoolP("defaults", "d", false, "Only list built-in templates")
	templatesCmd.Flags().BoolP("custom", "c", false, "Only list project templates")
	templatesCustomizeCmd.Flags().BoolP("edit", "e", false, "Open the copy in your editor")

	templatesCmd.AddCommand(templatesCustomizeCmd, templatesEditCmd)
	rootCmd.AddCommand(templatesCmd)
}

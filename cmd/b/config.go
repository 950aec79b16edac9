package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bugtrack/b/internal/config"
	"github.com/bugtrack/b/internal/debug"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Read and change settings",
	Long: `Read and change b's settings.

Settings are read from the user file ($XDG_CONFIG_HOME/b/settings.toml),
then the store's settings.toml, then B_* environment variables such as
B_LIST_SORT. 'set' and 'unset' change the user file, or the store's file
with --project.`,
}

// settingsPath returns the file changed by set and unset.
func settingsPath(cmd *cobra.Command) string {
	if project, _ := cmd.Flags().GetBool("project"); project {
		dir := storeDir(true)
		if !storage.Exists(dir) {
			handleError(storage.ErrNotInitialized)
		}
		return filepath.Join(dir, storage.SettingsFile)
	}
	path := config.UserSettingsPath()
	if path == "" {
		FatalError("cannot determine the user settings directory")
	}
	return path
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		if config.LookupKey(key) == nil {
			handleError(storage.InputError("unknown setting %q; valid settings: %v", key, config.KnownKeys()))
		}
		var value interface{}
		switch key {
		case "user":
			value = config.User()
		case "editor":
			value = config.Editor()
		default:
			value = config.Get(key)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"key": key, "value": value})
			return
		}
		fmt.Println(formatValue(value))
	},
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]
		if err := config.ValidateKey(key, value); err != nil {
			handleError(storage.InputError("%v", err))
		}
		path := settingsPath(cmd)
		s, err := config.LoadSettings(path)
		if err != nil {
			FatalError("%v", err)
		}
		s.Set(key, config.Parse(key, value))
		if err := s.Save(path); err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"key": key, "value": config.Parse(key, value), "file": path})
			return
		}
		debug.PrintNormal("%s Set %s = %s in %s\n", ui.RenderPassIcon(), key, value, path)
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting, restoring its default",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		path := settingsPath(cmd)
		s, err := config.LoadSettings(path)
		if err != nil {
			FatalError("%v", err)
		}
		if !s.Unset(key) {
			WarnError("%s is not set in %s", key, path)
			return
		}
		if err := s.Save(path); err != nil {
			FatalError("%v", err)
		}
		debug.PrintNormal("%s Unset %s in %s\n", ui.RenderPassIcon(), key, path)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := make(map[string]interface{})
		for _, key := range config.KnownKeys() {
			out[key] = config.Get(key)
		}
		out["user"] = config.User()
		out["editor"] = config.Editor()

		if jsonOutput {
			outputJSON(out)
			return
		}
		for _, key := range config.KnownKeys() {
			fmt.Printf("%s = %s\n", key, formatValue(out[key]))
			if verboseFlag {
				fmt.Printf("    %s\n", ui.RenderMuted(config.LookupKey(key).Description))
			}
		}
	},
}

func init() {
	configSetCmd.Flags().Bool("project", false, "Change the store's settings instead of yours")
	configUnsetCmd.Flags().Bool("project", false, "Change the store's settings instead of yours")

	configCmd.AddCommand(configGetCmd, configSetCmd, configUnsetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

// Package config loads b's settings from defaults, settings files and the
// environment.
//
// Precedence, lowest first: built-in defaults, the user settings file
// ($XDG_CONFIG_HOME/b/settings.toml), the project settings file
// (<store>/settings.toml, found by walking up from the working directory),
// B_* environment variables, and finally values Set by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/utils"
)

// DefaultDir is the default store directory name.
const DefaultDir = ".bugs"

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()

	v.SetEnvPrefix("B")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, k := range Keys {
		if k.Default != nil {
			v.SetDefault(k.Key, k.Default)
		}
	}

	if path := UserSettingsPath(); path != "" {
		if err := merge(path); err != nil {
			return err
		}
	}
	if path := ProjectSettingsPath(); path != "" {
		if err := merge(path); err != nil {
			return err
		}
	}
	return nil
}

func merge(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("error reading settings file %s: %w", path, err)
	}
	return nil
}

// UserSettingsPath returns the per-user settings file, whether or not it
// exists yet. It is empty when no config directory can be determined.
func UserSettingsPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "b", storage.SettingsFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "b", storage.SettingsFile)
}

// ProjectSettingsPath returns the settings file of the nearest store above
// the working directory, or "" when there is no store.
func ProjectSettingsPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	store := utils.FindUp(cwd, DefaultDir)
	if store == "" {
		return ""
	}
	return filepath.Join(store, storage.SettingsFile)
}

// ConfigFileUsed returns the last settings file read, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// Get returns the effective value of key, or nil.
func Get(key string) interface{} {
	if v == nil {
		return nil
	}
	return v.Get(key)
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// IsSet reports whether key has a value from any source other than its default.
func IsSet(key string) bool {
	if v == nil {
		return false
	}
	return v.IsSet(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

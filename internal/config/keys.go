package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key describes one setting.
type Key struct {
	Key         string      // Setting name (e.g., "list.sort")
	Description string      // Human-readable description
	Default     interface{} // Default value (nil = no default)
	Validate    func(string) error
}

// Keys defines every setting b understands. Each can also be given as a
// B_* environment variable, e.g. B_LIST_SORT for list.sort.
var Keys = []Key{
	{
		Key:         "dir",
		Description: "Store directory name, searched for from the working directory upwards",
		Default:     DefaultDir,
	},
	{
		Key:         "user",
		Description: "Your user name; defaults to git's user.name, then $USER",
		Validate:    validateUser,
	},
	{
		Key:         "editor",
		Description: "Command used to edit details; defaults to $VISUAL, then $EDITOR",
	},
	{
		Key:         "template",
		Description: "Template used by add when none is named",
		Default:     "bug",
	},
	{
		Key:         "json",
		Description: "Print JSON instead of text",
		Default:     false,
		Validate:    validateBool,
	},
	{
		Key:         "simple-hashing",
		Description: "Derive IDs from the title alone (reproducible, for testing)",
		Default:     false,
		Validate:    validateBool,
	},
	{
		Key:         "list.sort",
		Description: "Default list order: title, entered, id or empty for store order",
		Default:     "",
		Validate:    validateSort,
	},
	{
		Key:         "list.truncate",
		Description: "Cut list lines to this many characters (0 = terminal width when interactive)",
		Default:     0,
		Validate:    validateInt,
	},
}

var keyMap map[string]*Key

func init() {
	keyMap = make(map[string]*Key, len(Keys))
	for i := range Keys {
		keyMap[Keys[i].Key] = &Keys[i]
	}
}

// LookupKey returns the definition of a known setting, or nil.
func LookupKey(key string) *Key {
	return keyMap[key]
}

// KnownKeys returns every setting name, sorted.
func KnownKeys() []string {
	out := make([]string, 0, len(Keys))
	for _, k := range Keys {
		out = append(out, k.Key)
	}
	sort.Strings(out)
	return out
}

// ValidateKey checks that key is known and value is acceptable for it.
func ValidateKey(key, value string) error {
	k := keyMap[key]
	if k == nil {
		return fmt.Errorf("unknown setting %q; valid settings: %s", key, strings.Join(KnownKeys(), ", "))
	}
	if k.Validate != nil {
		if err := k.Validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

// Parse converts a validated string value to the type of the key's default.
func Parse(key, value string) interface{} {
	k := keyMap[key]
	if k == nil {
		return value
	}
	switch k.Default.(type) {
	case bool:
		b, _ := parseBool(value)
		return b
	case int:
		n, _ := strconv.Atoi(value)
		return n
	default:
		return value
	}
}

// Validation helpers

func validateBool(value string) error {
	if _, ok := parseBool(value); !ok {
		return fmt.Errorf("must be true or false, got %q", value)
	}
	return nil
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

func validateInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("must be a number, got %q", value)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func validateSort(value string) error {
	switch value {
	case "", "title", "entered", "id":
		return nil
	default:
		return fmt.Errorf("must be one of: title, entered, id; got %q", value)
	}
}

func validateUser(value string) error {
	if strings.ContainsAny(value, "|,") {
		return fmt.Errorf("user names cannot contain '|' or ','")
	}
	return nil
}

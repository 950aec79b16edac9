package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every settings source at fresh temp dirs and restores the
// singleton afterwards.
func isolate(t *testing.T) (userDir, projectDir string) {
	t.Helper()
	old := v
	t.Cleanup(func() { v = old })

	userDir = t.TempDir()
	projectDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	for _, k := range []string{"B_DIR", "B_USER", "B_EDITOR", "B_TEMPLATE", "B_JSON", "B_SIMPLE_HASHING", "B_LIST_SORT", "B_LIST_TRUNCATE"} {
		t.Setenv(k, "")
	}
	chdir(t, projectDir)
	return userDir, projectDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestInitializeDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, Initialize())

	assert.Equal(t, ".bugs", GetString("dir"))
	assert.Equal(t, "bug", GetString("template"))
	assert.False(t, GetBool("json"))
	assert.False(t, GetBool("simple-hashing"))
	assert.Equal(t, "", GetString("list.sort"))
	assert.Equal(t, 0, GetInt("list.truncate"))
	assert.Equal(t, "", ConfigFileUsed())
}

func TestEnvironmentBinding(t *testing.T) {
	isolate(t)
	t.Setenv("B_JSON", "true")
	t.Setenv("B_SIMPLE_HASHING", "1")
	t.Setenv("B_LIST_SORT", "entered")
	require.NoError(t, Initialize())

	assert.True(t, GetBool("json"))
	assert.True(t, GetBool("simple-hashing"))
	assert.Equal(t, "entered", GetString("list.sort"))
}

func TestSettingsFilePrecedence(t *testing.T) {
	userDir, projectDir := isolate(t)
	writeFile(t, filepath.Join(userDir, "b", "settings.toml"), "user = \"alice\"\ntemplate = \"task\"\n\n[list]\nsort = \"title\"\n")
	writeFile(t, filepath.Join(projectDir, ".bugs", "settings.toml"), "template = \"feature\"\n")

	sub := filepath.Join(projectDir, "src", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	chdir(t, sub)

	require.NoError(t, Initialize())
	assert.Equal(t, "alice", GetString("user"))
	assert.Equal(t, "feature", GetString("template"), "project settings override user settings")
	assert.Equal(t, "title", GetString("list.sort"))

	t.Setenv("B_TEMPLATE", "chore")
	assert.Equal(t, "chore", GetString("template"), "environment overrides settings files")

	Set("template", "flag")
	assert.Equal(t, "flag", GetString("template"), "explicit Set overrides everything")
}

func TestInitializeRejectsBrokenSettings(t *testing.T) {
	userDir, _ := isolate(t)
	writeFile(t, filepath.Join(userDir, "b", "settings.toml"), "user = \n")
	assert.Error(t, Initialize())
}

func TestProjectSettingsPath(t *testing.T) {
	_, projectDir := isolate(t)
	assert.Equal(t, "", ProjectSettingsPath())

	require.NoError(t, os.Mkdir(filepath.Join(projectDir, ".bugs"), 0o750))
	got := ProjectSettingsPath()
	assert.Equal(t, "settings.toml", filepath.Base(got))
	assert.Equal(t, ".bugs", filepath.Base(filepath.Dir(got)))
}

func TestNilViperIsSafe(t *testing.T) {
	old := v
	v = nil
	defer func() { v = old }()

	assert.Equal(t, "", GetString("user"))
	assert.False(t, GetBool("json"))
	assert.Equal(t, 0, GetInt("list.truncate"))
	assert.Zero(t, GetDuration("x"))
	assert.False(t, IsSet("user"))
	assert.Empty(t, AllSettings())
	Set("user", "ignored")
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"json", "true", false},
		{"json", "maybe", true},
		{"list.sort", "entered", false},
		{"list.sort", "owner", true},
		{"list.truncate", "80", false},
		{"list.truncate", "-1", true},
		{"user", "Alice", false},
		{"user", "a|b", true},
		{"nonsense", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := ValidateKey(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, true, Parse("json", "yes"))
	assert.Equal(t, 72, Parse("list.truncate", "72"))
	assert.Equal(t, "title", Parse("list.sort", "title"))
	assert.Equal(t, "raw", Parse("unknown", "raw"))
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Empty(t, s)

	s.Set("user", "alice")
	s.Set("list.sort", "title")
	s.Set("list.truncate", 80)
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	got, ok := loaded.Get("list.sort")
	require.True(t, ok)
	assert.Equal(t, "title", got)

	keys := []string{}
	for _, kv := range loaded.Flatten() {
		keys = append(keys, kv.Key)
	}
	assert.Equal(t, []string{"list.sort", "list.truncate", "user"}, keys)

	assert.True(t, loaded.Unset("list.sort"))
	assert.True(t, loaded.Unset("list.truncate"))
	assert.False(t, loaded.Unset("list.sort"))
	_, ok = loaded.Get("list")
	assert.False(t, ok, "empty tables are dropped")
}

func TestUserFallbacks(t *testing.T) {
	isolate(t)
	oldGit := gitUserName
	defer func() { gitUserName = oldGit }()
	require.NoError(t, Initialize())

	gitUserName = func() string { return "Git Name" }
	assert.Equal(t, "Git Name", User())

	gitUserName = func() string { return "" }
	t.Setenv("USER", "shell")
	assert.Equal(t, "shell", User())

	t.Setenv("B_USER", "Env Name")
	assert.Equal(t, "Env Name", User())
}

func TestEditorFallbacks(t *testing.T) {
	isolate(t)
	require.NoError(t, Initialize())

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", Editor())

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", Editor())

	Set("editor", "emacs")
	assert.Equal(t, "emacs", Editor())
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

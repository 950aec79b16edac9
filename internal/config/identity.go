package config

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// gitUserName is replaced in tests.
var gitUserName = func() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "git", "config", "user.name").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// User returns the name recorded as author and used for "me": the user
// setting (or B_USER), then git's user.name, then $USER / $USERNAME.
func User() string {
	if u := GetString("user"); u != "" {
		return u
	}
	if u := gitUserName(); u != "" {
		return u
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}

// Editor returns the command used to edit details files.
func Editor() string {
	if e := GetString("editor"); e != "" {
		return e
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	enabled     = os.Getenv("B_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	loggerMu sync.Mutex
	logger   *log.Logger
	logOut   io.Writer = os.Stderr
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
	applyLevel()
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
	applyLevel()
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

func level() log.Level {
	switch {
	case Enabled():
		return log.DebugLevel
	case quietMode:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

func applyLevel() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		logger.SetLevel(level())
	}
}

// Logger returns the structured logger shared by the command and the
// packages it drives. It logs to stderr at debug level when B_DEBUG is set
// or verbose mode is on, and only warnings otherwise.
func Logger() *log.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = log.NewWithOptions(logOut, log.Options{
			Level:           level(),
			ReportTimestamp: Enabled(),
			Prefix:          "b",
		})
	}
	return logger
}

// SetOutput redirects the logger, for tests.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logOut = w
	logger = nil
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}

package dupetree

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

var globalVerboseLevel int
var debugFlags map[string]bool

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
}

// SetLogOutput redirects verbose and warning output
func SetLogOutput(w io.Writer) {
	logger = newLogger(w)
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	logger.Debug().Str("func", funcName).Msg("enter")
	return func() {
		logger.Debug().Str("func", funcName).Msg("exit")
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		logger.Debug().Int("v", level).Msgf(strings.TrimSuffix(format, "\n"), args...)
	}
}

// Warnf logs a warning regardless of verbose level
func Warnf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("walk,hash") and key:value format ("walk:true,hash:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}

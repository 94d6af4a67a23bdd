// Package debug holds tracing toggles read from the environment.
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Emit   bool
	Engine bool
}

var (
	d      *debug
	logger *slog.Logger
)

func init() {
	d = &debug{}
	d.Parse = boolEnv("YEV_DEBUG_PARSE")
	d.Emit = boolEnv("YEV_DEBUG_EMIT")
	d.Engine = boolEnv("YEV_DEBUG_ENGINE")
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Emit() bool {
	return d.Emit
}
func Engine() bool {
	return d.Engine
}

// Log writes a structured debug record to stderr. args are slog key/value
// pairs; byte slices are rendered as quoted strings.
func Log(msg string, args ...any) {
	for i := range args {
		if b, ok := args[i].([]byte); ok {
			args[i] = strconv.Quote(string(b))
		}
	}
	logger.Debug(msg, args...)
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}

package logger

import (
	"log/slog"
	"os"
)

var base = slog.Default()

// Init configures the process logger. Production logs JSON at info
// level; everything else logs text at debug level.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

// args are key-value pairs; a single trailing error is logged under
// the "error" key.
func normalize(args []any) []any {
	if len(args)%2 == 1 {
		if err, ok := args[len(args)-1].(error); ok {
			return append(args[:len(args)-1:len(args)-1], "error", err)
		}
		return append(args[:len(args):len(args)], "")
	}
	return args
}

func Debug(msg string, args ...any) {
	base.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	base.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	base.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	base.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	base.Error(msg, normalize(args)...)
	os.Exit(1)
}

// Command jsep parses, lints and tests jsep expressions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aintaer/jsep"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "jsep:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "jsep",
		Usage:   "Parse JavaScript-like expressions",
		Version: jsep.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging on stderr",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			parseCommand(),
			lintCommand(),
			testCommand(),
			serveCommand(),
		},
	}
}

type loggerKey struct{}

// setupLogger logs to stderr, which stays free of command output.
func setupLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return ctx, fmt.Errorf("building logger: %w", err)
	}

	return context.WithValue(ctx, loggerKey{}, logger), nil
}

func loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}

	return zap.NewNop()
}

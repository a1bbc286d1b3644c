package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aintaer/jsep"
	"github.com/Aintaer/jsep/analysis"
	"github.com/Aintaer/jsep/rpc"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve parse and lint requests as JSON-RPC over stdio",
		Flags:  configFlags(),
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := cmd.Root()
	conn := rpc.NewConn(&rpc.ReadWriteCloser{Reader: root.Reader, Writer: root.Writer})

	base := loggerFrom(ctx)

	logger, stop := rpc.NewClientLogger(conn, base.Core(), zapcore.LevelOf(base.Core()))
	defer stop()

	logger.Info("Starting jsep server", zap.Bool("precedence", cfg.Precedence))

	handler := rpc.NewHandler(
		jsep.New(jsep.WithConfig(cfg), jsep.WithLogger(logger)),
		analysis.NewAnalyzer(cfg),
		logger,
	)

	return rpc.ServeConn(ctx, conn, handler)
}

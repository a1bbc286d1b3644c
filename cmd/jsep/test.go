package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Aintaer/jsep/runner"
)

// Test command errors.
var (
	ErrNoCaseFiles   = errors.New("no .jsep case files found")
	ErrInvalidFilter = errors.New("invalid --run pattern")
)

func testCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Run conformance case files",
		ArgsUsage: "[files or directories...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (" + strings.Join(testFormatNames(), ", ") + ")",
				Value:   formatAuto,
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "stop on first failure",
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "run only cases matching pattern",
			},
		}, configFlags()...),
		Action: runTest,
	}
}

// Formats accepted by --format besides runner.FormatterNames.
const (
	formatAuto = "auto"
	formatTUI  = "tui"
)

func testFormatNames() []string {
	return append([]string{formatAuto, formatTUI}, runner.FormatterNames...)
}

func runTest(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if !slices.Contains(testFormatNames(), format) {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownFormat, format, testFormatNames())
	}

	filter := cmd.String("run")
	if _, err := regexp.Compile(filter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	paths, err := collectCaseFiles(args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return ErrNoCaseFiles
	}

	files := make([]*runner.CaseFile, 0, len(paths))

	for _, path := range paths {
		file, err := runner.LoadCaseFile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		files = append(files, file)
	}

	logger := loggerFrom(ctx)
	logger.Debug("running case files", zap.Strings("paths", paths))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler, err := newTestHandler(cmd, format, filter, files, cancel)
	if err != nil {
		return err
	}

	r := runner.New(
		runner.WithConfig(cfg),
		runner.WithLogger(logger),
		runner.WithHandler(handler),
		runner.WithFailFast(cmd.Bool("fail-fast")),
		runner.WithFilter(filter),
	)

	result, err := r.RunAll(ctx, files)

	_ = handler.Summary(result)

	if err != nil {
		return fmt.Errorf("running cases: %w", err)
	}

	if !result.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}

// newTestHandler builds the output handler for format. The live tree view
// is used for "tui", and for "auto" when stdout is a terminal.
func newTestHandler(
	cmd *cli.Command,
	format, filter string,
	files []*runner.CaseFile,
	cancel context.CancelFunc,
) (runner.Summarizer, error) {
	out := cmd.Root().Writer
	errw := cmd.Root().ErrWriter

	if format == formatAuto {
		format = "dots"
		if runner.IsTerminal(out) {
			format = formatTUI
		}
	}

	if format != formatTUI {
		return runner.NewFormatHandler(runner.NewFormatter(format, out), errw), nil
	}

	selector := runner.New(runner.WithFilter(filter))
	suites := make([]runner.SuiteTree, 0, len(files))

	for _, file := range files {
		suites = append(suites, runner.BuildSuiteTree(file, selector.Selected(file)))
	}

	tui := runner.NewTUIHandler(out, errw)
	tui.SetSuites(suites)
	tui.SetCancel(cancel)

	if err := tui.Start(); err != nil {
		return nil, fmt.Errorf("starting tui: %w", err)
	}

	return tui, nil
}

// collectCaseFiles expands directories into the case files below them.
// Files named explicitly are taken whatever their extension.
func collectCaseFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		found, err := walkDir(arg)
		if err != nil {
			return nil, err
		}

		slices.Sort(found)
		files = append(files, found...)
	}

	return files, nil
}

// walkDir lists the case files under root, respecting .gitignore.
func walkDir(root string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{strings.TrimPrefix(runner.CaseFileExt, ".")}

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		files []string
		wg    sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			files = append(files, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	return files, walkErr
}

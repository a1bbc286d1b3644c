package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Aintaer/jsep"
)

// configFlags are shared by every command that builds a parser.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default: nearest .jsep.yaml)",
			Sources: cli.EnvVars("JSEP_CONFIG"),
		},
		&cli.BoolFlag{
			Name:    "precedence",
			Aliases: []string{"p"},
			Usage:   "group binary operators by conventional precedence",
		},
		&cli.StringSliceFlag{
			Name:  "unary-op",
			Usage: "unary operators, in matching order (replaces the configured list)",
		},
		&cli.StringSliceFlag{
			Name:  "binary-op",
			Usage: "binary operators, in matching order (replaces the configured list)",
		},
		&cli.StringSliceFlag{
			Name:  "keyword",
			Usage: "keywords, in matching order (replaces the configured list)",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "nesting limit (default 1024)",
		},
	}
}

// loadConfig layers flags over the config file over the defaults.
func loadConfig(cmd *cli.Command) (*jsep.Config, error) {
	var file *jsep.Config

	if path := cmd.String("config"); path != "" {
		loaded, err := jsep.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}

		file = loaded
	} else {
		loaded, err := jsep.LoadConfig(".")

		switch {
		case err == nil:
			file = loaded
		case !errors.Is(err, jsep.ErrConfigNotFound):
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	flags := &jsep.Config{
		Precedence: cmd.Bool("precedence"),
		MaxDepth:   cmd.Int("max-depth"),
	}

	if cmd.IsSet("unary-op") {
		flags.UnaryOps = cmd.StringSlice("unary-op")
	}

	if cmd.IsSet("binary-op") {
		flags.BinaryOps = cmd.StringSlice("binary-op")
	}

	if cmd.IsSet("keyword") {
		flags.Keywords = cmd.StringSlice("keyword")
	}

	return jsep.DefaultConfig().Merge(file).Merge(flags), nil
}

// input is one expression to process and where it came from.
type input struct {
	label string
	expr  string
}

// readInputs returns the command's arguments, or the non-blank lines of its
// reader when there are none.
func readInputs(cmd *cli.Command) ([]input, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		inputs := make([]input, len(args))
		for i, arg := range args {
			inputs[i] = input{label: fmt.Sprintf("#%d", i+1), expr: arg}
		}

		return inputs, nil
	}

	var inputs []input

	scanner := bufio.NewScanner(cmd.Root().Reader)
	for line := 1; scanner.Scan(); line++ {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}

		inputs = append(inputs, input{label: fmt.Sprintf("stdin:%d", line), expr: scanner.Text()})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}

	return inputs, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/Aintaer/jsep"
)

// Parse command errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrParseFailed   = errors.New("some expressions failed to parse")
)

var parseFormats = []string{"sexpr", "json", "yaml", "source"}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse expressions and print their trees",
		ArgsUsage: "[expressions...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (" + strings.Join(parseFormats, ", ") + ")",
				Value:   "sexpr",
			},
		}, configFlags()...),
		Action: runParse,
	}
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if !slices.Contains(parseFormats, format) {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownFormat, format, parseFormats)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd)
	if err != nil {
		return err
	}

	logger := loggerFrom(ctx)
	parser := jsep.New(jsep.WithConfig(cfg), jsep.WithLogger(logger))

	out := cmd.Root().Writer
	errOut := cmd.Root().ErrWriter
	failed := false

	for i, in := range inputs {
		node, err := parser.Parse(in.expr)
		if err != nil {
			failed = true

			fmt.Fprintf(errOut, "%s: %v\n", in.label, err)

			continue
		}

		text, err := render(format, node)
		if err != nil {
			return fmt.Errorf("%s: %w", in.label, err)
		}

		if format == "yaml" && i > 0 {
			fmt.Fprintln(out, "---")
		}

		fmt.Fprintln(out, strings.TrimSuffix(text, "\n"))
	}

	if failed {
		return ErrParseFailed
	}

	return nil
}

// render prints node in one of parseFormats.
func render(format string, node jsep.Node) (string, error) {
	switch format {
	case "json":
		data, err := json.Marshal(jsep.ToMap(node))
		return string(data), err
	case "yaml":
		data, err := yaml.Marshal(jsep.ToMap(node))
		return string(data), err
	case "source":
		return jsep.Source(node), nil
	default:
		return jsep.Sexpr(node), nil
	}
}

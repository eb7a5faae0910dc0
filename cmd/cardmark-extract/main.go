// Local command-line extractor: reads a Verbatim .docx and writes
// <stem>_read-doc.docx next to it, keeping card structure and marked runs.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/debatetools/cardmark/verbatim"
)

func main() {
	app := &cli.App{
		Name:      "cardmark-extract",
		Usage:     "keep only highlighted/underlined text from a Verbatim .docx",
		ArgsUsage: "<input.docx>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "highlighted", Aliases: []string{"H"}, Usage: "keep only highlighted runs"},
			&cli.BoolFlag{Name: "underlined", Aliases: []string{"U"}, Usage: "keep only underlined runs"},
			&cli.BoolFlag{Name: "and", Aliases: []string{"A"}, Usage: "keep only runs both highlighted and underlined"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path (default: <stem>_read-doc.docx)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Action: runExtract,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runExtract(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	input := c.Args().First()
	if input == "" {
		return cli.Exit("usage: cardmark-extract [-H|-U|-A] <input.docx>", 2)
	}

	mode := verbatim.ModeEither
	switch {
	case c.Bool("and"):
		mode = verbatim.ModeAnd
	case c.Bool("highlighted") && c.Bool("underlined"):
		mode = verbatim.ModeEither
	case c.Bool("highlighted"):
		mode = verbatim.ModeHighlighted
	case c.Bool("underlined"):
		mode = verbatim.ModeUnderlined
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ex := verbatim.New(verbatim.Config{Logger: logger})
	res, err := ex.Extract(data, mode)
	if err != nil {
		return cli.Exit(fmt.Sprintf("extract %s: %v", input, err), 1)
	}

	output := c.String("output")
	if output == "" {
		output = filepath.Join(filepath.Dir(input), verbatim.OutputFilename(input))
	}
	if err := os.WriteFile(output, res.Data, 0o644); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Info("extraction done",
		"input", input, "output", output, "mode", mode,
		"paragraphs_kept", res.ParagraphsKept,
		"paragraphs_dropped", res.ParagraphsDropped,
		"runs_dropped", res.RunsDropped)
	if res.Empty() {
		logger.Warn("no marked content found; the output document is empty")
	}
	return nil
}

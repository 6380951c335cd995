package main

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/wildcat/internal/adapters/importer"
	"github.com/okian/wildcat/internal/adapters/report"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/scoring"
	"github.com/urfave/cli/v2"
)

const (
	rosterFlag   = "roster"
	barcodesFlag = "barcodes"
	timesFlag    = "times"
	combinedFlag = "combined"
	formatFlag   = "format"
	outputFlag   = "output"
	meetFlag     = "meet"

	outputFilePermission = 0o644
)

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score a heat from roster, barcode and timer files",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     rosterFlag,
				Aliases:  []string{"r"},
				Usage:    "Tab-separated roster: id, name, team, grade, gender",
				Required: true,
			},
			&cli.StringFlag{
				Name:     barcodesFlag,
				Aliases:  []string{"b"},
				Usage:    "Runner ids in finish order, one per line",
				Required: true,
			},
			&cli.StringFlag{
				Name:     timesFlag,
				Aliases:  []string{"t"},
				Usage:    "Chute timer export; elapsed seconds in the seventh column",
				Required: true,
			},
		}, reportFlags()...),
		Action: func(cCtx *cli.Context) error {
			m, finishes, err := importer.Load(importer.Files{
				Roster:   cCtx.String(rosterFlag),
				Barcodes: cCtx.String(barcodesFlag),
				Times:    cCtx.String(timesFlag),
			})
			if err != nil {
				return err
			}
			return scoreAndWrite(cCtx, m, finishes)
		},
	}
}

// reportFlags are shared by every command that prints a scored heat.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  combinedFlag,
			Usage: "Split each team's first seven finishers into varsity and the rest into JV",
		},
		&cli.StringFlag{
			Name:  formatFlag,
			Usage: "text, summary, yaml or json",
			Value: string(report.FormatText),
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "The location to write the results. Can be a file path or \"-\" (for stdout).",
			Value:   stdoutCLIName,
		},
		&cli.StringFlag{
			Name:  meetFlag,
			Usage: "Meet name printed in the report header",
		},
	}
}

func scoreAndWrite(cCtx *cli.Context, m *meet.Meet, finishes []model.Finish) error {
	format, err := report.ParseFormat(cCtx.String(formatFlag))
	if err != nil {
		return err
	}
	if name := cCtx.String(meetFlag); name != "" {
		m.Name = name
	}
	mode := heat.ModeSingle
	if cCtx.Bool(combinedFlag) {
		mode = heat.ModeCombined
	}

	h, err := scoring.NewEngine(m.Roster).Score(mode, finishes)
	if err != nil {
		return err
	}

	out := openOutput(cCtx.String(outputFlag), cCtx.App.Writer)
	if err := report.Write(out, format, m, h); err != nil {
		_ = out.Close()
		return fmt.Errorf("write results: %w", err)
	}
	return out.Close()
}

// openOutput returns stdout for "-" and otherwise a file opened on first
// write.
func openOutput(location string, stdout io.Writer) io.WriteCloser {
	if location == "" || location == stdoutCLIName {
		return nopCloser{stdout}
	}
	return newLazyWriteCloser(func() (io.WriteCloser, error) {
		return os.OpenFile(location, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	})
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

package main

import (
	"fmt"

	"github.com/okian/wildcat/internal/testrace"
	"github.com/urfave/cli/v2"
)

const (
	seedFlag       = "seed"
	teamsFlag      = "teams"
	minRunnersFlag = "min-runners"
	maxRunnersFlag = "max-runners"
	dirFlag        = "dir"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Generate a synthetic meet and score it, or write its input files",
		Flags: append([]cli.Flag{
			&cli.Int64Flag{Name: seedFlag, Usage: "Random seed; equal seeds give equal meets", Value: 42},
			&cli.IntFlag{Name: teamsFlag, Usage: "Number of teams", Value: 6},
			&cli.IntFlag{Name: minRunnersFlag, Usage: "Fewest finishers per team", Value: 3},
			&cli.IntFlag{Name: maxRunnersFlag, Usage: "Most finishers per team", Value: 10},
			&cli.StringFlag{
				Name:  dirFlag,
				Usage: "Write roster.txt, barcodes.txt and times.txt here instead of scoring",
			},
		}, reportFlags()...),
		Action: func(cCtx *cli.Context) error {
			race, err := testrace.Generate(testrace.NewConfig(
				testrace.WithSeed(cCtx.Int64(seedFlag)),
				testrace.WithTeams(cCtx.Int(teamsFlag)),
				testrace.WithRunnersPerTeam(cCtx.Int(minRunnersFlag), cCtx.Int(maxRunnersFlag)),
			))
			if err != nil {
				return err
			}

			if dir := cCtx.String(dirFlag); dir != "" {
				files, err := race.WriteFiles(dir)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cCtx.App.Writer, "%s\n%s\n%s\n", files.Roster, files.Barcodes, files.Times)
				return err
			}
			return scoreAndWrite(cCtx, race.Meet, race.Finishes())
		},
	}
}

package main

import (
	"github.com/okian/wildcat/internal/loadtest"
	"github.com/urfave/cli/v2"
)

func loadtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "loadtest",
		Usage: "Submit simulated heats to a running service and verify the standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Base URL of the service", Value: loadtest.DefaultBaseURL},
			&cli.StringFlag{Name: rosterFlag, Usage: "Roster the service was started with", Required: true},
			&cli.IntFlag{Name: "heats", Usage: "Distinct heats to submit", Value: loadtest.DefaultHeats},
			&cli.IntFlag{Name: "duplicates", Usage: "Heats to resubmit with the same submission_id"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent submitters", Value: loadtest.DefaultWorkers},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP request timeout", Value: loadtest.DefaultTimeout},
			&cli.DurationFlag{Name: "wait", Usage: "How long to wait for heats to be scored", Value: loadtest.DefaultWait},
			&cli.Int64Flag{Name: seedFlag, Usage: "Seed for finish orders and times", Value: 1},
			&cli.BoolFlag{Name: combinedFlag, Usage: "Submit combined heats"},
			&cli.StringFlag{Name: outputFlag, Usage: "Write the submitted heats as JSON to this file"},
		},
		Action: func(cCtx *cli.Context) error {
			_, err := loadtest.Run(cCtx.Context, loadtest.Config{
				BaseURL:    cCtx.String("url"),
				RosterFile: cCtx.String(rosterFlag),
				Heats:      cCtx.Int("heats"),
				Duplicates: cCtx.Int("duplicates"),
				Workers:    cCtx.Int("workers"),
				Timeout:    cCtx.Duration("timeout"),
				Wait:       cCtx.Duration("wait"),
				Seed:       cCtx.Int64(seedFlag),
				Combined:   cCtx.Bool(combinedFlag),
				OutputFile: cCtx.String(outputFlag),
			})
			return err
		},
	}
}

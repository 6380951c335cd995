package main

import (
	"fmt"
	"os"

	"github.com/okian/wildcat/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"
	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func newApp() *cli.App {
	return &cli.App{
		Name:    "wildcat",
		Usage:   "Cross-country meet scoring",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    logLevelFlag,
				Usage:   "debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"WILDCAT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    logFormatFlag,
				Usage:   "text or json",
				Value:   "text",
				EnvVars: []string{"WILDCAT_LOG_FORMAT"},
			},
		},
		Before: func(cCtx *cli.Context) error {
			if err := logger.InitWithFormat(cCtx.String(logFormatFlag)); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			return logger.SetLevelString(cCtx.String(logLevelFlag))
		},
		After: func(*cli.Context) error {
			return logger.Sync()
		},
		Commands: []*cli.Command{
			scoreCommand(),
			serveCommand(),
			simulateCommand(),
			loadtestCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Stderr.WriteString("wildcat: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// cmd/main.go

package main

import (
	"os"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"SeqPipe/pkg/utils"
	"SeqPipe/pkg/version"
)

var logger = utils.GetLogger("seqpipe")

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print only the version",
	}
	app := &cli.App{
		Name:            "seqpipe",
		Usage:           "chunked, order-preserving paired-end FASTQ processing",
		Version:         version.Version(),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"debug", "v"},
				Usage:   "enable debug log",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only warning and errors",
			},
			&cli.BoolFlag{
				Name:  "no-agent",
				Usage: "disable the diagnostic agent",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "append logs to this file instead of stderr",
			},
		},
		Commands: []*cli.Command{
			trimFlags(),
			infoFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%s", err)
	}
}

func setLoggerLevel(c *cli.Context) {
	if c.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if c.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	} else {
		utils.SetLogLevel(logrus.InfoLevel)
	}
	if path := c.String("log"); path != "" {
		utils.SetOutFile(path)
	}
	if !c.Bool("no-agent") {
		go func() {
			if err := agent.Listen(agent.Options{}); err != nil {
				logger.Warnf("diagnostic agent: %s", err)
			}
		}()
	}
}

package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	app := &cli.App{
		Name:  "region-atlas",
		Usage: "Collect cloud provider regions and map them to countries",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "Log verbosity level",
			},
			&cli.StringFlag{
				Name:    "database",
				Usage:   "SQLite database path (overrides DATABASE_URL)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   outputJSON,
				Usage:   "Output format: json or table",
			},
		},
		Before: func(c *cli.Context) error {
			return flag.Set("v", strconv.Itoa(c.Int("verbosity")))
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the database and seed providers and countries",
				Action: initCommand,
			},
			{
				Name:  "refresh",
				Usage: "Fetch regions from every provider and store them",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Repeat the refresh at this interval (overrides REFRESH_INTERVAL)",
					},
					&cli.IntFlag{
						Name:  "metrics-port",
						Usage: "Serve Prometheus metrics on this port while refreshing",
					},
				},
				Action: refreshCommand,
			},
			{
				Name:  "regions",
				Usage: "List available regions",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "provider",
						Usage: "Only list regions of these providers",
					},
					&cli.BoolFlag{
						Name:  "by-continent",
						Usage: "Group regions by continent",
					},
				},
				Action: regionsCommand,
			},
			{
				Name:  "countries",
				Usage: "List countries with the providers covering them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "continent",
						Usage: "Only list countries in this continent bucket (americas, europe-africa, apac)",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "List the country codes covered by one provider",
					},
				},
				Action: countriesCommand,
			},
			{
				Name:   "providers",
				Usage:  "List providers and their display colors",
				Action: providersCommand,
			},
			{
				Name:  "logs",
				Usage: "Show recent refresh log entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Number of entries to show",
					},
				},
				Action: logsCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show region statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		klog.ErrorS(err, "Command failed")
		klog.Flush()
		os.Exit(1)
	}
}

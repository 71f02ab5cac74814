package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Name = "plume"
	app.Usage = "Plume growth and quest backend"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the toml configuration file",
			Value: configFlagValue(),
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves every public and management endpoint.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Apply pending database migrations",
			Category:    "Database",
			Description: `Creates missing tables and seeds the built-in achievements.`,
		},
	}

	s.app = app
}

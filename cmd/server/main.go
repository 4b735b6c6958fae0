package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "sevasetu",
		Usage:  "Volunteer management API",
		Action: serve,
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			createAdminCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}

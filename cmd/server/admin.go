package main

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"sevasetu/internal/config"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Action: func(cCtx *cli.Context) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := config.Migrate(a.db); err != nil {
			return err
		}
		logrus.Info("Database migration completed successfully")
		return nil
	},
}

var createAdminCommand = &cli.Command{
	Name:  "create-admin",
	Usage: "Provision an admin account",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Value: "Administrator"},
	},
	Action: func(cCtx *cli.Context) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := config.Migrate(a.db); err != nil {
			return err
		}

		svc, _, err := a.service(cCtx.Context, nil)
		if err != nil {
			return err
		}

		admin, err := svc.CreateAdmin(cCtx.Context, cCtx.String("name"), cCtx.String("email"), cCtx.String("password"))
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email}).Info("admin created")
		return nil
	},
}

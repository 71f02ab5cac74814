package main

import (
	"github.com/plumehq/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()

	if err := migration.Migrate(s.baseContext()); err != nil {
		return err
	}

	s.logger.Infof("Migrations applied")
	return nil
}

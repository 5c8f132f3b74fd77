package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/alama/storage/database"
)

// initDB creates the schema on the configured database.
func (cli *commandLine) initDB() error {
	db, err := database.Open(cli.conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return errors.Wrap(err, "ensuring schema")
	}
	logger.Printf("database schema up to date on %s/%s", cli.conf.DatabaseAddress(), cli.conf.Database.Name)
	return nil
}

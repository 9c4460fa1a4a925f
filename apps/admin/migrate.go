package main

import (
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

var errNoSQLDatabase = errors.New("migrations only apply to the postgres document store")

func (cli *commandLine) migrate(args []string) error {
	if cli.openDB == nil {
		return errNoSQLDatabase
	}
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	if db == nil {
		return errNoSQLDatabase
	}
	defer db.Close()
	return gooseRunFunc(db, args[0], args[1:]...)
}

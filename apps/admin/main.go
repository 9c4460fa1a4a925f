package main

import (
	"database/sql"
	"fmt"
	"os"

	dig_container "github.com/omi-1602/Venz-edu/apps/api/di/dig"
	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/seed"
	"github.com/omi-1602/Venz-edu/storage/database"
)

func main() {
	dig_container.Prefix = "ADMIN"
	container := dig_container.New()

	var code int
	err := container.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		docs core.DocumentStore,
		accountSvc account.ServiceInterface,
		seedSvc seed.ServiceInterface,
	) {
		defer docs.Close()

		cli := commandLine{accountSvc: accountSvc, seedSvc: seedSvc}
		if conf.Database.Engine == core.EnginePostgres {
			cli.openDB = func() (*sql.DB, error) { return database.Open(conf) }
		}
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
			}
			code = 1
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		code = 1
	}
	os.Exit(code)
}

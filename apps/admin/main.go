package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/jsondb"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logsvc.NewZapLogger(conf.Env, "ADMIN")
	if err != nil {
		log.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	defer logger.Sync()

	// set up DB; every command persists explicitly. A missing file is created on first persist.
	db := jsondb.Open(conf.DB.Path, logger)
	if err := db.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error(fmt.Sprintf("loading database: %v", err), err)
		logger.Sync()
		os.Exit(1)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		acctSvc:  account.NewService(jsondb.NewAccountRepository(db)),
		store:    db,
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

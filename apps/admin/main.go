package main

import (
	"log"
	"os"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/state"
	logsvc "github.com/trezcool/classhub/services/logger"
	"github.com/trezcool/classhub/storage/database"
	sqlxrepos "github.com/trezcool/classhub/storage/database/sqlx"
	miniostore "github.com/trezcool/classhub/storage/objectstore/minio"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf.Database)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	files, err := miniostore.New(conf.Storage)
	errAndDie(err)
	validate, _ := state.NewValidator()
	remote, err := gateway.New(sqlxrepos.Repositories(db, files), validate, logsvc.NewRollbarLogger(logger, conf))
	errAndDie(err)

	// start CLI
	cli := commandLine{
		conf:   conf,
		db:     db.DB,
		remote: remote,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"log"
	"os"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
	logsvc "github.com/SELab-2/Dwengo-1/services/logger"
	"github.com/SELab-2/Dwengo-1/storage/database"
	sqlxrepos "github.com/SELab-2/Dwengo-1/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	store := sqlxrepos.NewStore(db)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		usrSvc:   user.NewService(store.Tx, store.Users),
		classSvc: classroom.NewClassService(store, conf.JoinCodeLength),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

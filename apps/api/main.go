package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/alama/apps/api/echo"
	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
	"github.com/trezcool/alama/core/roster"
	emailsvc "github.com/trezcool/alama/services/email"
	sendgridmail "github.com/trezcool/alama/services/email/sendgrid"
	firebaseid "github.com/trezcool/alama/services/identity/firebase"
	logsvc "github.com/trezcool/alama/services/logger"
	"github.com/trezcool/alama/storage/database"
	dummydb "github.com/trezcool/alama/storage/database/dummy"
	sqlxrepos "github.com/trezcool/alama/storage/database/sqlx"
	"github.com/trezcool/alama/storage/spreadsheet"
)

func main() {
	conf := core.Conf

	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage
	var repo roster.Repository
	if conf.Debug {
		memDB, err := dummydb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		repo = dummydb.NewDatasetRepository(memDB)
	} else {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("failed to close database", err)
			}
		}()
		if err = database.EnsureSchema(db); err != nil {
			logger.Fatal(fmt.Sprintf("ensuring database schema: %v", err), err)
		}
		repo = sqlxrepos.NewDatasetRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}
	identitySvc := firebaseid.NewService(conf)
	rosterSvc := roster.NewService(repo, logger)
	reportSvc := report.NewService(repo, spreadsheet.NewCodec(), mailSvc, logger)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : env %q", conf.Env))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Addr:      conf.Address(),
			Logger:    logger,
			Identity:  identitySvc,
			RosterSvc: rosterSvc,
			ReportSvc: reportSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/SELab-2/Dwengo-1/apps/api/echo"
	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/core/user"
	emailsvc "github.com/SELab-2/Dwengo-1/services/email"
	logsvc "github.com/SELab-2/Dwengo-1/services/logger"
	"github.com/SELab-2/Dwengo-1/storage/database"
	sqlxrepos "github.com/SELab-2/Dwengo-1/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	store := sqlxrepos.NewStore(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	uni := core.NewUniversalTranslator()
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	userSvc := user.NewService(store.Tx, store.Users)
	server := echoapi.NewServer(&echoapi.Deps{
		Conf:                 conf,
		Logger:               logger,
		Validate:             validate,
		Uni:                  uni,
		UserSvc:              userSvc,
		PasswordResetSvc:     user.NewPasswordResetService(userSvc, mailSvc, conf),
		LearningSvc:          learning.NewService(store.LearningPaths),
		ClassSvc:             classroom.NewClassService(store, conf.JoinCodeLength),
		StudentSvc:           classroom.NewStudentService(store, mailSvc),
		AssignmentSvc:        classroom.NewAssignmentService(store),
		StudentAssignmentSvc: classroom.NewStudentAssignmentService(store),
		StudentTeamSvc:       classroom.NewStudentTeamService(store),
		TeacherTeamsSvc:      classroom.NewTeacherTeamsService(store),
		QuestionSvc:          question.NewService(store, sqlxrepos.NewQuestionRepository(db)),
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

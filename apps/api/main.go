package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/grow/apps/api/echo"
	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
	"github.com/trezcool/grow/core/user"
	emailsvc "github.com/trezcool/grow/services/email"
	logsvc "github.com/trezcool/grow/services/logger"
	"github.com/trezcool/grow/storage/database"
	sqlxrepos "github.com/trezcool/grow/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	dbLogger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sdb), mailSvc)
	scheduleSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(sdb))
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(sdb))
	homeworkSvc := homework.NewService(sqlxrepos.NewHomeworkRepository(sdb), scheduleSvc, taskSvc)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Address(),
			Logger:      logger,
			UserSvc:     usrSvc,
			ScheduleSvc: scheduleSvc,
			TaskSvc:     taskSvc,
			HomeworkSvc: homeworkSvc,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

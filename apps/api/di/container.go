package di

import (
	"fmt"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifysvc "github.com/trezcool/darasa/services/notify"
	"github.com/trezcool/darasa/storage/jsondb"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newRollbarLogger(conf *core.Config, name string) (*logsvc.RollbarLogger, error) {
	zl, err := logsvc.NewZapLogger(conf.Env, name)
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)
	return logger, nil
}

func newLogger(conf *core.Config) (*logsvc.RollbarLogger, core.Logger, error) {
	logger, err := newRollbarLogger(conf, "API")
	if err != nil {
		return nil, nil, err
	}
	return logger, logger, nil
}

func newDBLogger(conf *core.Config) (core.Logger, error) {
	return newRollbarLogger(conf, "DB")
}

// newDB loads the database file. A failed load is not fatal: the API starts on an empty database.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *jsondb.DB {
	db := jsondb.Open(conf.DB.Path, loggerParam.Logger, jsondb.WithPersistOnWrite(conf.DB.PersistOnWrite))
	if err := db.Load(); err != nil {
		loggerParam.Logger.Error(fmt.Sprintf("loading database failed, starting empty: %v", err), err)
	}
	return db
}

func newFlusher(conf *core.Config, db *jsondb.DB, loggerParam DBLoggerParam) *jsondb.Flusher {
	return jsondb.NewFlusher(db, conf.DB.FlushInterval, loggerParam.Logger)
}

func newGateway(conf *core.Config) course.Gateway {
	return course.NewMockGateway(conf.Payment.SuccessRate)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	acctSvc account.Service,
	courseSvc course.Service,
	lessonSvc lesson.Service,
	adminSvc admin.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: acctSvc,
		CourseSvc:  courseSvc,
		LessonSvc:  lessonSvc,
		AdminSvc:   adminSvc,
		Validate:   validate,
		Translator: translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newFlusher))
	must(c.Provide(notifysvc.NewConsoleService))
	must(c.Provide(newGateway))
	must(c.Provide(jsondb.NewAccountRepository))
	must(c.Provide(jsondb.NewCourseRepository))
	must(c.Provide(jsondb.NewLessonRepository))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(account.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(lesson.NewService))
	must(c.Provide(admin.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/omi-1602/Venz-edu/apps/api/echo"
	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/notification"
	"github.com/omi-1602/Venz-edu/core/seed"
	emailsvc "github.com/omi-1602/Venz-edu/services/email"
	identitysvc "github.com/omi-1602/Venz-edu/services/identity"
	logsvc "github.com/omi-1602/Venz-edu/services/logger"
	"github.com/omi-1602/Venz-edu/storage/database"
	firestoredb "github.com/omi-1602/Venz-edu/storage/database/firestore"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// FirebaseAppFunc lazily initializes the firebase app shared by firestore and firebase auth.
type FirebaseAppFunc func() (*firebase.App, error)

type ServerParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	AccountSvc account.ServiceInterface
	SeedSvc    seed.ServiceInterface
	Identity   core.IdentityProvider
	Validate   *validator.Validate
	Translator ut.Translator
}

// Prefix names the standard logger output, "API" by default.
var Prefix = "API"

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, Prefix+" : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newFirebaseApp(conf *core.Config) FirebaseAppFunc {
	var (
		once sync.Once
		app  *firebase.App
		err  error
	)
	return func() (*firebase.App, error) {
		once.Do(func() {
			app, err = firestoredb.NewFirebaseApp(context.Background(), conf)
		})
		return app, err
	}
}

func newDocumentStore(conf *core.Config, firebaseApp FirebaseAppFunc, loggerParam DBLoggerParam) core.DocumentStore {
	docs, err := database.OpenDocumentStore(context.Background(), conf, firebaseApp)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up document store: %v", err), err)
	}
	return docs
}

func newIdentityProvider(conf *core.Config, docs core.DocumentStore, firebaseApp FirebaseAppFunc, logger core.Logger) core.IdentityProvider {
	identity, err := identitysvc.New(context.Background(), conf, docs, firebaseApp)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up identity provider: %v", err), err)
	}
	return identity
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	return validate
}

func newSeedService(conf *core.Config, docs core.DocumentStore, logger core.Logger) seed.ServiceInterface {
	return seed.NewService(docs, conf.SeedToken, logger)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		AccountSvc: p.AccountSvc,
		SeedSvc:    p.SeedSvc,
		Identity:   p.Identity,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newFirebaseApp))
	must(c.Provide(newDocumentStore))
	must(c.Provide(newIdentityProvider))
	must(c.Provide(emailsvc.New))
	must(c.Provide(notification.NewDispatcher, dig.As(new(account.Notifier))))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(account.NewService, dig.As(new(account.ServiceInterface))))
	must(c.Provide(newSeedService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

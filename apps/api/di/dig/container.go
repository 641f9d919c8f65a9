package dig_container

import (
	"context"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/classhub/apps/api/echo"
	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/session"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/view"
	logsvc "github.com/trezcool/classhub/services/logger"
	"github.com/trezcool/classhub/storage/database"
	inmemdb "github.com/trezcool/classhub/storage/database/inmem"
	sqlxrepos "github.com/trezcool/classhub/storage/database/sqlx"
	miniostore "github.com/trezcool/classhub/storage/objectstore/minio"
	"github.com/trezcool/classhub/storage/objectstore/memstore"
	boltprefs "github.com/trezcool/classhub/storage/prefs/bolt"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// DBHandle is the PostgreSQL connection pool. DB is nil when the collections are kept in memory.
type DBHandle struct {
	DB *sqlx.DB
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
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

func newDB(conf *core.Config, loggerParam DBLoggerParam) DBHandle {
	if conf.Database.InMemory {
		return DBHandle{}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf.Database); err != nil {
			return nil, err
		}

		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(db); err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB, "up"); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal("setting up database", err)
	}
	return DBHandle{DB: db}
}

func newFileStore(conf *core.Config, logger core.Logger) gateway.FileStore {
	if conf.Storage.InMemory {
		baseURL := conf.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = "http://" + conf.Server.Host + "/files"
		}
		return memstore.New(baseURL)
	}

	store, err := miniostore.New(conf.Storage)
	if err == nil {
		err = store.EnsureBucket(context.Background())
	}
	if err != nil {
		logger.Fatal("setting up object store", err)
	}
	return store
}

func newRepositories(handle DBHandle, files gateway.FileStore) gateway.Repositories {
	if handle.DB == nil {
		return inmemdb.Open().Repositories(files)
	}
	return sqlxrepos.Repositories(handle.DB, files)
}

func newRegistrar(conf *core.Config) *identity.Registrar {
	return identity.NewRegistrar(conf.ElevationSecretHash)
}

func newTable() (*i18n.Table, error) {
	return i18n.NewTable()
}

func newPrefs(conf *core.Config, logger core.Logger) *boltprefs.Store {
	prefs, err := boltprefs.Open(conf.Prefs)
	if err != nil {
		logger.Fatal("opening preferences", err)
	}
	return prefs
}

type sessionParams struct {
	dig.In
	Conf       *core.Config
	Remote     *gateway.Gateway
	Registrar  *identity.Registrar
	Table      *i18n.Table
	Prefs      *boltprefs.Store
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger
}

func newSessionManager(p sessionParams) (*session.Manager, error) {
	return session.NewManager(session.Deps{
		Remote:     p.Remote,
		Registrar:  p.Registrar,
		Table:      p.Table,
		Prefs:      p.Prefs,
		Validate:   p.Validate,
		Translator: p.Translator,
		Logger:     p.Logger,
	}, p.Conf.Server.SessionTTL)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newFileStore))
	must(c.Provide(newRepositories))
	must(c.Provide(gateway.New))
	must(c.Provide(newRegistrar))
	must(c.Provide(newTable))
	must(c.Provide(state.NewValidator))
	must(c.Provide(newPrefs))
	must(c.Provide(newSessionManager))
	must(c.Provide(view.NewRouter))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

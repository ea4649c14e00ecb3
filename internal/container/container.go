package container

import (
	"context"
	"fmt"
	"net/http"

	"facultysite/adapters/excel"
	"facultysite/adapters/filestore"
	"facultysite/adapters/postgres"
	"facultysite/adapters/sheets"
	"facultysite/app"
	"facultysite/internal"
	"facultysite/internal/api"
	"facultysite/internal/config"
	"facultysite/internal/errors"
	"facultysite/internal/migration"
	"facultysite/internal/tables"
	"facultysite/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config  *config.Config
	Logger  *internal.Logger
	Catalog *tables.Catalog

	// Infrastructure
	DB       *sqlx.DB
	Registry *prometheus.Registry

	// Ports
	Source ports.TableSource
	Store  ports.DocumentStore

	// Services
	Metrics        *app.Metrics
	RefreshService *app.RefreshService
	Scheduler      *app.Scheduler

	// HTTP
	Events  *api.RefreshHub
	Handler http.Handler
}

// New creates a new dependency injection container with every component wired
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	catalog, err := tables.Load(cfg.Source.TablesFile)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	c.Catalog = catalog

	if err := c.initSource(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize tabular source")
	}

	if err := c.initStore(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to initialize document store")
	}

	c.initServices()
	c.initHTTP()

	logger.Info("Container initialized (source=%s, store=%s)", cfg.Source.Backend, cfg.Store.Backend)
	return c, nil
}

// initSource creates the configured tabular source
func (c *Container) initSource(ctx context.Context) error {
	switch c.Config.Source.Backend {
	case config.SourceSheets:
		src, err := sheets.NewSheetSource(ctx, sheets.Config{
			SpreadsheetID:   c.Config.Source.SpreadsheetID,
			CredentialsFile: c.Config.Source.CredentialsFile,
			APIKey:          c.Config.Source.APIKey,
		}, c.Logger)
		if err != nil {
			return errors.SourceUnavailable("sheets client", err)
		}
		c.Source = src
	case config.SourceExcel:
		c.Source = excel.NewWorkbookSource(c.Config.Source.ExcelFile, c.Logger)
	default:
		return errors.ConfigInvalid("unknown source backend " + c.Config.Source.Backend)
	}
	return nil
}

// initStore creates the configured document store
func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Backend {
	case config.StoreFile:
		c.Store = filestore.New(c.Config.Store.CacheFile)
	case config.StorePostgres:
		db, err := initDatabase(ctx, c.Config.Store.DatabaseURL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Store = postgres.NewDocumentRepository(db)
	default:
		return errors.ConfigInvalid("unknown store backend " + c.Config.Store.Backend)
	}
	return nil
}

// initDatabase connects to PostgreSQL and applies the schema
func initDatabase(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.StoreError("failed to connect to database", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.StoreError("database migration failed", err)
	}
	return db, nil
}

func (c *Container) initServices() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = app.NewMetrics(c.Registry)
	c.Events = api.NewRefreshHub(c.Logger)

	c.RefreshService = app.NewRefreshService(c.Source, c.Store, c.Catalog,
		app.WithMetrics(c.Metrics),
		app.WithLogger(c.Logger),
		app.WithEvents(c.Events),
		app.WithTimeout(c.Config.Refresh.Timeout),
	)

	c.Scheduler = app.NewScheduler(
		c.RefreshService,
		c.Config.Refresh.Interval,
		c.Config.Refresh.MaxRetries,
		c.Config.Refresh.OnStartup,
		c.Logger,
	)
}

func (c *Container) initHTTP() {
	handler := api.NewFacultyHandler(c.RefreshService, c.Config.Refresh.Secret, c.Logger)
	c.Handler = api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: c.Config.Server.CORSOrigins,
		Gatherer:    c.Registry,
		Events:      c.Events,
	}, c.Logger)
}

// Shutdown stops background work and releases resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Events != nil {
		c.Events.Close()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return errors.StoreError("failed to close database", err)
		}
	}
	c.Logger.Info("Container shut down")
	return nil
}

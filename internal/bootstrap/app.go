package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/accounts"
	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/sessions"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/storage/db"
	mongostore "jobboard-backend/internal/shared/storage/mongo"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
	"jobboard-backend/internal/shared/storage/selector"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/uploads"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	Monitor *selector.Monitor
	DB      *sql.DB
	Mongo   *mongostore.Store
	Objects object.ObjectStore

	Sessions     *sessions.Service
	Accounts     *accounts.Service
	Jobs         *jobs.Service
	Applications *applications.Service
	Uploads      *uploads.Service
	Health       *health.Service

	closers  []func(context.Context) error
	stopOnce sync.Once
	stop     context.CancelFunc
}

// primary is the configured durable backend. A zero value means memory only.
type primary struct {
	name         string
	pinger       selector.Pinger
	onFirstUp    func(ctx context.Context) error
	accounts     accounts.Repo
	jobs         jobs.Repo
	applications applications.Repo
}

// Build prepares dependencies and routes. It does not touch the network;
// call Start to probe the primary store.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	p, err := app.buildPrimary(ctx)
	if err != nil {
		return nil, err
	}
	app.Monitor = selector.NewMonitor(p.pinger, selector.Options{
		Name:          p.name,
		ProbeInterval: cfg.StorageProbeInterval,
		OnFirstUp:     p.onFirstUp,
	})

	objects, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Objects = objects

	sess, err := app.buildSessions(cfg)
	if err != nil {
		return nil, err
	}
	app.Sessions = sess

	accountsRepo := selectRepo[accounts.Repo](app.Monitor, p.accounts, accounts.NewMemoryRepo())
	jobsRepo := selectRepo[jobs.Repo](app.Monitor, p.jobs, jobs.NewMemoryRepo())
	applicationsRepo := selectRepo[applications.Repo](app.Monitor, p.applications, applications.NewMemoryRepo())

	app.Accounts = accounts.NewService(accountsRepo, cfg.EmailScope)
	app.Applications = applications.NewService(applicationsRepo, jobDirectory{repo: jobsRepo}, applicantDirectory{accounts: app.Accounts})
	app.Jobs = jobs.NewService(jobsRepo, companyDirectory{accounts: app.Accounts}, app.Applications)
	app.Uploads = uploads.NewService(objects, app.Accounts, cfg.MaxBlobBytes, cfg.PublicBaseURL)
	app.Health = health.NewService(app.Monitor)

	accountsHandler := accounts.NewHandler(app.Accounts, app.Sessions)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Authn:         app.Sessions,
		ActiveBackend: app.Monitor.ActiveBackend,
		Health:        app.Health.Handle,
		Routes: []server.RouteRegistrar{
			func(api *gin.RouterGroup, policy middleware.Policy) {
				accountsHandler.RegisterAuthRoutes(api)
				accountsHandler.RegisterProfileRoutes(api, policy)
			},
			func(api *gin.RouterGroup, _ middleware.Policy) {
				sessions.NewHandler(app.Sessions).RegisterRoutes(api)
			},
			jobs.NewHandler(app.Jobs).RegisterRoutes,
			applications.NewHandler(app.Applications).RegisterRoutes,
			uploads.NewHandler(app.Uploads).RegisterRoutes,
		},
	})
	return app, nil
}

// Start probes the primary once, bounded by the connect timeout, and then
// keeps probing in the background until ctx is cancelled or Close is called.
func (a *App) Start(ctx context.Context) {
	if !a.Monitor.Configured() {
		telemetry.Info("storage.memory_only", map[string]any{"driver": selector.BackendMemory})
		return
	}
	if a.Monitor.ProbeWithin(ctx, a.Config.StorageConnectTimeout) {
		telemetry.Info("storage.connected", map[string]any{"driver": a.Monitor.Name()})
	} else {
		telemetry.Warn("storage.unavailable_at_startup", map[string]any{
			"driver":   a.Monitor.Name(),
			"fallback": selector.BackendMemory,
		})
	}
	loopCtx, cancel := context.WithCancel(ctx)
	a.stop = cancel
	a.Monitor.Start(loopCtx)
}

// Close stops the probe loop and releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	a.stopOnce.Do(func() {
		if a.stop != nil {
			a.stop()
			<-a.Monitor.Done()
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (a *App) buildPrimary(ctx context.Context) (primary, error) {
	cfg := a.Config
	switch driver := cfg.ResolveDriver(); driver {
	case config.DriverMongo:
		store, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StorageConnectTimeout)
		if err != nil {
			return a.primaryFailed(driver, err)
		}
		a.Mongo = store
		a.closers = append(a.closers, store.Close)
		accountsRepo := accounts.NewMongoRepo(store)
		return primary{
			name:         config.DriverMongo,
			pinger:       store,
			onFirstUp:    store.EnsureIndexes,
			accounts:     accountsRepo,
			jobs:         jobs.NewMongoRepo(store),
			applications: applications.NewMongoRepo(store),
		}, nil

	case config.DriverPostgres:
		sqlDB, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return a.primaryFailed(driver, err)
		}
		a.DB = sqlDB
		if !db.IsLambdaRuntime() {
			a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		}
		return primary{
			name:   config.DriverPostgres,
			pinger: selector.PingFunc(sqlDB.PingContext),
			onFirstUp: func(ctx context.Context) error {
				return db.RunMigrations(ctx, sqlDB)
			},
			accounts:     &accounts.PGRepo{DB: sqlDB},
			jobs:         &jobs.PGRepo{DB: sqlDB},
			applications: &applications.PGRepo{DB: sqlDB},
		}, nil

	default:
		log.Printf("bootstrap: no database configured; using in-memory repositories")
		return primary{name: selector.BackendMemory}, nil
	}
}

// primaryFailed degrades to memory in dev and fails elsewhere.
func (a *App) primaryFailed(driver string, err error) (primary, error) {
	if a.Config.IsDevLike() {
		log.Printf("bootstrap: %s setup failed; using in-memory repositories: %v", driver, err)
		return primary{name: selector.BackendMemory}, nil
	}
	return primary{}, fmt.Errorf("%s setup: %w", driver, err)
}

func openPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if db.IsLambdaRuntime() {
		return db.GetSingleton(ctx, databaseURL, db.OptionsFromEnv(db.Defaults(db.ProfileLambda)))
	}
	return db.Open(databaseURL, db.OptionsFromEnv(db.Defaults(db.ProfileServer)))
}

func (a *App) buildSessions(cfg config.Config) (*sessions.Service, error) {
	signer, err := auth.NewSigner(cfg.SessionSecret, cfg.IsDevLike(), cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return sessions.NewService(signer, sessions.NewMemoryStore(nil)), nil
	}
	store, err := sessions.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	return sessions.NewService(signer, store), nil
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// selectRepo routes between primary and memory, or pins memory when no
// primary exists.
func selectRepo[T any](mon *selector.Monitor, primary, fallback T) selector.Source[T] {
	if !mon.Configured() {
		return selector.NewFixed(fallback)
	}
	return selector.NewRoute(primary, fallback, mon)
}

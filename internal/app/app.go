package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rental-app-go/internal/config"
	database "rental-app-go/internal/db"
	analyticsdomain "rental-app-go/internal/domain/analytics"
	billingdomain "rental-app-go/internal/domain/billing"
	contractdomain "rental-app-go/internal/domain/contract"
	"rental-app-go/internal/domain/lifecycle"
	notificationdomain "rental-app-go/internal/domain/notification"
	propertydomain "rental-app-go/internal/domain/property"
	repairdomain "rental-app-go/internal/domain/repair"
	teamdomain "rental-app-go/internal/domain/team"
	userdomain "rental-app-go/internal/domain/user"
	verificationdomain "rental-app-go/internal/domain/verification"
	viewingdomain "rental-app-go/internal/domain/viewing"
	"rental-app-go/internal/jobs"
	"rental-app-go/internal/repository/inmemory"
	analyticsrepo "rental-app-go/internal/repository/postgres/analytics"
	billingrepo "rental-app-go/internal/repository/postgres/billing"
	contractrepo "rental-app-go/internal/repository/postgres/contract"
	notificationrepo "rental-app-go/internal/repository/postgres/notification"
	propertyrepo "rental-app-go/internal/repository/postgres/property"
	repairrepo "rental-app-go/internal/repository/postgres/repair"
	teamrepo "rental-app-go/internal/repository/postgres/team"
	userrepo "rental-app-go/internal/repository/postgres/user"
	verificationrepo "rental-app-go/internal/repository/postgres/verification"
	viewingrepo "rental-app-go/internal/repository/postgres/viewing"
	"rental-app-go/internal/repository/redisstream"
	"rental-app-go/internal/transport/httpserver"
	"rental-app-go/internal/transport/httpserver/handler"
	analyticshandler "rental-app-go/internal/transport/httpserver/handler/analytics"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"
	contractshandler "rental-app-go/internal/transport/httpserver/handler/contracts"
	notificationshandler "rental-app-go/internal/transport/httpserver/handler/notifications"
	paymentshandler "rental-app-go/internal/transport/httpserver/handler/payments"
	propertieshandler "rental-app-go/internal/transport/httpserver/handler/properties"
	repairshandler "rental-app-go/internal/transport/httpserver/handler/repairs"
	teamhandler "rental-app-go/internal/transport/httpserver/handler/team"
	viewingshandler "rental-app-go/internal/transport/httpserver/handler/viewings"
	"rental-app-go/pkg/logger"
	"rental-app-go/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services holds the wired domain services.
type Services struct {
	Users         *userdomain.Service
	Properties    *propertydomain.Service
	Contracts     *contractdomain.Service
	Billing       *billingdomain.Service
	Viewings      *viewingdomain.Service
	Repairs       *repairdomain.Service
	Team          *teamdomain.Service
	Verifications *verificationdomain.Service
	Notifications *notificationdomain.Service
	Dispatcher    *notificationdomain.Dispatcher
	Analytics     *analyticsdomain.Service
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	db         *gorm.DB
	redis      redis.UniversalClient
	metrics    *metrics.Metrics
	services   Services
	router     http.Handler
	httpServer *http.Server
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := database.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, db: dbConn}

	if cfg.DB.Driver == "sqlite" {
		if err := database.AutoMigrate(dbConn); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.Namespace)
	}

	var publisher notificationdomain.Publisher
	if cfg.Redis.Enabled() {
		client, err := redisstream.NewClient(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		publisher = redisstream.NewPublisher(client, cfg.Redis.Stream, cfg.Redis.StreamMaxLen)
		log.Info("app: publishing notifications", "stream", cfg.Redis.Stream)
	}

	services, err := a.wire(publisher)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.services = services

	log.Info("app: initializing router")
	a.router = httpserver.NewRouter(cfg, a.handlers(), services.Users, a.metrics, log)
	a.httpServer = httpserver.New(cfg.HTTP, a.router)
	return a, nil
}

func (a *App) wire(publisher notificationdomain.Publisher) (Services, error) {
	cfg := a.cfg
	var (
		observer         lifecycle.Observer
		dispatchObserver notificationdomain.DispatchObserver
	)
	if a.metrics != nil {
		observer = a.metrics
		dispatchObserver = a.metrics
	}

	tx := database.NewTransactor(a.db)
	outboxRepo := notificationrepo.NewOutbox(a.db)
	unread := inmemory.NewUnreadCache()

	users := userdomain.NewService(userrepo.NewPostgres(a.db))
	base := lifecycle.Deps{
		Tx:       tx,
		Outbox:   notificationdomain.NewOutboxWriter(outboxRepo, nil),
		Observer: observer,
	}

	team := teamdomain.NewService(teamrepo.NewPostgres(a.db), base)
	properties := propertydomain.NewService(propertyrepo.NewPostgres(a.db), lifecycle.Deps{Tx: tx, Delegation: team, Observer: observer})

	deps := base
	deps.Delegation = team
	deps.Directory = newDirectory(properties, users, inmemory.NewLabelCache(), a.log)

	bills := billingdomain.NewService(billingrepo.NewPostgres(a.db), deps)

	catalog, err := notificationdomain.NewCatalog(cfg.Notifications.DefaultLocale)
	if err != nil {
		return Services{}, fmt.Errorf("load notification catalog: %w", err)
	}
	notificationStore := notificationrepo.NewPostgres(a.db)

	return Services{
		Users:         users,
		Properties:    properties,
		Contracts:     contractdomain.NewService(contractrepo.NewPostgres(a.db), bills, properties, deps),
		Billing:       bills,
		Viewings:      viewingdomain.NewService(viewingrepo.NewPostgres(a.db), properties, deps),
		Repairs:       repairdomain.NewService(repairrepo.NewPostgres(a.db), properties, deps),
		Team:          team,
		Verifications: verificationdomain.NewService(verificationrepo.NewPostgres(a.db), deps),
		Analytics:     analyticsdomain.NewServiceWithTopPropertiesConfig(analyticsrepo.NewPostgres(a.db), deps.Directory, analyticsdomain.TopPropertiesConfig{
			Enabled:       cfg.TopProperties.Enabled,
			LookbackDays:  cfg.TopProperties.LookbackDays,
			DBReadLimit:   cfg.TopProperties.DBReadLimit,
			MinRecords:    cfg.TopProperties.MinRecords,
			ResponseCount: cfg.TopProperties.ResponseCount,
			CacheTTL:      cfg.TopProperties.CacheTTL,
		}),
		Notifications: notificationdomain.NewService(notificationStore, unread, notificationdomain.ServiceConfig{
			UnreadTTL: cfg.Notifications.UnreadCacheTTL,
		}),
		Dispatcher: notificationdomain.NewDispatcher(notificationdomain.DispatcherDeps{
			Notifications: notificationStore,
			Outbox:        outboxRepo,
			Renderer:      catalog,
			Tx:            tx,
			Cache:         unread,
			Publisher:     publisher,
			Locales:       users,
			Observer:      dispatchObserver,
		}, notificationdomain.DispatcherConfig{
			BatchSize:   cfg.Outbox.BatchSize,
			MaxAttempts: cfg.Outbox.MaxAttempts,
			BaseBackoff: cfg.Outbox.BaseBackoff,
			MaxBackoff:  cfg.Outbox.MaxBackoff,
			Locale:      cfg.Notifications.DefaultLocale,
		}),
	}, nil
}

func (a *App) handlers() *handler.Handlers {
	s := a.services
	return &handler.Handlers{
		Common:        commonhandler.New(s.Users, a.log),
		Properties:    propertieshandler.New(s.Properties, s.Team, a.log),
		Contracts:     contractshandler.New(s.Contracts, s.Team, a.log),
		Payments:      paymentshandler.New(s.Billing, s.Team, a.log),
		Viewings:      viewingshandler.New(s.Viewings, s.Team, a.log),
		Repairs:       repairshandler.New(s.Repairs, s.Team, a.log),
		Team:          teamhandler.New(s.Team, s.Verifications, a.log),
		Notifications: notificationshandler.New(s.Notifications, a.log),
		Analytics:     analyticshandler.New(s.Analytics, s.Team, a.log),
	}
}

func (a *App) Services() Services {
	return a.services
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// StartJobs launches the outbox dispatcher and payment reminder loops. The
// returned channel closes once both have stopped.
func (a *App) StartJobs(ctx context.Context) <-chan struct{} {
	var reminders jobs.ReminderObserver
	if a.metrics != nil {
		reminders = a.metrics
	}
	outboxDone := jobs.StartOutboxJob(ctx, a.cfg.Outbox, a.services.Dispatcher, a.log)
	remindersDone := jobs.StartReminderJob(ctx, a.cfg.Billing, a.services.Billing, reminders, a.log)

	done := make(chan struct{})
	go func() {
		<-outboxDone
		<-remindersDone
		close(done)
	}()
	return done
}

// DispatchOnce runs a single outbox pass.
func (a *App) DispatchOnce(ctx context.Context) (notificationdomain.PassReport, error) {
	return jobs.RunOutboxPass(ctx, a.services.Dispatcher, a.log)
}

// RemindOnce queues reminders for bills due within the configured window.
func (a *App) RemindOnce(ctx context.Context) (int, error) {
	var reminders jobs.ReminderObserver
	if a.metrics != nil {
		reminders = a.metrics
	}
	return jobs.RunReminderPass(ctx, a.services.Billing, a.cfg.Billing.ReminderDaysAhead, reminders, a.log)
}

func (a *App) ShutdownTimeout() time.Duration {
	if a.cfg.HTTP.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return a.cfg.HTTP.ShutdownTimeout
}

func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.db == nil {
		return firstErr
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Migrate opens the configured database and applies its schema.
func Migrate(cfg config.Config, log logger.Logger) error {
	dbConn, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := dbConn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := database.MigrateFor(cfg.DB.Driver, dbConn); err != nil {
		return err
	}
	log.Info("db: migrations applied", "driver", cfg.DB.Driver)
	return nil
}

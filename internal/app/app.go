package app

import (
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
	"github.com/Arzion032/binhi-fms-backend/internal/config"
	"github.com/Arzion032/binhi-fms-backend/internal/db"
	accountdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/account"
	associationdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/association"
	catalogdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
	financedomain "github.com/Arzion032/binhi-fms-backend/internal/domain/finance"
	inventorydomain "github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
	orderdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/order"
	"github.com/Arzion032/binhi-fms-backend/internal/events"
	"github.com/Arzion032/binhi-fms-backend/internal/mail"
	"github.com/Arzion032/binhi-fms-backend/internal/repository/inmemory"
	accountpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/account"
	associationpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/association"
	catalogpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/catalog"
	financepg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/finance"
	inventorypg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/inventory"
	orderpg "github.com/Arzion032/binhi-fms-backend/internal/repository/postgres/order"
	redisstore "github.com/Arzion032/binhi-fms-backend/internal/repository/redis"
	"github.com/Arzion032/binhi-fms-backend/internal/scheduler"
	"github.com/Arzion032/binhi-fms-backend/internal/storage"
	"github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver"
	"github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/handler"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	publisher  events.Publisher
	scheduler  *scheduler.Scheduler
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	// Redis is optional; without it the token revocations, verification
	// codes and category cache live in process memory.
	var (
		redisClient   *goredis.Client
		revocations   auth.RevocationStore
		verifications accountdomain.VerificationStore
		categories    catalogdomain.CategoriesCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = redisstore.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		revocations = redisstore.NewRevocationStore(redisClient)
		verifications = redisstore.NewVerificationStore(redisClient)
		categories = redisstore.NewCategoriesCache(redisClient, log)
		log.Info("app: redis connected", "addr", cfg.Redis.Addr)
	} else {
		revocations = inmemory.NewRevocationStore()
		verifications = inmemory.NewVerificationStore()
		categories = inmemory.NewCategoriesCache()
		log.Info("app: redis not configured, using in-memory stores")
	}

	publisher := events.Noop()
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
		log.Info("app: event publisher connected", "exchange", cfg.Events.Exchange)
	} else {
		log.Info("app: amqp not configured, events disabled")
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, revocations)

	images, err := storage.NewImageStore(cfg.Uploads)
	if err != nil {
		return nil, err
	}

	accounts := accountdomain.NewService(accountpg.NewPostgres(dbConn), verifications, mail.NewLogMailer(log))
	associations := associationdomain.NewService(associationpg.NewPostgres(dbConn))
	catalog := catalogdomain.NewService(catalogpg.NewPostgres(dbConn), categories, cfg.Redis.CacheTTL)
	inventory := inventorydomain.NewService(inventorypg.NewPostgres(dbConn), publisher, log)
	orders := orderdomain.NewService(orderpg.NewPostgres(dbConn), publisher, log)
	finance := financedomain.NewService(financepg.NewPostgres(dbConn))

	var sched *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		sched = scheduler.New(inventory, log)
		if err := sched.Start(cfg.Reconcile.CronSpec); err != nil {
			return nil, err
		}
	}

	handlers := handler.New(accounts, associations, catalog, inventory, orders, finance, tokens, images, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewJWTAuth(tokens), images.Dir())
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
		publisher:  publisher,
		scheduler:  sched,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if err := a.publisher.Close(); err != nil {
		a.log.Error("app: publisher close failed", "err", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("app: redis close failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

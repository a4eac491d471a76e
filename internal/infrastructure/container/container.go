// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appmealplan "github.com/weeklydish/planner/internal/application/mealplan"
	apprecipe "github.com/weeklydish/planner/internal/application/recipe"
	appshopping "github.com/weeklydish/planner/internal/application/shopping"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/internal/infrastructure/http/apiserver"
	"github.com/weeklydish/planner/internal/infrastructure/http/handlers"
	"github.com/weeklydish/planner/internal/infrastructure/http/middleware"
	"github.com/weeklydish/planner/internal/infrastructure/monitoring"
	gormrepo "github.com/weeklydish/planner/internal/infrastructure/persistence/gorm"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/memory"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/weeklydish/planner/internal/infrastructure/persistence/redis"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/sqlite"
	"github.com/weeklydish/planner/internal/infrastructure/security"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"github.com/weeklydish/planner/pkg/healthcheck"
	"github.com/weeklydish/planner/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConfigPath is the configuration file handed to config.Load; empty means
// the default search paths
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Fields: map[string]string{
				"service": cfg.App.Name,
				"version": cfg.App.Version,
			},
		})
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	NewDatabase,
	func(db *gorm.DB) (*sql.DB, error) {
		return db.DB()
	},
)

// NewDatabase opens the configured database, applies the schema and seeds
// the demo catalog when asked to
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var db *gorm.DB
	switch cfg.Database.Driver {
	case "postgres":
		cm, err := postgres.NewConnectionManager(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := cm.Migrate(); err != nil {
				_ = cm.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
		db = cm.GetDB()

	default:
		var err error
		db, err = sqlite.SetupDatabase(cfg.Database.Path, gormLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
	}

	if cfg.Database.Seed {
		n, err := sqlite.SeedDatabase(ctx, db)
		if err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		} else if n > 0 {
			log.Info("Seeded demo recipes", zap.Int("recipes", n))
		}
	}

	return db, nil
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// CacheBackend is the catalog cache plus the Redis pieces behind it, which
// are nil when the in-memory cache is used
type CacheBackend struct {
	Cache   outbound.CacheRepository
	Redis   redis.UniversalClient
	Breaker *healthcheck.CircuitBreaker
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	NewCacheBackend,
	func(b *CacheBackend) outbound.CacheRepository { return b.Cache },
)

// NewCacheBackend uses Redis when enabled and reachable, otherwise an
// in-process cache
func NewCacheBackend(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *CacheBackend {
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+5*time.Second)
		defer cancel()

		client, err := redisrepo.NewClient(ctx, cfg.Redis, log)
		if err == nil {
			breakerCfg := healthcheck.DefaultCircuitBreakerConfig()
			breakerCfg.OnStateChange = func(name string, from, to healthcheck.CircuitBreakerState) {
				log.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			}
			breaker := healthcheck.NewCircuitBreaker("redis", breakerCfg)

			lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
			return &CacheBackend{
				Cache:   redisrepo.NewBreakerCache(redisrepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log), breaker, log),
				Redis:   client,
				Breaker: breaker,
			}
		}
		log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
	}

	cache := memory.NewCacheRepository()
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return cache.Close() }})
	return &CacheBackend{Cache: cache}
}

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, sqlDB *sql.DB) *monitoring.MetricsCollector {
		m := monitoring.NewMetricsCollector(log)
		m.RegisterDBStats(sqlDB, cfg.Database.Driver)
		return m
	},
	func(m *monitoring.MetricsCollector) outbound.PlannerMetrics { return m },
	NewTracing,
	NewHealthCheck,
)

// NewTracing creates the tracer provider and flushes it on stop
func NewTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

// NewHealthCheck registers a checker per backing service
func NewHealthCheck(cfg *config.Config, log *zap.Logger, sqlDB *sql.DB, cache *CacheBackend) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	if cache.Redis != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
		hc.Register("redis-breaker", healthcheck.NewBreakerChecker(cache.Breaker))
	}
	return hc
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormrepo.NewRecipeRepository,
		fx.As(new(outbound.RecipeRepository)),
	),
	func(db *gorm.DB, cfg *config.Config) *gormrepo.PlanRepository {
		return gormrepo.NewPlanRepository(db, gormrepo.WithDedupOnInsert(cfg.Planner.DedupOnInsert))
	},
	func(r *gormrepo.PlanRepository) outbound.PlanRepository { return r },
	func(r *gormrepo.PlanRepository) outbound.UsageHistory { return r },
)

// ServiceModule provides application and security services
var ServiceModule = fx.Provide(
	func(repo outbound.RecipeRepository, cache outbound.CacheRepository, cfg *config.Config, log *zap.Logger) inbound.RecipeService {
		return apprecipe.NewRecipeService(repo, cache, cfg.Cache.RecipeListTTL, log)
	},
	NewMealPlanService,
	func(plans outbound.PlanRepository, recipes outbound.RecipeRepository, metrics outbound.PlannerMetrics, cfg *config.Config, log *zap.Logger) inbound.ShoppingService {
		return appshopping.NewService(plans, recipes, metrics, log)
	},
	NewAuthService,
	security.NewValidationService,
)

// NewMealPlanService wires the generator and planning windows from config
func NewMealPlanService(
	recipes outbound.RecipeRepository,
	history outbound.UsageHistory,
	plans outbound.PlanRepository,
	metrics outbound.PlannerMetrics,
	cfg *config.Config,
	log *zap.Logger,
) (inbound.MealPlanService, error) {
	loc, err := cfg.Planner.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid planner timezone: %w", err)
	}

	generator := appmealplan.NewSeededGenerator(cfg.Planner.RandomSeed,
		appmealplan.WithRunLocalExclusion(cfg.Planner.RunLocalExclusion))

	return appmealplan.NewService(recipes, history, plans, generator, metrics, appmealplan.Config{
		RecencyWindowDays: cfg.Planner.RecencyWindowDays,
		HistoryWeeks:      cfg.Planner.HistoryWeeks,
		WindowDays:        cfg.Planner.WindowDays,
		MaxRangeDays:      cfg.Planner.MaxRangeDays,
		Location:          loc,
	}, log), nil
}

// NewAuthService creates the token service. Outside production a missing
// secret is replaced by a random one, so tokens do not survive a restart.
func NewAuthService(cfg *config.Config, log *zap.Logger) *security.AuthService {
	authCfg := cfg.Auth
	if authCfg.JWTSecret == "" {
		log.Warn("auth.jwt_secret not set, using an ephemeral secret")
		authCfg.JWTSecret = uuid.NewString() + uuid.NewString()
	}
	return security.NewAuthService(authCfg, log)
}

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	NewAPIServer,
)

// NewAPIServer assembles the router dependencies
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	auth *security.AuthService,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
	health *healthcheck.HealthCheck,
) *apiserver.APIServer {
	deps := apiserver.Dependencies{
		Handlers: h,
		Auth:     auth,
		Metrics:  metrics,
		Tracer:   tracing.Tracer(),
		Health:   health,
	}
	if cfg.RateLimit.Enable {
		deps.Limiter = middleware.NewRateLimiter(cfg.RateLimit, log)
	}
	return apiserver.NewAPIServer(cfg, log, deps)
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts and stops the HTTP server
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting weeklydish",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down weeklydish")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}

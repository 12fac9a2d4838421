package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/gemini"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/handler/http"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/logger"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/postgres"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/prometheus"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/ratelimit"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/redis"
	"github.com/yehezkielwinatali/Angelomotive/internal/adapter/storage"
	"github.com/yehezkielwinatali/Angelomotive/internal/config"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config       *config.Container
	Logger       ports.LoggerPort
	DB           *sql.DB
	RedisClient  *redisClient.Client
	RedisAdapter ports.CachePort
	Gemini       *gemini.GeminiAdapter
	HTTPRouter   *http.Router
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect DB
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database:%w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("Failed to ping database:%w", err)
	}

	// Migrate DB
	if err := goose.Up(db, "./internal/adapter/postgres/migrations"); err != nil {
		return nil, fmt.Errorf("Failed to run migrations:%w", err)
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Object storage
	storageAdapter, err := storage.NewS3Adapter(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Vision model
	geminiAdapter, err := gemini.NewGeminiAdapter(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	// Image search rate limiter
	searchLimiter := ratelimit.NewTokenBucket(config.ImageSearchCapacity(), config.ImageSearchRefillPerHour())

	// Repositories
	carRepo := postgres.NewCarRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)
	dealerRepo := postgres.NewDealershipRepository(db)
	wishlistRepo := postgres.NewWishlistRepository(db)

	// Services
	userService := services.NewUserService(userRepo, loggerAdapter, validate)
	dealershipService := services.NewDealershipService(dealerRepo, bookingRepo, carRepo, loggerAdapter, validate, cacheAdapter)
	carService := services.NewCarService(carRepo, wishlistRepo, bookingRepo, dealerRepo, storageAdapter, loggerAdapter, validate, cacheAdapter)
	bookingService := services.NewBookingService(bookingRepo, carRepo, loggerAdapter, validate, cacheAdapter)
	visionService := services.NewVisionService(geminiAdapter, searchLimiter, loggerAdapter, validate)

	// The singleton dealership row and its default schedule must exist
	// before the first request.
	if _, err := dealershipService.EnsureDealership(ctx); err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to provision dealership: %w", err)
	}

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	carHandler := http.NewCarHandler(carService, loggerAdapter, metrics)
	bookingHandler := http.NewBookingHandler(bookingService, dealershipService, loggerAdapter, metrics)
	dealershipHandler := http.NewDealershipHandler(dealershipService, loggerAdapter, metrics)
	userHandler := http.NewUserHandler(userService, loggerAdapter, metrics)
	visionHandler := http.NewVisionHandler(visionService, loggerAdapter, metrics)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		userService,
		carHandler,
		bookingHandler,
		dealershipHandler,
		userHandler,
		visionHandler,
	)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       loggerAdapter,
		DB:           db,
		RedisClient:  redisConn,
		RedisAdapter: cacheAdapter,
		Gemini:       geminiAdapter,
		HTTPRouter:   router,
	}, nil
}

// Runs all services
func (a *App) Run() error {
	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stops all services
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Gemini client
	if err := a.Gemini.Close(); err != nil {
		a.Logger.Error("Gemini close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}

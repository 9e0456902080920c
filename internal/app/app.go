package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/auth"
	"github.com/MrSnakeDoc/smartmarks/internal/config"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/notify"
	"github.com/MrSnakeDoc/smartmarks/internal/redis"
	"github.com/MrSnakeDoc/smartmarks/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
	"github.com/MrSnakeDoc/smartmarks/internal/version"
	"github.com/MrSnakeDoc/smartmarks/internal/web"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sweeper     *scheduler.IndexSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	authService := auth.New(store, cfg.SessionTTL, cfg.SessionRefreshAfter, loggerClient)

	publisher := notify.NewPublisher(redisClient, loggerClient)

	renderer, err := web.NewRenderer()
	if err != nil {
		loggerClient.Errorf("Failed to load templates: %v", err)
		os.Exit(1)
	}

	// Manual sweep trigger channel
	sweepTrigger := make(chan struct{}, 1)

	sweeper := scheduler.NewIndexSweeper(store, loggerClient, cfg.SweepInterval, sweepTrigger)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		RedisClient:     redisClient,
		Store:           store,
		Auth:            authService,
		Publisher:       publisher,
		Renderer:        renderer,
		CookieSecure:    cfg.CookieSecure,
		SessionTTL:      cfg.SessionTTL,
		AllowedHosts:    cfg.AllowedHosts,
		AdminCIDRS:      cfg.AdminCIDRS,
		TrustProxy:      cfg.TrustProxy,
		LoginRateBurst:  cfg.LoginRateBurst,
		LoginRatePerMin: cfg.LoginRatePerMin,
		SweepTrigger:    sweepTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sweeper:     sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting SmartMarks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("SmartMarks %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the dangling-index sweeper
	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start index sweeper: %w", err)
	}
	a.logger.Info("index sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ SmartMarks stopped cleanly")
	return nil
}

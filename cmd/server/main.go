package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"nutrilog/internal/config"
	"nutrilog/internal/crypto"
	"nutrilog/internal/db"
	"nutrilog/internal/db/memory"
	"nutrilog/internal/events"
	"nutrilog/internal/handlers"
	mw "nutrilog/internal/middleware"
	"nutrilog/internal/oauth"
	"nutrilog/internal/router"
	"nutrilog/internal/services"
	"nutrilog/internal/token"
)

type stores struct {
	users services.UserStore
	food  services.FoodLogStore
	water services.WaterLogStore
	close func()
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetConnMaxLifetime(2 * time.Hour)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return conn, nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; using in-memory store, data is lost on restart")
		m := memory.New()
		return &stores{users: m, food: m, water: m, close: func() {}}, nil
	}
	conn, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	logs := db.NewLogRepo(conn)
	return &stores{users: db.NewUserRepo(conn), food: logs, water: logs, close: func() { conn.Close() }}, nil
}

func migrate(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to run migrations")
	}
	conn, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return db.RunMigrations(ctx, conn)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrate(ctx, cfg); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
		return
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.close()

	var publisher services.EventPublisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer nc.Close()
		publisher = nc
	}

	var provider handlers.IdentityProvider
	if cfg.GoogleEnabled() {
		g, err := oauth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			logger.Fatal("failed to set up google login", zap.Error(err))
		}
		provider = g
	} else {
		logger.Info("google login disabled; GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL not all set")
	}

	stateKey := sha256.Sum256([]byte(cfg.OAuthStateSecret))
	states, err := crypto.NewStateSigner(stateKey[:], 10*time.Minute)
	if err != nil {
		logger.Fatal("failed to build state signer", zap.Error(err))
	}

	signer := token.NewSigner([]byte(cfg.JWTSecret), cfg.JWTTTL)
	accounts := services.NewAccountService(st.users, crypto.BcryptHasher{}, signer)
	users := services.NewUserService(st.users, publisher, logger)
	nutrition := services.NewNutritionService(st.users, st.food, st.water)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := router.New(router.Deps{
		Logger:         logger,
		Registry:       reg,
		AllowedOrigins: cfg.AllowedOrigins(),
		Auth:           mw.NewAuthMiddleware(signer),
		AuthHandler:    handlers.NewAuthHandler(accounts, provider, states, cfg.FrontendURL, logger),
		UserHandler:    handlers.NewUserHandler(users, logger),
		Nutrition:      handlers.NewNutritionHandler(nutrition, logger),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}

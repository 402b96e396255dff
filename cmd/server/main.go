package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/checkout"
	"petshop_back_end/internal/config"
	"petshop_back_end/internal/database"
	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/logger"
	"petshop_back_end/internal/metrics"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/notify"
	"petshop_back_end/internal/repository"
	"petshop_back_end/internal/routes"
	"petshop_back_end/internal/shutdown"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg := logger.New(logger.Options{Service: "petshop", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	db, err := database.Open(ctx, database.Config{
		Driver:       cfg.DBDriver,
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	lg.Info("database ready", "driver", cfg.DBDriver, "dialect", db.Dialect())

	if cfg.SeedData {
		if err := seed(ctx, db); err != nil {
			return err
		}
		lg.Info("sample data seeded")
	}

	store, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}, lg)
	if err != nil {
		return err
	}
	defer store.Close()
	if !store.Enabled() {
		lg.Warn("redis disabled: no login throttling, token revocation or catalog cache")
	}

	reg := metrics.New()
	reg.RegisterDB(db.SQL(), "petshop")

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)

	var mailer notify.Mailer = notify.LogMailer{Log: lg}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	confirmations := notify.NewOrderMailer(mailer, users, products, lg, 128)
	confirmations.Start()
	defer confirmations.Close()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	svc := checkout.NewService(products, orders,
		checkout.WithNotifier(confirmations),
		checkout.WithObserver(reg),
		checkout.WithLogger(lg),
	)

	router := routes.NewRouter(routes.Deps{
		Log:      lg,
		Metrics:  reg,
		Cache:    store,
		Issuer:   issuer,
		Prices:   products,
		Accounts: users,
		Health:   map[string]handlers.Pinger{"database": db, "redis": store},
		Auth:     handlers.NewAuthHandler(users, issuer, store, lg),
		Users:    handlers.NewUserHandler(users, issuer, store, lg),
		Products: handlers.NewProductHandler(products, store, lg),
		Orders:   handlers.NewOrderHandler(svc, lg),

		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("🚀 server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", slog.Any("error", err))
	}
	return nil
}

// seed inserts the development accounts and starter catalog into an empty
// database.
func seed(ctx context.Context, db *database.DB) error {
	accounts := []struct {
		email, username, password, role string
	}{
		{"admin@petshop.local", "admin", "Admin123", models.RoleAdmin},
		{"cliente@petshop.local", "cliente", "Cliente123", models.RoleCustomer},
	}

	users := make([]database.SeedUser, 0, len(accounts))
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		users = append(users, database.SeedUser{
			Email:        a.email,
			Username:     a.username,
			PasswordHash: hash,
			Role:         a.role,
		})
	}
	if err := database.Seed(ctx, db, users); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

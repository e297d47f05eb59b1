package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/config"
	"github.com/surafel-47/blog-mmcy/database"
	"github.com/surafel-47/blog-mmcy/internal/audit"
	"github.com/surafel-47/blog-mmcy/internal/blog"
	auth "github.com/surafel-47/blog-mmcy/internal/handlers/auth"
	"github.com/surafel-47/blog-mmcy/internal/handlers/content"
	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/sanitize"
	"github.com/surafel-47/blog-mmcy/internal/server"
	"github.com/surafel-47/blog-mmcy/internal/stores"
	"github.com/surafel-47/blog-mmcy/internal/token"
	"github.com/surafel-47/blog-mmcy/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	// 1) Database, migrations and seed data
	db, err := database.ConnectDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close failed", "event", "database_close_failed", "error", err.Error())
		}
	}()
	if err := database.ProcessMigrations(db); err != nil {
		log.Fatalf("Database migration error: %v", err)
	}
	if err := database.SeedDefaults(context.Background(), db); err != nil {
		log.Fatalf("Database seed error: %v", err)
	}

	// 2) Stores and services
	tokenService := &token.JWTService{Secret: cfg.JWTSecret}
	auditStore := stores.NewGormAuditStore(db, logger)
	recorder := audit.NewRecorder(auditStore, logger)

	deps := blog.Deps{
		Policy:          policy.New(models.RoleViewer, models.RoleEditor),
		Users:           stores.NewGormUserStore(db, logger),
		RefreshTokens:   stores.NewGormRefreshTokenStore(db, tokenService, logger),
		Posts:           stores.NewGormPostStore(db, logger),
		Comments:        stores.NewGormCommentStore(db, logger),
		AuditLogs:       auditStore,
		Catalog:         stores.NewGormCatalogStore(db, logger),
		Hasher:          user.BcryptHasher{},
		Tokens:          tokenService,
		Recorder:        recorder,
		Sanitizer:       sanitize.New(),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Logger:          logger,
	}

	// 3) Handlers and router
	router := server.NewRouter(server.Handlers{
		Auth:     auth.NewAuthHandler(blog.NewAccountManager(deps)),
		Posts:    content.NewPostHandler(blog.NewPostManager(deps)),
		Comments: content.NewCommentHandler(blog.NewCommentManager(deps)),
		Audit:    content.NewAuditHandler(blog.NewAuditLogReader(deps)),
		Catalog:  content.NewCatalogHandler(blog.NewCatalog(deps)),
	}, tokenService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "event", "http_server_starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("http server stopping", "event", "http_server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "event", "http_server_shutdown_failed", "error", err.Error())
	}
	recorder.Wait()
}

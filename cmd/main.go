// Command filesharing-service runs the file sharing HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filesharing-service/internal/MinIO"
	"filesharing-service/internal/config"
	"filesharing-service/internal/handler/authHandler"
	"filesharing-service/internal/handler/fileHandler"
	"filesharing-service/internal/migrate"
	"filesharing-service/internal/notifier"
	"filesharing-service/internal/repository/fileRepo"
	"filesharing-service/internal/repository/shareRepo"
	"filesharing-service/internal/repository/starRepo"
	"filesharing-service/internal/repository/tokenRepo"
	"filesharing-service/internal/repository/userRepo"
	"filesharing-service/internal/service"
	"filesharing-service/internal/service/fileService"
	"filesharing-service/pkg/database/postgres"
	"filesharing-service/pkg/database/redis"
	"filesharing-service/pkg/logger"
	"filesharing-service/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic("cannot create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Postgres.DSN()); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.New(cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	minioClient, err := MinIO.New(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("minio connection failed", zap.Error(err))
	}

	emails := notifier.New(cfg.SMTP, log)

	users := userRepo.New(db.Pool)
	files := fileRepo.New(db.Pool)
	shares := shareRepo.New(db.Pool)
	stars := starRepo.New(db.Pool)
	tokens := tokenRepo.New(redisClient)

	authSvc := service.NewAuthService(users, tokens, emails, cfg.JWTSecret)
	fileSvc := fileService.New(files, shares, stars, users, minioClient, emails, log)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	authH := authHandler.New(authSvc, log)
	fileH := fileHandler.New(fileSvc, log)

	api := router.Group("/api")
	authH.RegisterPublic(api)

	protected := api.Group("")
	protected.Use(middleware.Auth(authSvc.GetUIDByToken))
	authH.RegisterProtected(protected)
	fileH.Register(protected.Group("/files"))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/asafto/kdog-server/internal/core/auth"
	"github.com/asafto/kdog-server/internal/core/cache"
	"github.com/asafto/kdog-server/internal/core/config"
	"github.com/asafto/kdog-server/internal/core/database"
	"github.com/asafto/kdog-server/internal/core/logger"
	"github.com/asafto/kdog-server/internal/core/server"
	"github.com/asafto/kdog-server/internal/repo"
	"github.com/asafto/kdog-server/internal/service"
	"github.com/asafto/kdog-server/internal/storage"
	"github.com/asafto/kdog-server/internal/transport/http/handler"
	"github.com/asafto/kdog-server/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	store := mustOpenStore(cfg, log)

	var blobCache *cache.Cache
	if cfg.Redis.Addr != "" {
		blobCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	userRepo := repo.NewUserRepo(db)
	postRepo := repo.NewPostRepo(db)
	commentRepo := repo.NewCommentRepo(db)

	authSvc := service.NewAuthService(userRepo, jwter)
	userSvc := service.NewUserService(userRepo, store, log)
	postSvc := service.NewPostService(postRepo, store, blobCache, log)
	commentSvc := service.NewCommentService(commentRepo, postRepo, store, blobCache, log)

	publicDir := ""
	if cfg.Storage.Driver == "local" {
		publicDir = cfg.Storage.Dir
	}
	r := router.NewAPIEngine(log, jwter, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Users:    handler.NewUserHandler(userSvc, postSvc),
		Posts:    handler.NewPostHandler(postSvc),
		Comments: handler.NewCommentHandler(commentSvc),
	}, publicDir)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("kdog api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("kdog api start FAILED", zap.Error(err))
		}
	}()
	log.Info("kdog api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("kdog api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func mustOpenStore(cfg *config.Config, l *zap.Logger) storage.BlobStore {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := storage.NewS3(context.Background(), storage.S3Opts{
			Bucket:          cfg.Storage.S3.Bucket,
			Region:          cfg.Storage.S3.Region,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
			Endpoint:        cfg.Storage.S3.Endpoint,
		})
		if err != nil {
			l.Fatal("s3 store open", zap.Error(err))
		}
		l.Info("storage ready", zap.String("driver", "s3"), zap.String("bucket", cfg.Storage.S3.Bucket))
		return store
	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "./public"
		}
		baseURL := cfg.Storage.BaseURL
		if baseURL == "" {
			baseURL = "/public"
		}
		store, err := storage.NewLocal(dir, baseURL)
		if err != nil {
			l.Fatal("local store open", zap.Error(err))
		}
		l.Info("storage ready", zap.String("driver", "local"), zap.String("dir", dir))
		return store
	}
}

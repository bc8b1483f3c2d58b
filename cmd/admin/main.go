// Command admin bootstraps an admin account: it creates the user when the
// email is unknown and promotes an existing user otherwise. Meant for first
// deployment, before any admin exists to call the admin routes.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/core/config"
	"github.com/asafto/kdog-server/internal/core/database"
	"github.com/asafto/kdog-server/internal/core/logger"
	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/repo"
	"github.com/asafto/kdog-server/pkg/utils"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "admin", "admin display name")
	password := flag.String("password", "", "admin password (6-1024 chars)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, "")
	defer cleanup()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	ctx := context.Background()
	users := repo.NewUserRepo(db)

	u, err := users.FindByEmail(ctx, *email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		hash, err := utils.HashPassword(*password)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		u = &domain.User{
			ID:           utils.NewID(),
			Name:         *name,
			Email:        *email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("create admin", zap.Error(err))
		}
		log.Info("admin user created", zap.String("id", u.ID), zap.String("email", u.Email))
	case err != nil:
		log.Fatal("lookup admin", zap.Error(err))
	default:
		u.Role = domain.RoleAdmin
		if err := users.Update(ctx, u); err != nil {
			log.Fatal("promote admin", zap.Error(err))
		}
		log.Info("existing user promoted to admin", zap.String("id", u.ID), zap.String("email", u.Email))
	}
}

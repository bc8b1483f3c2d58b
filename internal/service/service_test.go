package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/core/auth"
	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/repo/repotest"
	"github.com/asafto/kdog-server/internal/service"
)

type env struct {
	db       *repotest.DB
	blobs    *repotest.BlobStore
	jwter    *auth.JWTer
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := repotest.NewDB()
	blobs := repotest.NewBlobStore()
	log := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "kdog-test", TTL: time.Hour}
	return &env{
		db:       db,
		blobs:    blobs,
		jwter:    jwter,
		auth:     service.NewAuthService(db.UserRepo(), jwter),
		users:    service.NewUserService(db.UserRepo(), blobs, log),
		posts:    service.NewPostService(db.PostRepo(), blobs, nil, log),
		comments: service.NewCommentService(db.CommentRepo(), db.PostRepo(), blobs, nil, log),
	}
}

func (e *env) register(t *testing.T, name, email, role string) *domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), service.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "hunter22",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func asCaller(u *domain.User) domain.Caller {
	return domain.Caller{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/asafto/kdog-server/internal/core/auth"
	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter}
}

// Login verifies an email+password pair and issues a signed token. Unknown
// email and wrong password fail identically so responses leak nothing about
// which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}
	if err := validatePassword(password); err != nil {
		return "", nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, invalidCredentials()
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, invalidCredentials()
	}

	token, err := s.jwter.Issue(u)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

func invalidCredentials() error {
	return fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/storage"
	"github.com/asafto/kdog-server/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	store storage.BlobStore
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, store storage.BlobStore, log *zap.Logger) *UserService {
	return &UserService{users: users, store: store, log: log}
}

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	BirthDate *time.Time
	Gender    string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.RoleRegular
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		BirthDate:    in.BirthDate,
		Gender:       in.Gender,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string, caller domain.Caller) (*domain.User, error) {
	if !domain.CanMutate(caller, id) {
		return nil, fmt.Errorf("%w: users are visible to themselves and admins", domain.ErrForbidden)
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, caller domain.Caller, limit, offset int) ([]domain.User, int64, error) {
	if !caller.IsAdmin() {
		return nil, 0, fmt.Errorf("%w: listing users requires admin role", domain.ErrForbidden)
	}
	limit, offset = clampPage(limit, offset, 20, 100)
	return s.users.List(ctx, offset, limit)
}

type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	Role      *string
	BirthDate *time.Time
	Gender    *string
}

// Update applies a partial update of the whitelisted fields. The password is
// re-hashed only when it actually changed, and a role change is honored only
// for admin callers (self-service escalation is stripped).
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput, caller domain.Caller) (*domain.User, error) {
	if !domain.CanMutate(caller, id) {
		return nil, fmt.Errorf("%w: a user can be updated only by themselves or an admin", domain.ErrForbidden)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		u.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		if !utils.CheckPassword(*in.Password, u.PasswordHash) {
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			u.PasswordHash = hash
		}
	}
	if in.Role != nil && caller.IsAdmin() {
		if err := validateRole(*in.Role); err != nil {
			return nil, err
		}
		u.Role = *in.Role
	}
	if in.BirthDate != nil {
		u.BirthDate = in.BirthDate
	}
	if in.Gender != nil {
		u.Gender = *in.Gender
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user and everything they authored, then cleans up the
// orphaned blobs. Blob failures are logged and skipped; the transaction that
// already committed is the source of truth.
func (s *UserService) Delete(ctx context.Context, id string, caller domain.Caller) (*domain.User, error) {
	if !domain.CanMutate(caller, id) {
		return nil, fmt.Errorf("%w: a user can be deleted only by themselves or an admin", domain.ErrForbidden)
	}
	u, keys, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cleanupBlobs(ctx, keys)
	return u, nil
}

func (s *UserService) cleanupBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("orphaned blob not deleted", zap.String("key", key), zap.Error(err))
		}
	}
}

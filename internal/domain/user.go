package domain

import (
	"context"
	"time"
)

const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	Role         string     `gorm:"size:16;not null;default:regular" json:"role"`
	BirthDate    *time.Time `json:"birthDate,omitempty"`
	Gender       string     `gorm:"size:16" json:"gender,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Ids of posts authored by this user, newest first. Derived from the
	// posts table, never stored on the user row.
	Posts []string `gorm:"-" json:"posts"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// List returns a page ordered by name ascending plus the total count.
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	// Delete removes the user and every post they authored (with likes and
	// comments) in one transaction. It returns the deleted record and the
	// storage keys of any images orphaned by the cascade.
	Delete(ctx context.Context, id string) (*User, []string, error)
}

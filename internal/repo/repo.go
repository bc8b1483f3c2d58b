// Package repo holds the gorm-backed repositories. Cross-table cascades run
// inside a single transaction so an interrupted delete never leaves inverse
// references behind.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/asafto/kdog-server/internal/domain"
)

// AutoMigrate creates/updates every table this module persists.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// isDupKey matches unique-violation messages across mysql and postgres
// without depending on driver error types.
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

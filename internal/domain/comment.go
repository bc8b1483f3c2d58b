package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"size:512;not null" json:"text"`
	Image     Image     `gorm:"embedded" json:"image"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"author"`
	PostID    string    `gorm:"size:36;not null;index" json:"post"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	// ListByPost returns a page ordered oldest-first plus the total count.
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]Comment, int64, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
}

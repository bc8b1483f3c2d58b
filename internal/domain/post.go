package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Image is the stored reference to an uploaded file: the display name the
// client sent, the storage key, and a URL the blob can be fetched from.
type Image struct {
	Name     string `gorm:"column:image_name;size:255" json:"name,omitempty"`
	Key      string `gorm:"column:image_key;size:255" json:"key,omitempty"`
	Location string `gorm:"column:image_location;size:512" json:"location,omitempty"`
}

func (im Image) Empty() bool { return im.Key == "" }

// Tags is a free-form string list stored as a JSON column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

func (t *Tags) Scan(v any) error {
	switch s := v.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(s, t)
	case string:
		return json.Unmarshal([]byte(s), t)
	default:
		return fmt.Errorf("tags: unsupported column type %T", v)
	}
}

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"size:1024;not null" json:"text"`
	Image     Image     `gorm:"embedded" json:"image"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"author"`
	Tags      Tags      `gorm:"type:text" json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Derived: liking user ids and comment ids (oldest first).
	Likes    []string `gorm:"-" json:"likes"`
	Comments []string `gorm:"-" json:"comments"`
}

func (Post) TableName() string { return "posts" }

// Like is one user's like on one post. The composite unique index makes the
// "each user at most once" invariant structural.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_like_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	// List returns a page ordered newest-first plus the total count.
	List(ctx context.Context, offset, limit int) ([]Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]Post, int64, error)
	Update(ctx context.Context, p *Post) error
	// Delete removes the post, its likes and its comments in one transaction
	// and returns the deleted record plus orphaned image storage keys.
	Delete(ctx context.Context, id string) (*Post, []string, error)
	// ToggleLike removes the caller from the like set when present, adds them
	// otherwise, and returns the updated post.
	ToggleLike(ctx context.Context, postID, userID string) (*Post, error)
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/asafto/kdog-server/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ domain.PostRepository = (*PostRepo)(nil)

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	p.Likes = []string{}
	p.Comments = []string{}
	return nil
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	posts := []domain.Post{p}
	if err := r.fillRefs(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *PostRepo) List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&domain.Post{}), offset, limit)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{}).Where("author_id = ?", authorID)
	return r.list(ctx, q, offset, limit)
}

func (r *PostRepo) list(ctx context.Context, q *gorm.DB, offset, limit int) ([]domain.Post, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []domain.Post
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	if err := r.fillRefs(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes the post with its likes and comments in one transaction and
// returns the orphaned image keys (the post's own plus its comments').
func (r *PostRepo) Delete(ctx context.Context, id string) (*domain.Post, []string, error) {
	var deleted *domain.Post
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Post
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if !p.Image.Empty() {
			keys = append(keys, p.Image.Key)
		}
		var commentKeys []string
		if err := tx.Model(&domain.Comment{}).
			Where("post_id = ? AND image_key <> ''", id).
			Pluck("image_key", &commentKeys).Error; err != nil {
			return err
		}
		keys = append(keys, commentKeys...)

		if err := tx.Where("post_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Post{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = &p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	deleted.Likes = []string{}
	deleted.Comments = []string{}
	return deleted, keys, nil
}

// ToggleLike flips the caller's membership in the like set. The unique index
// on (user_id, post_id) keeps the set property under concurrent toggles.
func (r *PostRepo) ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Post
		if err := tx.First(&p, "id = ?", postID).Error; err != nil {
			return translate(err)
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Create(&domain.Like{UserID: userID, PostID: postID}).Error; err != nil {
			// concurrent toggle already inserted the row
			if isDupKey(err) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, postID)
}

// fillRefs batch-loads the derived like and comment id lists.
func (r *PostRepo) fillRefs(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for i := range posts {
		posts[i].Likes = []string{}
		posts[i].Comments = []string{}
		ids = append(ids, posts[i].ID)
	}

	var likes []domain.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).Order("created_at ASC").
		Find(&likes).Error; err != nil {
		return err
	}
	likesByPost := map[string][]string{}
	for _, l := range likes {
		likesByPost[l.PostID] = append(likesByPost[l.PostID], l.UserID)
	}

	type commentRef struct{ ID, PostID string }
	var refs []commentRef
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("id", "post_id").Where("post_id IN ?", ids).
		Order("created_at ASC").Find(&refs).Error; err != nil {
		return err
	}
	commentsByPost := map[string][]string{}
	for _, c := range refs {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c.ID)
	}

	for i := range posts {
		if l, ok := likesByPost[posts[i].ID]; ok {
			posts[i].Likes = l
		}
		if cm, ok := commentsByPost[posts[i].ID]; ok {
			posts[i].Comments = cm
		}
	}
	return nil
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/asafto/kdog-server/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	u.Posts = []string{}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.attachPostIDs(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.attachPostIDs(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Delete removes the user and cascades over everything they authored: posts,
// the likes and comments hanging off those posts, and the user's own likes
// elsewhere. Runs in one transaction; returns the orphaned image keys so the
// caller can clean up blob storage afterwards.
func (r *UserRepo) Delete(ctx context.Context, id string) (*domain.User, []string, error) {
	var deleted *domain.User
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		var postIDs []string
		if err := tx.Model(&domain.Post{}).Where("author_id = ?", id).
			Order("created_at DESC").Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		u.Posts = postIDs

		if err := tx.Model(&domain.Post{}).
			Where("author_id = ? AND image_key <> ''", id).
			Pluck("image_key", &keys).Error; err != nil {
			return err
		}

		if len(postIDs) > 0 {
			var commentKeys []string
			if err := tx.Model(&domain.Comment{}).
				Where("post_id IN ? AND image_key <> ''", postIDs).
				Pluck("image_key", &commentKeys).Error; err != nil {
				return err
			}
			keys = append(keys, commentKeys...)

			if err := tx.Where("post_id IN ?", postIDs).Delete(&domain.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&domain.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.User{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = &u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return deleted, keys, nil
}

func (r *UserRepo) attachPostIDs(ctx context.Context, u *domain.User) error {
	ids := []string{}
	if err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("author_id = ?", u.ID).Order("created_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	u.Posts = ids
	return nil
}

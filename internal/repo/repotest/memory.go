// Package repotest provides in-memory repository and blob-store
// implementations for tests. They mirror the gorm repositories' contracts:
// sentinel errors, derived id lists, and transactional cascade semantics
// (all-or-nothing under a single lock).
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asafto/kdog-server/internal/domain"
)

type likeRow struct {
	UserID string
	At     time.Time
}

type DB struct {
	mu       sync.Mutex
	users    map[string]domain.User
	posts    map[string]domain.Post
	comments map[string]domain.Comment
	likes    map[string][]likeRow // postID -> rows, oldest first
	seq      int
}

func NewDB() *DB {
	return &DB{
		users:    map[string]domain.User{},
		posts:    map[string]domain.Post{},
		comments: map[string]domain.Comment{},
		likes:    map[string][]likeRow{},
	}
}

// now hands out strictly increasing timestamps so ordering is deterministic.
func (d *DB) now() time.Time {
	d.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(d.seq) * time.Millisecond)
}

func (d *DB) UserRepo() domain.UserRepository       { return (*userRepo)(d) }
func (d *DB) PostRepo() domain.PostRepository       { return (*postRepo)(d) }
func (d *DB) CommentRepo() domain.CommentRepository { return (*commentRepo)(d) }

// ---- users ----

type userRepo DB

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.CreatedAt = (*DB)(r).now()
	u.UpdatedAt = u.CreatedAt
	u.Posts = []string{}
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Posts = (*DB)(r).postIDsByAuthor(id)
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Posts = (*DB)(r).postIDsByAuthor(u.ID)
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	return pageOf(all, offset, limit), total, nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, ex := range r.users {
		if ex.Email == u.Email && ex.ID != u.ID {
			return domain.ErrDuplicateEmail
		}
	}
	u.UpdatedAt = (*DB)(r).now()
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (*domain.User, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	u.Posts = (*DB)(r).postIDsByAuthor(id)

	var keys []string
	for _, pid := range u.Posts {
		p := r.posts[pid]
		if !p.Image.Empty() {
			keys = append(keys, p.Image.Key)
		}
		for cid, c := range r.comments {
			if c.PostID == pid {
				if !c.Image.Empty() {
					keys = append(keys, c.Image.Key)
				}
				delete(r.comments, cid)
			}
		}
		delete(r.likes, pid)
		delete(r.posts, pid)
	}
	for pid, rows := range r.likes {
		kept := rows[:0]
		for _, row := range rows {
			if row.UserID != id {
				kept = append(kept, row)
			}
		}
		r.likes[pid] = kept
	}
	delete(r.users, id)
	return &u, keys, nil
}

// ---- posts ----

type postRepo DB

func (r *postRepo) Create(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = (*DB)(r).now()
	p.UpdatedAt = p.CreatedAt
	p.Likes = []string{}
	p.Comments = []string{}
	r.posts[p.ID] = *p
	return nil
}

func (r *postRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*DB)(r).findPost(id)
}

func (r *postRepo) List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*DB)(r).listPosts("", offset, limit)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]domain.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*DB)(r).listPosts(authorID, offset, limit)
}

func (r *postRepo) Update(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedAt = (*DB)(r).now()
	r.posts[p.ID] = *p
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) (*domain.Post, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	var keys []string
	if !p.Image.Empty() {
		keys = append(keys, p.Image.Key)
	}
	for cid, c := range r.comments {
		if c.PostID == id {
			if !c.Image.Empty() {
				keys = append(keys, c.Image.Key)
			}
			delete(r.comments, cid)
		}
	}
	delete(r.likes, id)
	delete(r.posts, id)
	p.Likes = []string{}
	p.Comments = []string{}
	return &p, keys, nil
}

func (r *postRepo) ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return nil, domain.ErrNotFound
	}
	rows := r.likes[postID]
	for i, row := range rows {
		if row.UserID == userID {
			r.likes[postID] = append(rows[:i], rows[i+1:]...)
			return (*DB)(r).findPost(postID)
		}
	}
	r.likes[postID] = append(rows, likeRow{UserID: userID, At: (*DB)(r).now()})
	return (*DB)(r).findPost(postID)
}

// ---- comments ----

type commentRepo DB

func (r *commentRepo) Create(ctx context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = (*DB)(r).now()
	c.UpdatedAt = c.CreatedAt
	r.comments[c.ID] = *c
	return nil
}

func (r *commentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string, offset, limit int) ([]domain.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	total := int64(len(all))
	return pageOf(all, offset, limit), total, nil
}

func (r *commentRepo) Update(ctx context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[c.ID]; !ok {
		return domain.ErrNotFound
	}
	c.UpdatedAt = (*DB)(r).now()
	r.comments[c.ID] = *c
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

// ---- shared helpers (callers hold the lock) ----

func (d *DB) findPost(id string) (*domain.Post, error) {
	p, ok := d.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	likes := []string{}
	for _, row := range d.likes[id] {
		likes = append(likes, row.UserID)
	}
	p.Likes = likes

	var cs []domain.Comment
	for _, c := range d.comments {
		if c.PostID == id {
			cs = append(cs, c)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].CreatedAt.Before(cs[j].CreatedAt) })
	ids := []string{}
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	p.Comments = ids
	return &p, nil
}

func (d *DB) listPosts(authorID string, offset, limit int) ([]domain.Post, int64, error) {
	var all []domain.Post
	for id := range d.posts {
		if authorID != "" && d.posts[id].AuthorID != authorID {
			continue
		}
		p, _ := d.findPost(id)
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	return pageOf(all, offset, limit), total, nil
}

func (d *DB) postIDsByAuthor(authorID string) []string {
	var ps []domain.Post
	for _, p := range d.posts {
		if p.AuthorID == authorID {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	ids := []string{}
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func pageOf[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	out := make([]T, end-offset)
	copy(out, all[offset:end])
	return out
}

package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/service"
)

func TestCommentCreateRequiresPost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")

	if _, err := e.comments.Create(ctx, "missing", asCaller(alice), service.CommentInput{Text: "hello there"}, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("comment on missing post: got %v", err)
	}

	p, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "a post"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := e.comments.Create(ctx, p.ID, asCaller(alice), service.CommentInput{Text: "x"}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short text: got %v", err)
	}
	if _, err := e.comments.Create(ctx, p.ID, asCaller(alice), service.CommentInput{Text: strings.Repeat("a", 513)}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("long text: got %v", err)
	}

	c, err := e.comments.Create(ctx, p.ID, asCaller(alice), service.CommentInput{Text: "first!"}, nil)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	got, err := e.posts.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0] != c.ID {
		t.Fatalf("post comments = %v", got.Comments)
	}
}

func TestCommentListOldestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")

	p, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "a post"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	var ids []string
	for i := 0; i < 3; i++ {
		c, err := e.comments.Create(ctx, p.ID, asCaller(alice), service.CommentInput{Text: fmt.Sprintf("comment %d", i)}, nil)
		if err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
		ids = append(ids, c.ID)
	}

	list, total, err := e.comments.ListByPost(ctx, p.ID, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Fatalf("total=%d len=%d", total, len(list))
	}
	for i, c := range list {
		if c.ID != ids[i] {
			t.Fatalf("position %d: got %s, want %s (oldest first)", i, c.ID, ids[i])
		}
	}

	if _, _, err := e.comments.ListByPost(ctx, "missing", 0, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("list for missing post: got %v", err)
	}
}

func TestCommentUpdatePolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	bob := e.register(t, "Bob", "bob@example.com", "")

	p, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "a post"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	c, err := e.comments.Create(ctx, p.ID, asCaller(bob), service.CommentInput{Text: "bob wrote this"}, nil)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	// Even the post author cannot edit someone else's comment.
	if _, err := e.comments.Update(ctx, c.ID, asCaller(alice), service.CommentInput{Text: "rewritten"}, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("post author edit: got %v", err)
	}

	got, err := e.comments.Update(ctx, c.ID, asCaller(bob), service.CommentInput{Text: "bob edited this"}, nil)
	if err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if got.Text != "bob edited this" {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestCommentDeletePolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	bob := e.register(t, "Bob", "bob@example.com", "")
	carol := e.register(t, "Carol", "carol@example.com", "")
	admin := e.register(t, "Root", "root@example.com", domain.RoleAdmin)

	p, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "alice's post"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	newComment := func() *domain.Comment {
		c, err := e.comments.Create(ctx, p.ID, asCaller(bob), service.CommentInput{Text: "from bob"}, nil)
		if err != nil {
			t.Fatalf("create comment: %v", err)
		}
		return c
	}

	c := newComment()
	if _, err := e.comments.Delete(ctx, c.ID, asCaller(carol)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("third party delete: got %v", err)
	}

	for name, caller := range map[string]domain.Caller{
		"comment author": asCaller(bob),
		"post author":    asCaller(alice),
		"admin":          asCaller(admin),
	} {
		c := newComment()
		if _, err := e.comments.Delete(ctx, c.ID, caller); err != nil {
			t.Fatalf("%s delete: %v", name, err)
		}
		if _, err := e.comments.Update(ctx, c.ID, asCaller(bob), service.CommentInput{Text: "still here"}, nil); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%s: comment survived delete: %v", name, err)
		}
	}
}

func TestCommentDeleteCleansBlobAndPostRefs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")

	p, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "a post"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	c, err := e.comments.Create(ctx, p.ID, asCaller(alice), service.CommentInput{Text: "with picture"}, upload("shot.png", "img"))
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if !e.blobs.Has(c.Image.Key) {
		t.Fatal("comment image not stored")
	}

	if _, err := e.comments.Delete(ctx, c.ID, asCaller(alice)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if e.blobs.Has(c.Image.Key) {
		t.Fatal("comment image not cleaned up")
	}

	got, err := e.posts.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(got.Comments) != 0 {
		t.Fatalf("post still references deleted comment: %v", got.Comments)
	}
}

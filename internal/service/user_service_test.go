package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/service"
	"github.com/asafto/kdog-server/pkg/utils"
)

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   service.RegisterInput
	}{
		{"short name", service.RegisterInput{Name: "x", Email: "a@example.com", Password: "hunter22"}},
		{"bad email", service.RegisterInput{Name: "Alice", Email: "not-an-email", Password: "hunter22"}},
		{"short password", service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "tiny"}},
		{"long password", service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: strings.Repeat("p", 1025)}},
		{"unknown role", service.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "hunter22", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.users.Register(ctx, tc.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDefaultsAndDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.register(t, "Alice", "alice@example.com", "")
	if u.Role != domain.RoleRegular {
		t.Fatalf("default role = %q", u.Role)
	}
	if u.PasswordHash == "hunter22" || !utils.CheckPassword("hunter22", u.PasswordHash) {
		t.Fatal("password not hashed correctly")
	}

	_, err := e.users.Register(ctx, service.RegisterInput{
		Name: "Imposter", Email: "alice@example.com", Password: "hunter22",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("duplicate email: got %v", err)
	}

	admin := e.register(t, "Root", "root@example.com", domain.RoleAdmin)
	users, total, err := e.users.List(ctx, asCaller(admin), 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("duplicate registration persisted: total=%d len=%d", total, len(users))
	}
}

func TestGetVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	bob := e.register(t, "Bob", "bob@example.com", "")
	admin := e.register(t, "Root", "root@example.com", domain.RoleAdmin)

	if _, err := e.users.Get(ctx, alice.ID, asCaller(alice)); err != nil {
		t.Fatalf("self get: %v", err)
	}
	if _, err := e.users.Get(ctx, alice.ID, asCaller(admin)); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := e.users.Get(ctx, alice.ID, asCaller(bob)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger get: got %v, want ErrForbidden", err)
	}

	if _, _, err := e.users.List(ctx, asCaller(bob), 0, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin list: got %v, want ErrForbidden", err)
	}
}

func TestUpdateStripsRoleForNonAdmins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	admin := e.register(t, "Root", "root@example.com", domain.RoleAdmin)

	role := domain.RoleAdmin
	u, err := e.users.Update(ctx, alice.ID, service.UpdateUserInput{Role: &role}, asCaller(alice))
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if u.Role != domain.RoleRegular {
		t.Fatalf("self-escalation applied: role = %q", u.Role)
	}

	u, err = e.users.Update(ctx, alice.ID, service.UpdateUserInput{Role: &role}, asCaller(admin))
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("admin role change ignored: role = %q", u.Role)
	}
}

func TestUpdatePasswordRehashOnlyOnChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	oldHash := alice.PasswordHash

	same := "hunter22"
	u, err := e.users.Update(ctx, alice.ID, service.UpdateUserInput{Password: &same}, asCaller(alice))
	if err != nil {
		t.Fatalf("update with same password: %v", err)
	}
	if u.PasswordHash != oldHash {
		t.Fatal("unchanged password was re-hashed")
	}

	changed := "s3cret-new"
	u, err = e.users.Update(ctx, alice.ID, service.UpdateUserInput{Password: &changed}, asCaller(alice))
	if err != nil {
		t.Fatalf("update with new password: %v", err)
	}
	if u.PasswordHash == oldHash {
		t.Fatal("changed password kept the old hash")
	}
	if !utils.CheckPassword(changed, u.PasswordHash) {
		t.Fatal("new hash does not verify")
	}
}

func TestUpdateForbiddenForStrangers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	bob := e.register(t, "Bob", "bob@example.com", "")

	name := "Mallory"
	if _, err := e.users.Update(ctx, alice.ID, service.UpdateUserInput{Name: &name}, asCaller(bob)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

// Deleting a user takes their posts, likes and post images with them, while
// comments they left on other people's posts survive.
func TestDeleteCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "Alice", "alice@example.com", "")
	bob := e.register(t, "Bob", "bob@example.com", "")

	alicePost, err := e.posts.Create(ctx, asCaller(alice), service.PostInput{Text: "mine"}, &service.Upload{
		Name: "pic.png", ContentType: "image/png", Reader: strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	bobPost, err := e.posts.Create(ctx, asCaller(bob), service.PostInput{Text: "not mine"}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := e.posts.ToggleLike(ctx, bobPost.ID, asCaller(alice)); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := e.comments.Create(ctx, bobPost.ID, asCaller(alice), service.CommentInput{Text: "nice one"}, nil); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if e.blobs.Len() != 1 {
		t.Fatalf("blobs = %d, want 1", e.blobs.Len())
	}

	if _, err := e.users.Delete(ctx, alice.ID, asCaller(alice)); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := e.users.Get(ctx, alice.ID, asCaller(alice)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted user still found: %v", err)
	}
	if _, err := e.posts.Get(ctx, alicePost.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("authored post survived: %v", err)
	}
	if e.blobs.Len() != 0 {
		t.Fatalf("post image not cleaned up: %d blobs remain", e.blobs.Len())
	}

	p, err := e.posts.Get(ctx, bobPost.ID)
	if err != nil {
		t.Fatalf("get surviving post: %v", err)
	}
	if len(p.Likes) != 0 {
		t.Fatalf("deleted user's like survived: %v", p.Likes)
	}
	if len(p.Comments) != 1 {
		t.Fatalf("comment on another author's post should survive, got %v", p.Comments)
	}
}

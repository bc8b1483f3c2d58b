package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/public/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	f, err := store.Save(ctx, "dog.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.Name != "dog.png" {
		t.Fatalf("name = %q, want dog.png", f.Name)
	}
	if !strings.HasSuffix(f.Key, "__dog.png") {
		t.Fatalf("key %q missing random prefix scheme", f.Key)
	}
	if f.Location != "/public/"+f.Key {
		t.Fatalf("location = %q", f.Location)
	}

	rc, ct, err := store.Open(ctx, f.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	if ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "png-bytes" {
		t.Fatalf("content = %q", b)
	}

	if err := store.Delete(ctx, f.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Open(ctx, f.Key); err == nil {
		t.Fatal("expected Open to fail after Delete")
	}
}

func TestLocalStoreUniqueKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/public")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	a, err := store.Save(ctx, "same.jpg", "image/jpeg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := store.Save(ctx, "same.jpg", "image/jpeg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a.Key == b.Key {
		t.Fatalf("two uploads of the same name share key %q", a.Key)
	}
}

func TestLocalStoreStripsPath(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/public")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	f, err := store.Save(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.Name != "passwd" || strings.Contains(f.Key, "/") {
		t.Fatalf("path not stripped: name=%q key=%q", f.Name, f.Key)
	}
}

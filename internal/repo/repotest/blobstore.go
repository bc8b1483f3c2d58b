package repotest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/asafto/kdog-server/internal/storage"
)

// BlobStore keeps uploads in memory.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string
	seq   int
}

var _ storage.BlobStore = (*BlobStore)(nil)

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (s *BlobStore) Save(ctx context.Context, name, contentType string, r io.Reader) (*storage.File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("%06d__%s", s.seq, filepath.Base(name))
	s.blobs[key] = b
	s.types[key] = contentType
	return &storage.File{Name: filepath.Base(name), Key: key, Location: "/public/" + key}, nil
}

func (s *BlobStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, "", os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), s.types[key], nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return os.ErrNotExist
	}
	delete(s.blobs, key)
	delete(s.types, key)
	return nil
}

// Len reports how many blobs are currently stored.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Has reports whether a key is stored.
func (s *BlobStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok
}

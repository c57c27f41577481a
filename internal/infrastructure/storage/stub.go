package storage

import (
	"context"
	"errors"
	"sync"
)

// StubAttachmentStore is an in-memory AttachmentStore for development
// and tests. Files live in a map and the returned URLs point at a
// configurable fake host.
type StubAttachmentStore struct {
	// BaseURL is the base URL for generated file URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu    sync.Mutex
	files map[string][]byte
}

// NewStubAttachmentStore creates a new StubAttachmentStore
func NewStubAttachmentStore() *StubAttachmentStore {
	return &StubAttachmentStore{
		BaseURL: "https://storage.example.com",
		files:   make(map[string][]byte),
	}
}

// Ensure StubAttachmentStore implements AttachmentStore
var _ AttachmentStore = (*StubAttachmentStore)(nil)

// Upload keeps the file in memory and returns a fake public URL.
func (s *StubAttachmentStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	s.files[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Delete removes the file from memory.
func (s *StubAttachmentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.files, key)
	s.mu.Unlock()
	return nil
}

// Exists reports whether the file was uploaded.
func (s *StubAttachmentStore) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.Lock()
	_, ok := s.files[key]
	s.mu.Unlock()
	return ok, nil
}

// Get returns the stored bytes, for test assertions.
func (s *StubAttachmentStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	return data, ok
}

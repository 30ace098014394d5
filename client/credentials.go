package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// CredentialStore holds the current session token: a single optional slot.
// Any component may read; only login/registration success paths and the auth
// rejection path may write. Clear must be idempotent, and a clear must be
// visible to every subsequent read, including in-flight requests deciding
// whether to retry.
type CredentialStore interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// FileStore persists the token in a single file so the session survives
// process restarts. Writes go through a temp file and rename so a reader
// never observes a partial token.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ CredentialStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}

	return token, true
}

func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create credential directory")
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create credential temp file")
	}

	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write credential")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to close credential temp file")
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to restrict credential permissions")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist credential")
	}

	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear credential")
	}

	return nil
}

// MemoryStore is an in-process CredentialStore, used in tests and by
// callers that do not want a durable session.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

var _ CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

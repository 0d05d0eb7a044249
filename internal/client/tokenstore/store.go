// Package tokenstore holds the single bearer token of the current session.
//
// The token is opaque: it is stored and returned verbatim, never parsed or
// validated. An empty string is treated as "no token".
package tokenstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dashgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

// TokenKey is the fixed metadata key the token is persisted under.
const TokenKey = "zs_token"

// Store is a process-wide slot holding at most one token.
type Store interface {
	// Get returns the held token, or ("", false) when none is held.
	Get(ctx context.Context) (string, bool)
	// Set overwrites the held token.
	Set(ctx context.Context, token string) error
	// Clear drops the held token; clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

// SQLiteStore persists the token in the local metadata table so that it
// survives restarts of the CLI.
type SQLiteStore struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewSQLiteStore(repo metadata.Repository, log logging.Logger) *SQLiteStore {
	if log == nil {
		log = logging.Nop()
	}
	return &SQLiteStore{repo: repo, log: log}
}

// Get reports storage failures as absence.
func (s *SQLiteStore) Get(ctx context.Context) (string, bool) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "token store read failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}

// MemoryStore keeps the token for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

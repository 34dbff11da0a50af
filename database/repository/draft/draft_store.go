package draftRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DraftKeyPrefix  = "bookingDraft:"
	SubmitKeyPrefix = "bookingSubmit:"
)

// ErrDraftNotFound is returned by Load when the draft is absent or expired.
var ErrDraftNotFound = errors.New("booking draft not found")

// DraftStore keeps serialized booking drafts keyed by session id.
type DraftStore interface {
	Save(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
	// AcquireSubmit marks the session as submitting for at most ttl. It reports false
	// when another submission holds the mark.
	AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmit(ctx context.Context, sessionID string) error
}

// RedisDraftStore stores drafts in Redis; each save refreshes the TTL.
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func (s *RedisDraftStore) Save(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, DraftKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save booking draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.client.Get(ctx, DraftKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}
	return data, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, DraftKeyPrefix+sessionID).Err()
}

func (s *RedisDraftStore) AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, SubmitKeyPrefix+sessionID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit guard: %w", err)
	}
	return ok, nil
}

func (s *RedisDraftStore) ReleaseSubmit(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, SubmitKeyPrefix+sessionID).Err()
}

// MemoryDraftStore is a process-local DraftStore for tests and single-node development.
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	submits map[string]time.Time
	now     func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		entries: make(map[string]memoryEntry),
		submits: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryDraftStore) Save(_ context.Context, sessionID string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	entry := memoryEntry{payload: buf}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[sessionID] = entry
	return nil
}

func (s *MemoryDraftStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sessionID)
		return nil, ErrDraftNotFound
	}
	return entry.payload, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *MemoryDraftStore) AcquireSubmit(_ context.Context, sessionID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if until, ok := s.submits[sessionID]; ok && now.Before(until) {
		return false, nil
	}
	s.submits[sessionID] = now.Add(ttl)
	return true, nil
}

func (s *MemoryDraftStore) ReleaseSubmit(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submits, sessionID)
	return nil
}

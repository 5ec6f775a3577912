// Package snapshot keeps the single downloadable CSV produced by a render
// pass for a short time, so the page can link to it.
package snapshot

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DefaultTTL is how long a snapshot stays downloadable.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned for unknown or expired snapshots.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one downloadable file.
type Snapshot struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store holds snapshots by content-derived id.
type Store interface {
	Put(ctx context.Context, s Snapshot) (string, error)
	Get(ctx context.Context, id string) (Snapshot, error)
}

// ID derives the snapshot id from its name and content, so identical
// downloads share one entry.
func ID(s Snapshot) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(s.Filename))
	h.Write([]byte{0})
	h.Write(s.Data)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// MemoryStore is an in-process Store with expiry.
type MemoryStore struct {
	ttl   time.Duration
	items map[string]Snapshot
	now   func() time.Time
	mu    sync.Mutex
}

// NewMemoryStore creates a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:   ttl,
		items: make(map[string]Snapshot),
		now:   time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, s Snapshot) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evict(now)

	s.CreatedAt = now
	id := ID(s)
	m.items[id] = s
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.items[id]
	if !ok || m.expired(s, m.now()) {
		return Snapshot{}, ErrNotFound
	}
	return s, nil
}

// Len returns the number of live snapshots.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evict(m.now())
	return len(m.items)
}

func (m *MemoryStore) expired(s Snapshot, now time.Time) bool {
	return now.Sub(s.CreatedAt) >= m.ttl
}

func (m *MemoryStore) evict(now time.Time) {
	for id, s := range m.items {
		if m.expired(s, now) {
			delete(m.items, id)
		}
	}
}

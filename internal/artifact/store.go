package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store keeps artifacts for later download.
type Store interface {
	Save(ctx context.Context, a Artifact) (string, error)
	Load(ctx context.Context, id string) (Artifact, error)
}

// StoreEmitter adapts a Store to the Emitter interface.
type StoreEmitter struct {
	Store Store

	mu     sync.Mutex
	lastID string
}

// Emit saves the artifact and remembers its id.
func (e *StoreEmitter) Emit(ctx context.Context, a Artifact) error {
	id, err := e.Store.Save(ctx, a)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.lastID = id
	e.mu.Unlock()
	return nil
}

// LastID returns the id of the most recently emitted artifact.
func (e *StoreEmitter) LastID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastID
}

type memoryEntry struct {
	artifact  Artifact
	expiresAt time.Time
	seq       uint64
}

// defaultMaxEntries applies when NewMemoryStore is given no limit.
const defaultMaxEntries = 256

// MemoryStore is an in-process Store with expiry. It holds at most
// maxEntries artifacts; saving beyond that evicts the oldest.
type MemoryStore struct {
	mu         sync.RWMutex
	store      map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryStore creates a store whose entries live for ttl, keeping at most
// maxEntries of them, and starts the janitor that evicts expired ones. Close
// stops the janitor.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	s := &MemoryStore{
		store:      make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer close(s.done)
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, id)
		}
	}
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

// Save stores a copy of the artifact under a new id.
func (s *MemoryStore) Save(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	stored := a
	stored.Data = append([]byte(nil), a.Data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.store[id] = memoryEntry{artifact: stored, expiresAt: s.now().Add(s.ttl), seq: s.seq}
	for len(s.store) > s.maxEntries {
		s.evictOldest()
	}
	return id, nil
}

// evictOldest removes the earliest saved entry. The caller holds s.mu.
func (s *MemoryStore) evictOldest() {
	var (
		oldestID  string
		oldestSeq uint64
	)
	for id, entry := range s.store {
		if oldestID == "" || entry.seq < oldestSeq {
			oldestID, oldestSeq = id, entry.seq
		}
	}
	delete(s.store, oldestID)
}

// Load returns the artifact saved under id.
func (s *MemoryStore) Load(ctx context.Context, id string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	s.mu.RLock()
	entry, ok := s.store[id]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expiresAt) {
		return Artifact{}, ErrNotFound
	}
	return entry.artifact, nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// RedisStore keeps artifacts in Redis so several API instances can serve the
// same downloads.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(logger *zap.Logger, addr string, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithClient(logger, redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(logger *zap.Logger, client *redis.Client, ttl time.Duration) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, prefix: "loan-report:artifact:", ttl: ttl, logger: logger}
}

// Key returns the Redis key used for id.
func (r *RedisStore) Key(id string) string {
	return r.prefix + id
}

// Save stores the artifact as JSON with the configured expiry.
func (r *RedisStore) Save(ctx context.Context, a Artifact) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}
	id := uuid.NewString()
	if err := r.client.Set(ctx, r.Key(id), payload, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store artifact: %w", err)
	}
	r.logger.Debug("artifact stored",
		zap.String("op", "artifact.RedisStore.Save"),
		zap.String("id", id),
		zap.Int("bytes", len(a.Data)),
	)
	return id, nil
}

// Load fetches and decodes the artifact stored under id.
func (r *RedisStore) Load(ctx context.Context, id string) (Artifact, error) {
	payload, err := r.client.Get(ctx, r.Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to load artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return Artifact{}, fmt.Errorf("failed to decode artifact: %w", err)
	}
	return a, nil
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

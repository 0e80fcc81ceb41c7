// Package session keeps one predictor engine and one chat history per browser
// session, evicted after an idle TTL.
package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/logging"
	"github.com/zyren-ai/zyren/internal/metrics"
	"github.com/zyren-ai/zyren/internal/predict"
)

// State is everything one session owns. Callers hold the lock for the
// duration of one operation.
type State struct {
	mu sync.Mutex

	ID     string
	Engine *predict.Engine
	Chat   *assistant.History
}

func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// StoreConfig tunes a Store.
type StoreConfig struct {
	TTL          time.Duration
	HistoryLimit int

	// NewEngine builds the engine of a fresh session.
	NewEngine func() *predict.Engine
	Metrics   *metrics.Metrics
}

// Store maps session IDs to State. Every access pushes the expiry back by TTL.
type Store struct {
	cache *cache.Cache
	cfg   StoreConfig
	mu    sync.Mutex // serializes get-or-create
}

func NewStore(cfg StoreConfig) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	if cfg.NewEngine == nil {
		cfg.NewEngine = func() *predict.Engine { return predict.New(predict.DefaultConfig(), nil) }
	}
	s := &Store{
		cache: cache.New(cfg.TTL, cfg.TTL/2),
		cfg:   cfg,
	}
	log := logging.New("session")
	s.cache.OnEvicted(func(id string, _ interface{}) {
		log.Debug("session: evicted", "session", id)
		s.cfg.Metrics.SetSessions(s.cache.ItemCount())
	})
	return s
}

// Get returns the session for id, creating it on first use.
func (s *Store) Get(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		st := v.(*State)
		s.cache.Set(id, st, cache.DefaultExpiration)
		return st
	}
	st := &State{
		ID:     id,
		Engine: s.cfg.NewEngine(),
		Chat:   assistant.NewHistory(s.cfg.HistoryLimit),
	}
	s.cache.Set(id, st, cache.DefaultExpiration)
	s.cfg.Metrics.SetSessions(s.cache.ItemCount())
	return st
}

// Lookup returns an existing session without creating one.
func (s *Store) Lookup(id string) (*State, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*State), true
}

// Delete drops a session.
func (s *Store) Delete(id string) { s.cache.Delete(id) }

// Len is the number of live sessions, expired ones not yet swept included.
func (s *Store) Len() int { return s.cache.ItemCount() }

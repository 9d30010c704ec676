// Package store persists executor provenance logs after a pure
// pkg/icl.Execute call returns, and provides an AuditedExecutor wrapper
// that never itself alters execution semantics. A run is recorded whether
// the call succeeded or failed.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no run matches the given ID.
var ErrNotFound = errors.New("store: run not found")

// Run is one persisted execution: the request/result pair produced by a
// single pkg/icl.Execute call, plus bookkeeping fields.
type Run struct {
	ID           string    `json:"id"`
	StableID     string    `json:"stable_id"`
	RequestJSON  string    `json:"request_json"`
	ResultJSON   string    `json:"result_json"`
	Success      bool      `json:"success"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// ProvenanceStore defines the persistence interface every backend
// implements.
type ProvenanceStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, stableID string, limit int) ([]*Run, error)
}

// MemoryStore is an in-memory ProvenanceStore, the default for tests and
// for local development without a configured database.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

func (s *MemoryStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	cp := *run
	s.runs[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, stableID string, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Run
	for _, r := range s.runs {
		if stableID != "" && r.StableID != stableID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sortRunsByRecordedAtDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortRunsByRecordedAtDesc(runs []*Run) {
	for i := 1; i < len(runs); i++ {
		for j := i; j > 0 && runs[j].RecordedAt.After(runs[j-1].RecordedAt); j-- {
			runs[j], runs[j-1] = runs[j-1], runs[j]
		}
	}
}

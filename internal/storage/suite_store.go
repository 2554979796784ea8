package storage

import (
	"context"
	"errors"
	"sync"

	"testcase_generator/internal/model"
)

// ErrSuiteNotFound is returned by Get for an unknown suite ID
var ErrSuiteNotFound = errors.New("suite not found")

// SuiteStore persists generated test case suites
type SuiteStore interface {
	Save(ctx context.Context, suite model.Suite) error
	Get(ctx context.Context, id string) (model.Suite, error)
}

// MemorySuiteStore keeps suites in process memory
type MemorySuiteStore struct {
	mu     sync.RWMutex
	suites map[string]model.Suite
}

func NewMemorySuiteStore() *MemorySuiteStore {
	return &MemorySuiteStore{suites: make(map[string]model.Suite)}
}

func (s *MemorySuiteStore) Save(_ context.Context, suite model.Suite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suite.TestCases = append([]model.TestCase(nil), suite.TestCases...)
	s.suites[suite.ID] = suite
	return nil
}

func (s *MemorySuiteStore) Get(_ context.Context, id string) (model.Suite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	suite, ok := s.suites[id]
	if !ok {
		return model.Suite{}, ErrSuiteNotFound
	}
	return suite, nil
}

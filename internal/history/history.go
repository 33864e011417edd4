// Package history keeps the persisted log of submitted quiz results.
package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/store"
)

// Store holds results most-recent-first and mirrors them to the KV under
// store.KeyHistory. The in-memory sequence is authoritative: a failed write
// is reported but never rolls back an append.
type Store struct {
	mu      sync.RWMutex
	results []quiz.Result
	kv      store.KV
	logger  *slog.Logger
}

// New returns an empty Store. A nil kv keeps history in memory only.
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: kv, logger: logger}
}

// Load replaces the in-memory history with the persisted one and returns the
// number of records that had to be migrated. A missing key yields an empty
// history. A read or parse failure also yields an empty history and is
// returned as a *quiz.PersistenceError.
func (s *Store) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	if s.kv == nil {
		return 0, nil
	}

	raw, ok, err := s.kv.Get(ctx, store.KeyHistory)
	if err != nil {
		s.logger.Warn("failed to read history", "error", err)
		return 0, &quiz.PersistenceError{Op: "load", Key: store.KeyHistory, Err: err}
	}
	if !ok || raw == "" {
		return 0, nil
	}

	var results []quiz.Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		s.logger.Warn("failed to parse history, starting empty", "error", err)
		return 0, &quiz.PersistenceError{Op: "load", Key: store.KeyHistory, Err: err}
	}

	migrated := migrate(results)
	s.results = results
	if migrated > 0 {
		s.logger.Info("migrated history records", "count", migrated)
		if err := s.persistLocked(ctx); err != nil {
			s.logger.Warn("failed to save migrated history", "error", err)
		}
	}
	return migrated, nil
}

// migrate back-fills QuestionType on records written before it existed.
func migrate(results []quiz.Result) int {
	n := 0
	for i := range results {
		if results[i].QuestionType != "" {
			continue
		}
		if results[i].Difficulty == quiz.DifficultyEasy {
			results[i].QuestionType = quiz.QuestionTypeKnowledge
		} else {
			results[i].QuestionType = quiz.QuestionTypeScenario
		}
		n++
	}
	return n
}

// Results returns a copy of the history, most recent first.
func (s *Store) Results() []quiz.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Get returns the result with the given id.
func (s *Store) Get(id int64) (quiz.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return quiz.Result{}, false
}

// Append puts r at the front of the history and persists the whole sequence.
func (s *Store) Append(ctx context.Context, r quiz.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = slices.Insert(s.results, 0, r)
	if err := s.persistLocked(ctx); err != nil {
		s.logger.Warn("failed to save history", "id", r.ID, "error", err)
		return err
	}
	return nil
}

// Clear empties the history and removes it from storage.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, store.KeyHistory); err != nil {
		s.logger.Warn("failed to delete history", "error", err)
		return &quiz.PersistenceError{Op: "delete", Key: store.KeyHistory, Err: err}
	}
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	results := s.results
	if results == nil {
		results = []quiz.Result{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return &quiz.PersistenceError{Op: "save", Key: store.KeyHistory, Err: err}
	}
	if err := s.kv.Set(ctx, store.KeyHistory, string(data)); err != nil {
		return &quiz.PersistenceError{Op: "save", Key: store.KeyHistory, Err: err}
	}
	return nil
}

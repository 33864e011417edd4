// Package knowledge holds the EMT reference material that question
// generation and explanations are grounded in: a fixed set of built-in
// topics plus learner-added custom topics persisted in the KV store.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/store"
)

// Topic is a named body of reference text.
type Topic struct {
	Name     string `json:"topic"`
	Content  string `json:"content"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// Store is the in-memory topic list, built-ins first and custom topics after
// in the order they were added.
type Store struct {
	mu     sync.RWMutex
	topics []Topic
	kv     store.KV
	logger *slog.Logger
}

// New returns a Store holding only the built-in topics. Call Load to merge
// persisted custom topics. kv may be nil for a store that never persists.
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{topics: Builtins(), kv: kv, logger: logger}
}

// Load appends the persisted custom topics to the built-ins. Any read or
// parse failure leaves the built-ins in place and is returned as a
// *quiz.PersistenceError after being logged; callers may ignore it.
func (s *Store) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	raw, ok, err := s.kv.Get(ctx, store.KeyCustomTopics)
	if err != nil {
		s.logger.Warn("failed to load custom topics", "error", err)
		return &quiz.PersistenceError{Op: "load", Key: store.KeyCustomTopics, Err: err}
	}
	if !ok {
		return nil
	}

	var custom []Topic
	if err := json.Unmarshal([]byte(raw), &custom); err != nil {
		s.logger.Warn("failed to parse custom topics", "error", err)
		return &quiz.PersistenceError{Op: "load", Key: store.KeyCustomTopics, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = Builtins()
	for _, t := range custom {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		if s.indexFoldLocked(t.Name) >= 0 {
			s.logger.Warn("skipping custom topic with duplicate name", "topic", t.Name)
			continue
		}
		t.IsCustom = true
		s.topics = append(s.topics, t)
	}
	return nil
}

// Topics returns every topic in display order.
func (s *Store) Topics() []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.topics)
}

// Names returns every topic name in display order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.topics))
	for i, t := range s.topics {
		names[i] = t.Name
	}
	return names
}

// Custom returns only the learner-added topics.
func (s *Store) Custom() []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customLocked()
}

func (s *Store) customLocked() []Topic {
	var out []Topic
	for _, t := range s.topics {
		if t.IsCustom {
			out = append(out, t)
		}
	}
	return out
}

// Lookup finds a topic by exact name.
func (s *Store) Lookup(name string) (Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// Filter returns topics whose name contains term, ignoring case. An empty
// term matches everything.
func (s *Store) Filter(term string) []Topic {
	term = strings.ToLower(strings.TrimSpace(term))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Topic
	for _, t := range s.topics {
		if term == "" || strings.Contains(strings.ToLower(t.Name), term) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve returns the topics whose names appear in names, in store order.
// Unknown names are dropped.
func (s *Store) Resolve(names []string) []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Topic
	for _, t := range s.topics {
		if slices.Contains(names, t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// Add creates a custom topic. Names must be unique ignoring case across
// built-in and custom topics. A persistence failure is logged and returned,
// but the topic stays added for this process.
func (s *Store) Add(ctx context.Context, name, content string) (Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Topic{}, &quiz.ValidationError{Field: "topic", Message: "Please enter a topic name."}
	}
	if strings.TrimSpace(content) == "" {
		return Topic{}, &quiz.ValidationError{Field: "content", Message: "The file appears to be empty or could not be read."}
	}

	s.mu.Lock()
	if s.indexFoldLocked(name) >= 0 {
		s.mu.Unlock()
		return Topic{}, &quiz.ValidationError{
			Field:   "topic",
			Message: fmt.Sprintf("A topic with the name %q already exists. Please choose a different name.", name),
		}
	}
	t := Topic{Name: name, Content: content, IsCustom: true}
	s.topics = append(s.topics, t)
	custom := s.customLocked()
	s.mu.Unlock()

	return t, s.persist(ctx, custom)
}

// Delete removes a custom topic by exact name.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.topics, func(t Topic) bool { return t.Name == name })
	if i < 0 {
		s.mu.Unlock()
		return &quiz.ValidationError{Field: "topic", Message: fmt.Sprintf("No topic named %q.", name)}
	}
	if !s.topics[i].IsCustom {
		s.mu.Unlock()
		return &quiz.ValidationError{Field: "topic", Message: fmt.Sprintf("%q is a built-in topic and cannot be deleted.", name)}
	}
	s.topics = slices.Delete(s.topics, i, i+1)
	custom := s.customLocked()
	s.mu.Unlock()

	return s.persist(ctx, custom)
}

// Reset drops every custom topic and removes the persisted list.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.topics = Builtins()
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, store.KeyCustomTopics); err != nil {
		s.logger.Warn("failed to delete custom topics", "error", err)
		return &quiz.PersistenceError{Op: "delete", Key: store.KeyCustomTopics, Err: err}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, custom []Topic) error {
	if s.kv == nil {
		return nil
	}
	if custom == nil {
		custom = []Topic{}
	}
	data, err := json.Marshal(custom)
	if err != nil {
		return &quiz.PersistenceError{Op: "save", Key: store.KeyCustomTopics, Err: err}
	}
	if err := s.kv.Set(ctx, store.KeyCustomTopics, string(data)); err != nil {
		s.logger.Warn("failed to save custom topics", "error", err)
		return &quiz.PersistenceError{Op: "save", Key: store.KeyCustomTopics, Err: err}
	}
	return nil
}

func (s *Store) indexFoldLocked(name string) int {
	return slices.IndexFunc(s.topics, func(t Topic) bool {
		return strings.EqualFold(t.Name, name)
	})
}

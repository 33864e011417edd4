package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"kv", "llm_request_events", "sequences"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.KV().Get(ctx, KeyTheme)
	if err != nil || !ok || v != "dark" {
		t.Fatalf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestKVSetGetDelete(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, KeyHistory); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, KeyHistory, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, KeyHistory, `[{"id":1}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, KeyHistory)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `[{"id":1}]` {
		t.Errorf("value = %q, want last write", v)
	}

	if err := kv.Set(ctx, KeyCustomTopics, `[]`); err != nil {
		t.Fatalf("set topics: %v", err)
	}
	if err := kv.Delete(ctx, KeyHistory, KeyCustomTopics, "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, k := range []string{KeyHistory, KeyCustomTopics} {
		if _, ok, _ := kv.Get(ctx, k); ok {
			t.Errorf("key %s still present after delete", k)
		}
	}
	if err := kv.Delete(ctx); err != nil {
		t.Errorf("delete with no keys: %v", err)
	}
}

func TestMemoryKVFailWrites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	if err := kv.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	kv.FailWrites = context.DeadlineExceeded
	if err := kv.Set(ctx, "a", "2"); err == nil {
		t.Fatal("expected write failure")
	}
	if v, _, _ := kv.Get(ctx, "a"); v != "1" {
		t.Errorf("value = %q, want unchanged", v)
	}
}

func TestCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	// Counters are independent and re-seeding keeps the position.
	other, err := newCounter(ctx, s.DB(), "other")
	if err != nil {
		t.Fatalf("new counter: %v", err)
	}
	if n, _ := other.Next(ctx); n != 1 {
		t.Errorf("other.Next = %d, want 1", n)
	}
	again, err := newCounter(ctx, s.DB(), llmEventsCounter)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n, _ := again.Next(ctx); n != 6 {
		t.Errorf("after reseed Next = %d, want 6", n)
	}
}

func appendEvents(t *testing.T, repo EventRepo, events ...LLMRequestEventData) {
	t.Helper()
	for _, e := range events {
		if err := repo.AppendLLMRequest(context.Background(), e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestLLMEventsAppendAndQuery(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()
	start := time.Now().Add(-time.Second)

	appendEvents(t, repo,
		LLMRequestEventData{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", SessionID: "s1", InputTokens: 100, OutputTokens: 50, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		LLMRequestEventData{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "explanation", SessionID: "s1", InputTokens: 20, OutputTokens: 10, LatencyMs: 300, Success: true},
		LLMRequestEventData{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", SessionID: "s2", LatencyMs: 100, ErrorMessage: "rate limited"},
	)

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Errorf("events not newest first: %d, %d", all[0].Sequence, all[1].Sequence)
	}
	if all[0].Success || all[0].ErrorMessage != "rate limited" {
		t.Errorf("newest event = %+v, want failed call", all[0])
	}
	if all[2].Timestamp.Before(start) {
		t.Errorf("timestamp %v before test start", all[2].Timestamp)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit: len=%d err=%v", len(limited), err)
	}

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	if err != nil || len(byPurpose) != 2 {
		t.Fatalf("purpose filter: len=%d err=%v", len(byPurpose), err)
	}

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{Session: "s1"})
	if err != nil || len(bySession) != 2 {
		t.Fatalf("session filter: len=%d err=%v", len(bySession), err)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil || len(after) != 1 {
		t.Fatalf("after filter: len=%d err=%v", len(after), err)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "req" || got.ResponseBody != "resp" || got.SessionID != "s1" {
		t.Errorf("GetLLMEvent = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	appendEvents(t, repo,
		LLMRequestEventData{Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 100, OutputTokens: 40, LatencyMs: 1000, Success: true},
		LLMRequestEventData{Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 200, OutputTokens: 60, LatencyMs: 3000, Success: true},
		LLMRequestEventData{Model: "gpt-4o-mini", Purpose: "explanation", InputTokens: 10, OutputTokens: 5, LatencyMs: 200, Success: true},
	)

	purposes, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(purposes) != 2 {
		t.Fatalf("len = %d, want 2", len(purposes))
	}
	qg := purposes[0]
	if qg.Purpose != "question-gen" || qg.Calls != 2 || qg.InputTokens != 300 || qg.OutputTokens != 100 || qg.AvgLatencyMs != 2000 {
		t.Errorf("question-gen usage = %+v", qg)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(models) != 2 || models[0].Model != "gemini-2.5-flash" || models[0].Calls != 2 {
		t.Errorf("usage by model = %+v", models)
	}
}

func TestPruneLLMEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		appendEvents(t, repo, LLMRequestEventData{Purpose: "question-gen", InputTokens: i})
	}

	n, err := repo.PruneLLMEvents(ctx, 5)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2", n)
	}

	left, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(left) != 5 {
		t.Fatalf("remaining = %d, want 5", len(left))
	}
	if left[0].InputTokens != 6 {
		t.Errorf("newest event InputTokens = %d, want 6", left[0].InputTokens)
	}

	// Fewer than keep is a no-op.
	n, err = repo.PruneLLMEvents(ctx, 10)
	if err != nil || n != 0 {
		t.Errorf("second prune = %d, %v", n, err)
	}
}

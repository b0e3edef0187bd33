package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvent(purpose string, success bool) LLMRequestEventData {
	return LLMRequestEventData{
		Provider:     "mock",
		Model:        "mock-model",
		Purpose:      purpose,
		InputTokens:  100,
		OutputTokens: 50,
		LatencyMs:    250,
		Success:      success,
		RequestBody:  `{"messages":[]}`,
		ResponseBody: `{"ok":true}`,
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
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

func TestMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='llm_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "llm_events" {
		t.Errorf("table name = %q, want 'llm_events'", name)
	}
}

func TestAppendAndQueryEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, sampleEvent("quiz-gen", false)); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Newest first.
	if events[0].Purpose != "quiz-gen" {
		t.Errorf("first event purpose = %q, want 'quiz-gen'", events[0].Purpose)
	}
	if events[0].Success {
		t.Error("expected failed event")
	}
	if events[1].Purpose != "validate" {
		t.Errorf("second event purpose = %q, want 'validate'", events[1].Purpose)
	}
	if events[1].InputTokens != 100 || events[1].OutputTokens != 50 {
		t.Errorf("token counts = %d/%d, want 100/50", events[1].InputTokens, events[1].OutputTokens)
	}
	if events[1].RunID == "" {
		t.Error("expected non-empty run ID")
	}
}

func TestQueryEventsPurposeFilter(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, sampleEvent("roadmap", true)); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "validate"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 validate events, got %d", len(events))
	}
	for _, e := range events {
		if e.Purpose != "validate" {
			t.Errorf("unexpected purpose %q", e.Purpose)
		}
	}
}

func TestQueryEventsLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := sampleEvent("guide", true)
	data.ErrorMessage = ""
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event")
	}
	if e.RequestBody != `{"messages":[]}` {
		t.Errorf("request body = %q", e.RequestBody)
	}
	if e.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestUsageAggregations(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, sampleEvent("quiz-gen", true)); err != nil {
		t.Fatalf("append: %v", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purpose rows, got %d", len(byPurpose))
	}
	for _, u := range byPurpose {
		switch u.Purpose {
		case "validate":
			if u.Calls != 2 || u.InputTokens != 200 || u.OutputTokens != 100 {
				t.Errorf("validate usage = %+v", u)
			}
		case "quiz-gen":
			if u.Calls != 1 || u.InputTokens != 100 {
				t.Errorf("quiz-gen usage = %+v", u)
			}
		default:
			t.Errorf("unexpected purpose %q", u.Purpose)
		}
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 {
		t.Fatalf("expected 1 model row, got %d", len(byModel))
	}
	if byModel[0].Model != "mock-model" || byModel[0].Calls != 3 {
		t.Errorf("model usage = %+v", byModel[0])
	}
}

func TestSeparateReposGetSeparateRunIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	repoA := s.EventRepo()
	repoB := s.EventRepo()

	if err := repoA.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repoB.AppendLLMRequest(ctx, sampleEvent("validate", true)); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repoA.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].RunID == events[1].RunID {
		t.Error("expected distinct run IDs per repo instance")
	}
}

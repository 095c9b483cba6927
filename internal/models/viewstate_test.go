package models

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryViewStateStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryViewStateStore(time.Hour)
	store.now = func() time.Time { return now }

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrViewNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrViewNotFound", err)
	}

	score := 80.0
	state := UIState{
		ResumeText: "resume",
		Result:     &AnalysisResult{MatchScore: &score},
		Questions:  []InterviewQuestion{{Question: "Q1"}},
	}
	if err := store.Put(ctx, "view", state); err != nil {
		t.Fatalf("Put: %v", err)
	}

	state.Questions[0].Question = "mutated"

	got, err := store.Get(ctx, "view")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ResumeText != "resume" || got.Questions[0].Question != "Q1" {
		t.Errorf("Get returned %+v", got)
	}

	now = now.Add(time.Hour)
	if _, err := store.Get(ctx, "view"); !errors.Is(err, ErrViewExpired) {
		t.Fatalf("Get after ttl error = %v, want ErrViewExpired", err)
	}

	removed, err := store.DeleteExpired(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("DeleteExpired() = %d, %v", removed, err)
	}
	if _, err := store.Get(ctx, "view"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("expired view should be gone, got %v", err)
	}
}

func TestMemoryViewStateStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryViewStateStore(0)

	if err := store.Delete(ctx, "nope"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Delete(missing) error = %v", err)
	}

	store.Put(ctx, "view", UIState{ResumeText: "x"})
	if err := store.Delete(ctx, "view"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "view"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

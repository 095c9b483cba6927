package models

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/careercompass/compass-web/migrations"
	"github.com/google/uuid"
)

// prefixCipher marks stored text so the test can tell it went through the cipher.
type prefixCipher struct{}

func (prefixCipher) Encrypt(s string) (string, error) { return "enc:" + s, nil }

func (prefixCipher) Decrypt(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !strings.HasPrefix(s, "enc:") {
		return "", errors.New("not encrypted")
	}
	return strings.TrimPrefix(s, "enc:"), nil
}

// openTestDatabase connects to COMPASS_TEST_DATABASE_URL and migrates it, or skips.
func openTestDatabase(t *testing.T) *Database {
	t.Helper()

	url := os.Getenv("COMPASS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("COMPASS_TEST_DATABASE_URL not set")
	}
	if err := MigrateURL(url, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := NewDatabase(context.Background(), DefaultDatabaseConfig(url))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestPostgresViewStateStore(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()
	store := NewPostgresViewStateStore(db.Pool, prefixCipher{}, time.Hour)
	id := uuid.NewString()

	if _, err := store.Get(ctx, id); !errors.Is(err, ErrViewNotFound) {
		t.Fatalf("Get(missing) error = %v", err)
	}

	result, err := DecodeAnalysisResult([]byte(`{"match_score": 64, "summary": "Needs more SQL"}`))
	if err != nil {
		t.Fatal(err)
	}
	state := UIState{
		ResumeText:     "Go developer",
		JobDescription: "Backend role",
		Result:         result,
		Questions:      []InterviewQuestion{{Question: "Tell me about pgx"}},
	}
	if err := store.Put(ctx, id, state); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var stored string
	if err := db.Pool.QueryRow(ctx, `SELECT resume_text FROM view_states WHERE id = $1`, id).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored != "enc:Go developer" {
		t.Errorf("resume_text stored as %q", stored)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ResumeText != state.ResumeText || got.JobDescription != state.JobDescription {
		t.Errorf("text round trip: %+v", got)
	}
	if got.Result.ScoreLabel() != "64" || got.Result.FeedbackSource != FeedbackSummary {
		t.Errorf("result round trip: %+v", got.Result)
	}
	if len(got.Questions) != 1 || got.Questions[0].Question != "Tell me about pgx" {
		t.Errorf("questions round trip: %+v", got.Questions)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

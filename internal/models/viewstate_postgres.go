package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TextCipher encrypts the resume and job description columns at rest.
type TextCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// PostgresViewStateStore keeps view state in the view_states table so that
// several server instances can serve the same browser.
type PostgresViewStateStore struct {
	pool   *pgxpool.Pool
	cipher TextCipher
	ttl    time.Duration
}

func NewPostgresViewStateStore(pool *pgxpool.Pool, cipher TextCipher, ttl time.Duration) *PostgresViewStateStore {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &PostgresViewStateStore{pool: pool, cipher: cipher, ttl: ttl}
}

func (s *PostgresViewStateStore) Get(ctx context.Context, id string) (*UIState, error) {
	query := `
		SELECT resume_text, job_description, result, questions, is_loading, updated_at, expires_at
		FROM view_states
		WHERE id = $1
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var (
		state                   UIState
		resumeEnc, jobEnc       string
		resultJSON, questionsJS []byte
		expiresAt               time.Time
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&resumeEnc,
		&jobEnc,
		&resultJSON,
		&questionsJS,
		&state.IsLoading,
		&state.UpdatedAt,
		&expiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load view state: %w", translatePgError(err))
	}
	if !time.Now().Before(expiresAt) {
		return nil, ErrViewExpired
	}

	if state.ResumeText, err = s.cipher.Decrypt(resumeEnc); err != nil {
		return nil, fmt.Errorf("failed to decrypt resume text: %w", err)
	}
	if state.JobDescription, err = s.cipher.Decrypt(jobEnc); err != nil {
		return nil, fmt.Errorf("failed to decrypt job description: %w", err)
	}

	if len(resultJSON) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(resultJSON, &raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		if raw != nil {
			state.Result = NewAnalysisResult(raw)
		}
	}
	if len(questionsJS) > 0 {
		if err := json.Unmarshal(questionsJS, &state.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
	}

	return &state, nil
}

func (s *PostgresViewStateStore) Put(ctx context.Context, id string, state UIState) error {
	resumeEnc, err := s.cipher.Encrypt(state.ResumeText)
	if err != nil {
		return fmt.Errorf("failed to encrypt resume text: %w", err)
	}
	jobEnc, err := s.cipher.Encrypt(state.JobDescription)
	if err != nil {
		return fmt.Errorf("failed to encrypt job description: %w", err)
	}

	// Only the raw payload is stored; the canonical fields are re-derived on load.
	var resultJSON, questionsJSON []byte
	if state.Result != nil {
		if resultJSON, err = json.Marshal(state.Result.Raw); err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
	}
	if len(state.Questions) > 0 {
		if questionsJSON, err = json.Marshal(state.Questions); err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
	}

	query := `
		INSERT INTO view_states (id, resume_text, job_description, result, questions, is_loading, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET resume_text = EXCLUDED.resume_text,
		    job_description = EXCLUDED.job_description,
		    result = EXCLUDED.result,
		    questions = EXCLUDED.questions,
		    is_loading = EXCLUDED.is_loading,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err = s.pool.Exec(ctx, query,
		id,
		resumeEnc,
		jobEnc,
		nullableJSON(resultJSON),
		nullableJSON(questionsJSON),
		state.IsLoading,
		updatedAt,
		now.Add(s.ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to save view state: %w", translatePgError(err))
	}
	return nil
}

func (s *PostgresViewStateStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM view_states WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view state: %w", translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrViewNotFound
	}
	return nil
}

func (s *PostgresViewStateStore) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM view_states WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired view states: %w", translatePgError(err))
	}
	return tag.RowsAffected(), nil
}

// nullableJSON keeps empty payloads as SQL NULL instead of an empty jsonb value.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PostgresStorage keeps one conversation state row per operator in the
// user_states table. Selected instead of Redis via the storage.backend
// config knob.
type PostgresStorage struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStorage creates a Postgres-backed Storage implementation.
func NewPostgresStorage(db *sql.DB, log *slog.Logger) *PostgresStorage {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStorage{db: db, log: log}
}

const getStateQuery = `
SELECT flow, edit_field, step_index, draft, entity_id, last_prompt_id, selected_gift_id, pending_account_id, updated_at
FROM user_states WHERE user_id = $1`

// GetState returns the stored user state or ErrStateNotFound when absent.
func (s *PostgresStorage) GetState(ctx context.Context, userID int64) (*UserState, error) {
	var (
		userState      = UserState{UserID: userID}
		flow           string
		draft          []byte
		selectedGift   sql.NullInt64
		pendingAccount sql.NullInt64
	)

	row := s.db.QueryRowContext(ctx, getStateQuery, userID)
	err := row.Scan(
		&flow,
		&userState.EditField,
		&userState.StepIndex,
		&draft,
		&userState.EntityID,
		&userState.LastPromptID,
		&selectedGift,
		&pendingAccount,
		&userState.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}

		s.log.Error("failed to get state from postgres", "user_id", userID, "error", err)
		return nil, fmt.Errorf("get user state: %w", err)
	}

	userState.Flow = Flow(flow)
	userState.Draft = json.RawMessage(draft)
	if selectedGift.Valid {
		userState.SelectedGiftID = &selectedGift.Int64
	}
	if pendingAccount.Valid {
		userState.PendingAccountID = &pendingAccount.Int64
	}

	return &userState, nil
}

const setStateQuery = `
INSERT INTO user_states (user_id, flow, edit_field, step_index, draft, entity_id, last_prompt_id, selected_gift_id, pending_account_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id) DO UPDATE SET
	flow = EXCLUDED.flow,
	edit_field = EXCLUDED.edit_field,
	step_index = EXCLUDED.step_index,
	draft = EXCLUDED.draft,
	entity_id = EXCLUDED.entity_id,
	last_prompt_id = EXCLUDED.last_prompt_id,
	selected_gift_id = EXCLUDED.selected_gift_id,
	pending_account_id = EXCLUDED.pending_account_id,
	updated_at = EXCLUDED.updated_at`

// SetState upserts the row for the given user.
func (s *PostgresStorage) SetState(ctx context.Context, userID int64, userState *UserState) error {
	userState.UpdatedAt = time.Now().UTC()

	var selectedGift, pendingAccount sql.NullInt64
	if userState.SelectedGiftID != nil {
		selectedGift = sql.NullInt64{Int64: *userState.SelectedGiftID, Valid: true}
	}
	if userState.PendingAccountID != nil {
		pendingAccount = sql.NullInt64{Int64: *userState.PendingAccountID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, setStateQuery,
		userID,
		string(userState.Flow),
		userState.EditField,
		userState.StepIndex,
		[]byte(userState.Draft),
		userState.EntityID,
		userState.LastPromptID,
		selectedGift,
		pendingAccount,
		userState.UpdatedAt,
	)
	if err != nil {
		s.log.Error("failed to save state in postgres", "user_id", userID, "error", err)
		return fmt.Errorf("set user state: %w", err)
	}

	return nil
}

// ClearState removes the row for the given user. Clearing an absent row is
// not an error.
func (s *PostgresStorage) ClearState(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_states WHERE user_id = $1`, userID)
	if err != nil {
		s.log.Error("failed to clear user state", "user_id", userID, "error", err)
		return fmt.Errorf("clear user state: %w", err)
	}

	return nil
}

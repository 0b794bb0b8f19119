// Package state persists per-operator conversation state for the bot.
package state

import (
	"context"
	"errors"
)

// ErrStateNotFound indicates that a user state record does not exist.
var ErrStateNotFound = errors.New("user state not found")

// Storage defines the persistence contract for conversation state.
type Storage interface {
	// GetState returns the current state for the specified user, or
	// ErrStateNotFound when the user is idle.
	GetState(ctx context.Context, userID int64) (*UserState, error)
	// SetState saves the provided state for the specified user.
	SetState(ctx context.Context, userID int64, state *UserState) error
	// ClearState removes the state for the specified user.
	ClearState(ctx context.Context, userID int64) error
}

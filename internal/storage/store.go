// Package storage persists the application state as a single serialized
// document under one key. There is no incremental diffing: every save
// writes the full document.
package storage

import (
	"context"
	"errors"

	"pulabudget/internal/core"
)

// ErrNoState is returned by Load when nothing has been persisted yet.
var ErrNoState = errors.New("no persisted state")

// Store loads and saves the full application state.
type Store interface {
	Load(ctx context.Context) (*core.AppState, error)
	Save(ctx context.Context, state *core.AppState) error
	Close() error
}

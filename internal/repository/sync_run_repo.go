package repository

import (
	"context"

	"github.com/user/storefront-catalog/internal/entity"
)

// SyncRunRepository records the outcome of synchronization runs.
type SyncRunRepository interface {
	// Save stores a finished run and fills in its ID.
	Save(ctx context.Context, run *entity.SyncRun) error
	// Latest returns the most recent run, or ErrNotFound when none was recorded.
	Latest(ctx context.Context) (*entity.SyncRun, error)
}

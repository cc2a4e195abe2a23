package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
)

const createSyncRunsTable = `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id                BIGSERIAL PRIMARY KEY,
		started_at        TIMESTAMPTZ NOT NULL,
		finished_at       TIMESTAMPTZ NOT NULL,
		status            TEXT NOT NULL,
		page_counts       JSONB NOT NULL DEFAULT '{}',
		product_count     INTEGER NOT NULL DEFAULT 0,
		placeholder_count INTEGER NOT NULL DEFAULT 0,
		failure_reason    TEXT NOT NULL DEFAULT ''
	);
`

// SyncRunRepoImpl provides a concrete implementation for the SyncRunRepository interface using PostgreSQL.
type SyncRunRepoImpl struct {
	db *pgxpool.Pool
}

// NewSyncRunRepo creates a new instance of SyncRunRepoImpl.
func NewSyncRunRepo(db *pgxpool.Pool) *SyncRunRepoImpl {
	return &SyncRunRepoImpl{db: db}
}

var _ repository.SyncRunRepository = (*SyncRunRepoImpl)(nil)

// EnsureSchema creates the sync_runs table when missing.
func (r *SyncRunRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSyncRunsTable); err != nil {
		return fmt.Errorf("failed to create sync_runs table: %w", err)
	}
	return nil
}

// Save inserts a finished run and sets its ID.
func (r *SyncRunRepoImpl) Save(ctx context.Context, run *entity.SyncRun) error {
	pageCounts, err := json.Marshal(run.PageCounts)
	if err != nil {
		return fmt.Errorf("failed to encode page counts: %w", err)
	}

	query := `
		INSERT INTO sync_runs (started_at, finished_at, status, page_counts, product_count, placeholder_count, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	err = r.db.QueryRow(ctx, query,
		run.StartedAt,
		run.FinishedAt,
		run.Status,
		pageCounts,
		run.ProductCount,
		run.PlaceholderCount,
		run.FailureReason,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to save sync run: %w", err)
	}
	return nil
}

// Latest retrieves the most recently started run.
func (r *SyncRunRepoImpl) Latest(ctx context.Context) (*entity.SyncRun, error) {
	query := `
		SELECT id, started_at, finished_at, status, page_counts, product_count, placeholder_count, failure_reason
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1;
	`
	var (
		run        entity.SyncRun
		pageCounts []byte
	)
	err := r.db.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Status,
		&pageCounts,
		&run.ProductCount,
		&run.PlaceholderCount,
		&run.FailureReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest sync run: %w", err)
	}
	if err := json.Unmarshal(pageCounts, &run.PageCounts); err != nil {
		return nil, fmt.Errorf("failed to decode page counts: %w", err)
	}
	return &run, nil
}

package response

import (
	"time"

	"github.com/user/storefront-catalog/internal/entity"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// SyncRunResponse is a DTO for sync runs, mirroring entity.SyncRun
type SyncRunResponse struct {
	ID               int64          `json:"id"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	Status           string         `json:"status"` // "completed", "failed"
	PageCounts       map[string]int `json:"page_counts"`
	ProductCount     int            `json:"product_count"`
	PlaceholderCount int            `json:"placeholder_count"`
	FailureReason    string         `json:"failure_reason,omitempty"`
}

func NewSyncRunResponse(run *entity.SyncRun) SyncRunResponse {
	return SyncRunResponse{
		ID:               run.ID,
		StartedAt:        run.StartedAt,
		FinishedAt:       run.FinishedAt,
		Status:           run.Status,
		PageCounts:       run.PageCounts,
		ProductCount:     run.ProductCount,
		PlaceholderCount: run.PlaceholderCount,
		FailureReason:    run.FailureReason,
	}
}

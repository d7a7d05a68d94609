package dto

import "github.com/SscSPs/hr_admin_app/internal/core/domain"

// AdjustCountRequest applies a signed delta to a department's stored counter.
type AdjustCountRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ApplyMigrationRequest applies a previously computed plan. When both Items
// and UnmatchedIDs are empty the plan is recomputed server side.
type ApplyMigrationRequest struct {
	CreateMissing bool                   `json:"createMissing"`
	Items         []domain.MigrationItem `json:"items"`
	UnmatchedIDs  []string               `json:"unmatchedIDs"`
}

// Plan returns the plan carried by the request, or nil to recompute it.
func (r ApplyMigrationRequest) Plan() *domain.MigrationPlan {
	if len(r.Items) == 0 && len(r.UnmatchedIDs) == 0 {
		return nil
	}
	return &domain.MigrationPlan{
		Total:        len(r.Items) + len(r.UnmatchedIDs),
		Legacy:       len(r.Items) + len(r.UnmatchedIDs),
		Items:        r.Items,
		Unmatched:    len(r.UnmatchedIDs),
		UnmatchedIDs: r.UnmatchedIDs,
	}
}

// ApplyMigrationResponse reports the outcome of a migration run.
type ApplyMigrationResponse struct {
	Result             domain.BulkResult `json:"result"`
	CreatedDepartments []string          `json:"createdDepartments"`
}

// PartialBatchResponse is returned when some chunks of a batch operation
// committed before a later chunk failed.
type PartialBatchResponse struct {
	Error           string `json:"error"`
	Op              string `json:"op"`
	CommittedChunks int    `json:"committedChunks"`
	TotalChunks     int    `json:"totalChunks"`
	Applied         int    `json:"applied"`
}

package ports

import (
	"context"
	"dispatch-conflict-service/internal/domain"
)

// Optional store for whole-day conflict reports.
type ConflictCache interface {
	// Return the cached report for a date; ok is false on a miss.
	Get(ctx context.Context, date domain.Date) (conflicts []domain.Conflict, ok bool, err error)
	Put(ctx context.Context, date domain.Date, conflicts []domain.Conflict) error
	Invalidate(ctx context.Context, date domain.Date) error
}

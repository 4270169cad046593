package message

import (
	"context"

	"github.com/peregrinehq/inlet/core"
)

// Service provides read access over stored messages.
type Service interface {
	List(ctx context.Context, filter Filter) ([]core.Message, int64, error)
	Stats(ctx context.Context) (Stats, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new message service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// List returns one page of messages matching the filter and the total match
// count independent of pagination.
func (s *service) List(ctx context.Context, filter Filter) ([]core.Message, int64, error) {
	ctx, span := tracer.Start(ctx, "ServiceList")
	defer span.End()

	return s.repo.Query(ctx, filter)
}

// Stats returns the aggregate snapshot of the table.
func (s *service) Stats(ctx context.Context) (Stats, error) {
	ctx, span := tracer.Start(ctx, "ServiceStats")
	defer span.End()

	return s.repo.Stats(ctx)
}

// Count returns the number of stored messages.
func (s *service) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "ServiceCount")
	defer span.End()

	return s.repo.Count(ctx)
}

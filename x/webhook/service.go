package webhook

import (
	"context"

	"github.com/pkg/errors"

	"github.com/peregrinehq/inlet/core"
	"github.com/peregrinehq/inlet/x/message"
)

// Result tags the visible effect of an ingestion attempt. Created and
// Duplicate are both success from the caller's point of view; they differ
// only in metrics and log tagging.
type Result int

const (
	ResultCreated Result = iota
	ResultDuplicate
)

// Service ingests signed message events.
type Service interface {
	Ingest(ctx context.Context, msg core.Message) (Result, error)
}

type service struct {
	repo message.Repository
}

// NewService creates a new webhook service
func NewService(repo message.Repository) Service {
	return &service{repo: repo}
}

// Ingest stores the message at most once. A message_id that already exists
// is a no-op reported as ResultDuplicate, regardless of whether the other
// fields differ from the stored row.
func (s *service) Ingest(ctx context.Context, msg core.Message) (Result, error) {
	ctx, span := tracer.Start(ctx, "ServiceIngest")
	defer span.End()

	err := s.repo.Create(ctx, msg)
	if err != nil {
		var dup core.ErrorAlreadyExists
		if errors.As(err, &dup) {
			return ResultDuplicate, nil
		}
		span.RecordError(err)
		return 0, err
	}

	return ResultCreated, nil
}

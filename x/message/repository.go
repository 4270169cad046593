package message

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/peregrinehq/inlet/core"
)

// Repository is the message repository interface.
type Repository interface {
	Create(ctx context.Context, message core.Message) error
	Query(ctx context.Context, filter Filter) ([]core.Message, int64, error)
	Stats(ctx context.Context) (Stats, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new message repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a message. It returns core.ErrorAlreadyExists when a row
// with the same message_id is already present; the unique constraint on the
// primary key arbitrates concurrent duplicates, there is no separate
// existence check.
func (r *repository) Create(ctx context.Context, message core.Message) error {
	ctx, span := tracer.Start(ctx, "RepositoryCreate")
	defer span.End()

	err := r.db.WithContext(ctx).Create(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.NewErrorAlreadyExists()
		}
		span.RecordError(err)
		return errors.Wrap(err, "failed to insert message")
	}

	return nil
}

// Query returns one page of matching messages ordered by (ts, message_id)
// ascending, plus the total number of matching rows regardless of paging.
func (r *repository) Query(ctx context.Context, filter Filter) ([]core.Message, int64, error) {
	ctx, span := tracer.Start(ctx, "RepositoryQuery")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&core.Message{})
	if filter.From != "" {
		query = query.Where("from_msisdn = ?", filter.From)
	}
	if filter.Since != "" {
		query = query.Where("ts >= ?", filter.Since)
	}
	if filter.Search != "" {
		query = query.Where("text IS NOT NULL AND lower(text) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, errors.Wrap(err, "failed to count messages")
	}

	var messages []core.Message
	err := query.Session(&gorm.Session{}).
		Order("ts asc, message_id asc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&messages).Error
	if err != nil {
		span.RecordError(err)
		return nil, 0, errors.Wrap(err, "failed to query messages")
	}

	return messages, total, nil
}

// Stats computes the aggregate snapshot over the whole table.
func (r *repository) Stats(ctx context.Context) (Stats, error) {
	ctx, span := tracer.Start(ctx, "RepositoryStats")
	defer span.End()

	var stats Stats

	if err := r.db.WithContext(ctx).Model(&core.Message{}).Count(&stats.TotalMessages).Error; err != nil {
		span.RecordError(err)
		return Stats{}, errors.Wrap(err, "failed to count messages")
	}

	if err := r.db.WithContext(ctx).Model(&core.Message{}).Distinct("from_msisdn").Count(&stats.SendersCount).Error; err != nil {
		span.RecordError(err)
		return Stats{}, errors.Wrap(err, "failed to count senders")
	}

	// ties broken by sender ascending to keep the top list deterministic
	stats.MessagesPerSender = []SenderCount{}
	err := r.db.WithContext(ctx).Model(&core.Message{}).
		Select("from_msisdn, count(*) as count").
		Group("from_msisdn").
		Order("count desc, from_msisdn asc").
		Limit(10).
		Scan(&stats.MessagesPerSender).Error
	if err != nil {
		span.RecordError(err)
		return Stats{}, errors.Wrap(err, "failed to rank senders")
	}

	var first, last sql.NullString
	row := r.db.WithContext(ctx).Model(&core.Message{}).Select("min(ts), max(ts)").Row()
	if err := row.Scan(&first, &last); err != nil {
		span.RecordError(err)
		return Stats{}, errors.Wrap(err, "failed to scan ts bounds")
	}
	if first.Valid {
		stats.FirstMessageTs = &first.String
	}
	if last.Valid {
		stats.LastMessageTs = &last.String
	}

	return stats, nil
}

// Count returns the number of stored messages.
func (r *repository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "RepositoryCount")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&core.Message{}).Count(&count).Error
	return count, err
}

// Package outbox хранит исходящие события доставки в той же транзакции,
// что и изменение доставки. Отправкой в Kafka занимается relay.
package outbox

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"marketplace/internal/entities"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Publish(ctx context.Context, event entities.DeliveryEvent) error {
	query, args, err := qb.
		Insert("outbox").
		Columns("id", "event_type", "delivery_id", "status", "occurred_at").
		Values(event.ID, event.Type.String(), event.DeliveryID, event.Status.String(), event.OccurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected outbox repository publish error: %w", err)
	}

	_, err = r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected outbox repository publish error: %w", err)
	}
	return nil
}

// FetchPending блокирует до limit неотправленных событий в порядке появления.
// Строки, занятые другим relay, пропускаются.
func (r *Repository) FetchPending(ctx context.Context, limit int) ([]entities.DeliveryEvent, error) {
	query, args, err := qb.
		Select("id", "event_type", "delivery_id", "status", "occurred_at", "sent_at").
		From("outbox").
		Where(sq.Eq{"sent_at": nil}).
		OrderBy("occurred_at ASC", "id ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected outbox repository fetch error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected outbox repository fetch error: %w", err)
	}
	defer rows.Close()

	result := make([]entities.DeliveryEvent, 0, limit)
	for rows.Next() {
		var e EventDB
		err := rows.Scan(&e.ID, &e.EventType, &e.DeliveryID, &e.Status, &e.OccurredAt, &e.SentAt)
		if err != nil {
			return nil, fmt.Errorf("unexpected outbox repository scan error: %w", err)
		}
		result = append(result, ToDomain(&e))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected outbox repository rows error: %w", err)
	}

	return result, nil
}

func (r *Repository) MarkSent(ctx context.Context, ids []string, sentAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := qb.
		Update("outbox").
		Set("sent_at", sentAt).
		Where(sq.Eq{"id": ids, "sent_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository mark error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository mark error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := qb.
		Delete("outbox").
		Where(sq.Lt{"sent_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository cleanup error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository cleanup error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func ToDomain(e *EventDB) entities.DeliveryEvent {
	return entities.DeliveryEvent{
		ID:         e.ID,
		Type:       entities.DeliveryEventType(e.EventType),
		DeliveryID: e.DeliveryID,
		Status:     entities.DeliveryStatus(e.Status),
		OccurredAt: e.OccurredAt,
	}
}

package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"marketplace/internal/entities"
	"marketplace/internal/repository"
	"marketplace/internal/service/delivery"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var deliveryColumns = []string{
	"id", "seller_id", "seller_name", "driver_id", "driver_name", "driver_phone",
	"pickup_address", "dropoff_address", "pickup_location", "dropoff_location", "current_location",
	"item_name", "item_size", "item_weight_kg", "item_fragile",
	"payment_type", "distance_km", "fee", "status",
	"tracking_history", "proof", "feedback", "created_at", "updated_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, deliveryEntity entities.Delivery) (*entities.Delivery, error) {
	builder, err := insertBuilder([]entities.Delivery{deliveryEntity})
	if err != nil {
		return nil, err
	}

	query, args, err := builder.
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	deliveryDB, err := scanDelivery(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, delivery.ErrDeliveryAlreadyExists
		}
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	err = repository.Notify(ctx, r.querier, entities.ChannelDeliveryChanges, deliveryDB.ID)
	if err != nil {
		return nil, err
	}

	return ToDomain(deliveryDB), nil
}

func (r *Repository) CreateBatch(ctx context.Context, deliveries []entities.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	builder, err := insertBuilder(deliveries)
	if err != nil {
		return err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected delivery repository create batch error: %w", err)
	}

	_, err = r.querier.Exec(ctx, query, args...)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return delivery.ErrDeliveryAlreadyExists
		}
		return fmt.Errorf("unexpected delivery repository create batch error: %w", err)
	}

	for _, d := range deliveries {
		err = repository.Notify(ctx, r.querier, entities.ChannelDeliveryChanges, d.ID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, deliveryID string) (*entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"id": deliveryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository get error: %w", err)
	}

	deliveryDB, err := scanDelivery(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository get error: %w", err)
	}

	return ToDomain(deliveryDB), nil
}

// UpdateConditional обновляет строку только при совпадении статуса. Повторное
// прикрепление подтверждения или отзыва отсекается тем же UPDATE.
func (r *Repository) UpdateConditional(ctx context.Context, deliveryID string, expected entities.DeliveryStatus, modify entities.DeliveryModify) (*entities.Delivery, error) {
	builder := qb.
		Update("deliveries").
		Where(sq.Eq{"id": deliveryID, "status": expected.String()})

	if modify.Status != nil {
		builder = builder.Set("status", modify.Status.String())
	}
	if modify.Driver != nil {
		builder = builder.
			Set("driver_id", modify.Driver.ID).
			Set("driver_name", modify.Driver.Name).
			Set("driver_phone", modify.Driver.Phone)
	}
	if modify.CurrentLocation != nil {
		location, err := nullableJSON(coordinateFromDomain(modify.CurrentLocation))
		if err != nil {
			return nil, fmt.Errorf("encode current location: %w", err)
		}
		builder = builder.Set("current_location", location)
	}
	if modify.Proof != nil {
		proof, err := nullableJSON(proofFromDomain(modify.Proof))
		if err != nil {
			return nil, fmt.Errorf("encode proof: %w", err)
		}
		builder = builder.
			Set("proof", proof).
			Where(sq.Eq{"proof": nil})
	}
	if modify.Feedback != nil {
		feedback, err := nullableJSON(feedbackFromDomain(modify.Feedback))
		if err != nil {
			return nil, fmt.Errorf("encode feedback: %w", err)
		}
		builder = builder.
			Set("feedback", feedback).
			Where(sq.Eq{"feedback": nil})
	}
	if modify.Tracking != nil {
		entry, err := json.Marshal([]TrackingEntryDB{trackingFromDomain(*modify.Tracking)})
		if err != nil {
			return nil, fmt.Errorf("encode tracking entry: %w", err)
		}
		builder = builder.Set("tracking_history", sq.Expr("tracking_history || ?::jsonb", entry))
	}
	if !modify.UpdatedAt.IsZero() {
		builder = builder.Set("updated_at", modify.UpdatedAt)
	} else {
		builder = builder.Set("updated_at", sq.Expr("NOW()"))
	}

	query, args, err := builder.
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository update error: %w", err)
	}

	deliveryDB, err := scanDelivery(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.explainMiss(ctx, deliveryID, expected, modify)
		}
		return nil, fmt.Errorf("unexpected delivery repository update error: %w", err)
	}

	err = repository.Notify(ctx, r.querier, entities.ChannelDeliveryChanges, deliveryID)
	if err != nil {
		return nil, err
	}

	return ToDomain(deliveryDB), nil
}

// explainMiss определяет, почему условный UPDATE не затронул строку.
func (r *Repository) explainMiss(ctx context.Context, deliveryID string, expected entities.DeliveryStatus, modify entities.DeliveryModify) error {
	query := `
		SELECT status, proof IS NOT NULL, feedback IS NOT NULL
		FROM deliveries
		WHERE id = $1
	`

	var (
		status      string
		hasProof    bool
		hasFeedback bool
	)
	err := r.querier.QueryRow(ctx, query, deliveryID).Scan(&status, &hasProof, &hasFeedback)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delivery.ErrDeliveryNotFound
		}
		return fmt.Errorf("unexpected delivery repository update error: %w", err)
	}

	switch {
	case status != expected.String():
		return delivery.ErrStatusMismatch
	case modify.Proof != nil && hasProof:
		return delivery.ErrProofAlreadyAttached
	case modify.Feedback != nil && hasFeedback:
		return delivery.ErrFeedbackAlreadyGiven
	default:
		return delivery.ErrStatusMismatch
	}
}

func (r *Repository) GetByStatus(ctx context.Context, status entities.DeliveryStatus) ([]entities.Delivery, error) {
	return r.list(ctx, sq.Eq{"status": status.String()})
}

func (r *Repository) GetByParty(ctx context.Context, role entities.Role, userID string) ([]entities.Delivery, error) {
	switch role {
	case entities.RoleSeller:
		return r.list(ctx, sq.Eq{"seller_id": userID})
	case entities.RoleDriver:
		return r.list(ctx, sq.Eq{"driver_id": userID})
	default:
		return []entities.Delivery{}, nil
	}
}

func (r *Repository) list(ctx context.Context, where sq.Sqlizer) ([]entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(where).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list error: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Delivery, 0)
	for rows.Next() {
		deliveryDB, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected delivery repository scan error: %w", err)
		}
		result = append(result, *ToDomain(deliveryDB))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected delivery repository rows error: %w", err)
	}

	return result, nil
}

func insertBuilder(deliveries []entities.Delivery) (sq.InsertBuilder, error) {
	builder := qb.
		Insert("deliveries").
		Columns(deliveryColumns...)

	for i := range deliveries {
		d := FromDomain(&deliveries[i])

		values, err := insertValues(d)
		if err != nil {
			return builder, fmt.Errorf("encode delivery %s: %w", d.ID, err)
		}
		builder = builder.Values(values...)
	}

	return builder, nil
}

func insertValues(d *DeliveryDB) ([]interface{}, error) {
	pickup, err := nullableJSON(d.PickupLocation)
	if err != nil {
		return nil, err
	}
	dropoff, err := nullableJSON(d.DropoffLocation)
	if err != nil {
		return nil, err
	}
	current, err := nullableJSON(d.CurrentLocation)
	if err != nil {
		return nil, err
	}
	tracking, err := json.Marshal(d.TrackingHistory)
	if err != nil {
		return nil, err
	}
	proof, err := nullableJSON(d.Proof)
	if err != nil {
		return nil, err
	}
	feedback, err := nullableJSON(d.Feedback)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		d.ID, d.SellerID, d.SellerName, d.DriverID, d.DriverName, d.DriverPhone,
		d.PickupAddress, d.DropoffAddress, pickup, dropoff, current,
		d.ItemName, d.ItemSize, d.ItemWeightKg, d.ItemFragile,
		d.PaymentType, d.DistanceKm, d.Fee, d.Status,
		tracking, proof, feedback, d.CreatedAt, d.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*DeliveryDB, error) {
	var d DeliveryDB
	err := row.Scan(
		&d.ID,
		&d.SellerID,
		&d.SellerName,
		&d.DriverID,
		&d.DriverName,
		&d.DriverPhone,
		&d.PickupAddress,
		&d.DropoffAddress,
		&d.PickupLocation,
		&d.DropoffLocation,
		&d.CurrentLocation,
		&d.ItemName,
		&d.ItemSize,
		&d.ItemWeightKg,
		&d.ItemFragile,
		&d.PaymentType,
		&d.DistanceKm,
		&d.Fee,
		&d.Status,
		&d.TrackingHistory,
		&d.Proof,
		&d.Feedback,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func columnList() string {
	return strings.Join(deliveryColumns, ", ")
}

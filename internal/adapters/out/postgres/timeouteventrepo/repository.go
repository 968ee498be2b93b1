package timeouteventrepo

import (
	"context"
	"errors"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTimeoutEventRepository implements TimeoutEventRepository using GORM.
type GormTimeoutEventRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTimeoutEventRepository creates a new GORM timeout-event repository.
func NewGormTimeoutEventRepository(db *gorm.DB, tracker aggregateTracker) *GormTimeoutEventRepository {
	return &GormTimeoutEventRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new timeout event to the database.
func (r *GormTimeoutEventRepository) Add(ctx context.Context, aggregate *escalation.TimeoutEvent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing timeout event.
func (r *GormTimeoutEventRepository) Update(ctx context.Context, aggregate *escalation.TimeoutEvent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&TimeoutEventDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("timeout event", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a timeout event by ID.
func (r *GormTimeoutEventRepository) Get(ctx context.Context, id kernel.UUID) (*escalation.TimeoutEvent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TimeoutEventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("timeout event", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetUnresolvedByOrder retrieves the order's open timeout event.
func (r *GormTimeoutEventRepository) GetUnresolvedByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*escalation.TimeoutEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TimeoutEventDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND resolved = false", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("timeout event for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllResolvedBefore retrieves resolved, unarchived events whose resolution
// happened before the cutoff.
func (r *GormTimeoutEventRepository) GetAllResolvedBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*escalation.TimeoutEvent, error) {
	var dtos []TimeoutEventDTO
	err := r.db.WithContext(ctx).
		Where("resolved = true AND archived = false AND resolved_at < ?", cutoff).
		Order("resolved_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*escalation.TimeoutEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		events = append(events, event)
	}

	return events, nil
}

package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/timeutil"
)

type timeframeRepository interface {
	ListAll(ctx context.Context) ([]models.Timeframe, error)
	FindByID(ctx context.Context, id int64) (*models.Timeframe, error)
	ExistsByTimes(ctx context.Context, start, end string) (bool, error)
	Create(ctx context.Context, timeframe *models.Timeframe) error
	Delete(ctx context.Context, id int64) error
}

type timeframeUsageRepository interface {
	CountByTimeframe(ctx context.Context, timeframeID int64) (int, error)
}

// CreateTimeframeRequest represents payload for creating timeframes. Times
// may be given in 12-hour or 24-hour form.
type CreateTimeframeRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// TimeframeService orchestrates timeframe operations.
type TimeframeService struct {
	repo      timeframeRepository
	usage     timeframeUsageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeframeService constructs a TimeframeService.
func NewTimeframeService(repo timeframeRepository, usage timeframeUsageRepository, validate *validator.Validate, logger *zap.Logger) *TimeframeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeframeService{repo: repo, usage: usage, validator: validate, logger: logger}
}

// List returns all timeframes ordered by start time.
func (s *TimeframeService) List(ctx context.Context) ([]models.Timeframe, error) {
	timeframes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeframes")
	}
	return timeframes, nil
}

// Create normalizes both times to the canonical 24-hour form, enforces
// start < end and the (start, end) uniqueness invariant, and caches the
// 12-hour display label.
func (s *TimeframeService) Create(ctx context.Context, req CreateTimeframeRequest) (*models.Timeframe, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, requestError(err)
	}

	start, ok := timeutil.Normalize(req.StartTime)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "invalid time format (use HH:MM or HH:MM AM/PM)")
	}
	end, ok := timeutil.Normalize(req.EndTime)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "invalid time format (use HH:MM or HH:MM AM/PM)")
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "start time must be before end time")
	}

	exists, err := s.repo.ExistsByTimes(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timeframe uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "this timeframe already exists")
	}

	timeframe := &models.Timeframe{
		Label:     timeutil.Label(start, end),
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.Create(ctx, timeframe); err != nil {
		if appErrors.HasCode(err, appErrors.ErrDuplicateEntity) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timeframe")
	}
	return timeframe, nil
}

// Delete removes a timeframe unless a batch, active or not, references it.
func (s *TimeframeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timeframe not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeframe")
	}
	count, err := s.usage.CountByTimeframe(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timeframe usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete timeframe used in existing batches")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timeframe")
	}
	return nil
}

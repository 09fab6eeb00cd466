package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/timeutil"
)

type conflictTimeframeRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Timeframe, error)
}

type conflictBatchRepository interface {
	ListActiveSlots(ctx context.Context, teacherID int64, day string, excludeID int64) ([]models.BatchSlot, error)
}

// ConflictDetector decides whether a candidate teacher/day/timeframe
// assignment collides with any existing active batch. It holds no state of
// its own; every call reads the store fresh.
type ConflictDetector struct {
	timeframes conflictTimeframeRepository
	batches    conflictBatchRepository
	logger     *zap.Logger
}

// NewConflictDetector constructs a ConflictDetector.
func NewConflictDetector(timeframes conflictTimeframeRepository, batches conflictBatchRepository, logger *zap.Logger) *ConflictDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictDetector{timeframes: timeframes, batches: batches, logger: logger}
}

// Detect scans all active batches for a teacher double-booking. It returns
// the first conflict found, or (nil, nil) once the full teacher x day cross
// product has been checked clean. excludeBatchID (0 for none) removes a
// batch's own slots so an update never conflicts with its prior self.
//
// Iteration order is deterministic: teacher ids ascending, days in caller
// order, candidate batches by id ascending.
func (s *ConflictDetector) Detect(ctx context.Context, teacherIDs []int64, days []string, timeframeID int64, excludeBatchID int64) (*models.BatchConflict, error) {
	timeframe, err := s.timeframes.FindByID(ctx, timeframeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrTimeframeNotFound, "timeframe not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeframe")
	}

	newStart, okStart := timeutil.Parse(timeframe.StartTime)
	newEnd, okEnd := timeutil.Parse(timeframe.EndTime)
	if !okStart || !okEnd {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeframe, "stored timeframe is unparseable")
	}

	ordered := make([]int64, len(teacherIDs))
	copy(ordered, teacherIDs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	for _, teacherID := range ordered {
		for _, day := range days {
			slots, err := s.batches.ListActiveSlots(ctx, teacherID, day, excludeBatchID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan existing batches")
			}
			for _, slot := range slots {
				start, okS := timeutil.Parse(slot.StartTime)
				end, okE := timeutil.Parse(slot.EndTime)
				if !okS || !okE {
					s.logger.Warn("skipping batch with unparseable timeframe",
						zap.Int64("batch_id", slot.ID),
						zap.String("start", slot.StartTime),
						zap.String("end", slot.EndTime))
					continue
				}
				if timeutil.Overlaps(newStart, newEnd, start, end) {
					return &models.BatchConflict{
						TeacherID:          teacherID,
						Day:                day,
						ConflictingBatchID: slot.ID,
						TimeframeLabel:     slot.TimeframeLabel,
					}, nil
				}
			}
		}
	}

	return nil, nil
}

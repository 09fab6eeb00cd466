package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/dto"
	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/timeutil"
)

type dashboardTeacherRepository interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type dashboardTimeframeRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Timeframe, error)
}

type dashboardBatchRepository interface {
	ListActiveForSlot(ctx context.Context, day string, timeframeID int64) ([]models.BatchDetail, error)
}

// DashboardService builds the teacher availability board for a day and slot.
type DashboardService struct {
	teachers   dashboardTeacherRepository
	timeframes dashboardTimeframeRepository
	batches    dashboardBatchRepository
	cache      *CacheService
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(teachers dashboardTeacherRepository, timeframes dashboardTimeframeRepository, batches dashboardBatchRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{teachers: teachers, timeframes: timeframes, batches: batches, cache: cache, logger: logger}
}

// Availability reports each teacher's busy or free status for the given day
// and timeframe, with the occupying batches listed for busy teachers.
func (s *DashboardService) Availability(ctx context.Context, day string, timeframeID int64) (*dto.AvailabilityBoard, error) {
	if !timeutil.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("invalid day value %q", day))
	}

	cacheKey := fmt.Sprintf("dashboard:availability:%s:%d", day, timeframeID)
	if s.cache.Enabled() {
		var cached dto.AvailabilityBoard
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	timeframe, err := s.timeframes.FindByID(ctx, timeframeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timeframe not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeframe")
	}

	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	occupied, err := s.batches.ListActiveForSlot(ctx, day, timeframeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches for slot")
	}

	board := &dto.AvailabilityBoard{
		Day:            day,
		TimeframeLabel: timeframe.Label,
		StartTime:      timeutil.Format12Hour(timeframe.StartTime),
		EndTime:        timeutil.Format12Hour(timeframe.EndTime),
		Teachers:       make([]dto.TeacherAvailability, 0, len(teachers)),
	}
	for _, teacher := range teachers {
		entry := dto.TeacherAvailability{
			TeacherID:   teacher.ID,
			TeacherName: teacher.Name,
			Status:      "free",
			Batches:     []dto.TeacherOccupancy{},
		}
		for _, batch := range occupied {
			if !batch.HasTeacher(teacher.ID) {
				continue
			}
			entry.Status = "busy"
			entry.Batches = append(entry.Batches, dto.TeacherOccupancy{
				BatchID:     batch.ID,
				CourseName:  batch.CourseName,
				BatchNumber: batch.BatchNumber,
				RoomNumber:  batch.RoomNumber,
			})
		}
		board.Teachers = append(board.Teachers, entry)
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, board, 0); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return board, nil
}

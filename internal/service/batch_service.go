package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type batchRepository interface {
	ListDetails(ctx context.Context) ([]models.BatchDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Batch, error)
	FindDetailByID(ctx context.Context, id int64) (*models.BatchDetail, error)
	ExistsByCourseAndNumber(ctx context.Context, courseID int64, number string, excludeID int64) (bool, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id int64) error
}

type batchCourseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type batchRoomRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Room, error)
}

type batchTeacherRepository interface {
	CountByIDs(ctx context.Context, ids []int64) (int, error)
	NamesByID(ctx context.Context) (map[int64]string, error)
}

type conflictChecker interface {
	Detect(ctx context.Context, teacherIDs []int64, days []string, timeframeID int64, excludeBatchID int64) (*models.BatchConflict, error)
}

// CreateBatchRequest describes payload for creating a batch.
type CreateBatchRequest struct {
	CourseID    int64                `json:"course_id" validate:"required"`
	TimeframeID int64                `json:"timeframe_id" validate:"required"`
	RoomID      int64                `json:"room_id" validate:"required"`
	BatchNumber string               `json:"batch_number" validate:"required"`
	Days        []string             `json:"days" validate:"required,min=1"`
	TeacherIDs  models.TeacherIDList `json:"teacher_ids" validate:"required,min=1"`
	Active      *bool                `json:"active"`
}

// UpdateBatchRequest updates an existing batch. Nil fields keep their prior
// stored value, including the active flag.
type UpdateBatchRequest struct {
	CourseID    *int64                `json:"course_id"`
	TimeframeID *int64                `json:"timeframe_id"`
	RoomID      *int64                `json:"room_id"`
	BatchNumber *string               `json:"batch_number"`
	Days        *[]string             `json:"days"`
	TeacherIDs  *models.TeacherIDList `json:"teacher_ids"`
	Active      *bool                 `json:"active"`
}

// BatchService orchestrates the batch lifecycle: it combines validation, the
// conflict detector and the entity store so that no committed batch ever
// double-books a teacher.
type BatchService struct {
	batches   batchRepository
	courses   batchCourseRepository
	rooms     batchRoomRepository
	teachers  batchTeacherRepository
	detector  conflictChecker
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	// mu serializes the read-check-write sequence of every mutation so the
	// conflict check and the commit form one atomic unit.
	mu sync.Mutex
}

// BatchServiceParams groups constructor dependencies.
type BatchServiceParams struct {
	Batches   batchRepository
	Courses   batchCourseRepository
	Rooms     batchRoomRepository
	Teachers  batchTeacherRepository
	Detector  conflictChecker
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewBatchService constructs a BatchService.
func NewBatchService(params BatchServiceParams) *BatchService {
	v := params.Validator
	if v == nil {
		v = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		batches:   params.Batches,
		courses:   params.Courses,
		rooms:     params.Rooms,
		teachers:  params.Teachers,
		detector:  params.Detector,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: v,
		logger:    logger,
	}
}

// List returns every batch with resolved display fields.
func (s *BatchService) List(ctx context.Context) ([]models.BatchDetail, error) {
	batches, err := s.batches.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	names, err := s.teachers.NamesByID(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher names")
	}
	for i := range batches {
		batches[i].TeacherNames = resolveTeacherNames(batches[i].TeacherIDs, names)
	}
	return batches, nil
}

// Get returns one batch with resolved display fields.
func (s *BatchService) Get(ctx context.Context, id int64) (*models.BatchDetail, error) {
	return s.enrich(ctx, id)
}

// Create validates, conflict-checks and persists a new batch.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.BatchDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, requestError(err)
	}
	number := strings.TrimSpace(req.BatchNumber)
	if number == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "batch_number is required")
	}
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}
	teacherIDs := normalizeTeacherIDs(req.TeacherIDs)
	if len(teacherIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "teacher_ids is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A request that both collides and duplicates a batch number reports
	// the collision.
	if err := s.ensureNoConflict(ctx, teacherIDs, days, req.TimeframeID, 0); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, &req.CourseID, &req.RoomID, teacherIDs); err != nil {
		return nil, err
	}
	exists, err := s.batches.ExistsByCourseAndNumber(ctx, req.CourseID, number, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch number uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "batch with this number already exists for this course")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	batch := models.Batch{
		CourseID:    req.CourseID,
		TimeframeID: req.TimeframeID,
		RoomID:      req.RoomID,
		BatchNumber: number,
		Days:        pq.StringArray(days),
		TeacherIDs:  pq.Int64Array(teacherIDs),
		Active:      active,
	}
	if err := s.batches.Create(ctx, &batch); err != nil {
		if appErrors.HasCode(err, appErrors.ErrDuplicateEntity) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}

	s.invalidateDashboards(ctx)
	return s.enrich(ctx, batch.ID)
}

// Update merges the partial request over the stored batch, re-running
// conflict detection only when timeframe, teacher set or days changed. The
// batch's own slots are excluded so it never conflicts with its prior self.
func (s *BatchService) Update(ctx context.Context, id int64, req UpdateBatchRequest) (*models.BatchDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	merged := *current
	if req.CourseID != nil {
		merged.CourseID = *req.CourseID
	}
	if req.TimeframeID != nil {
		merged.TimeframeID = *req.TimeframeID
	}
	if req.RoomID != nil {
		merged.RoomID = *req.RoomID
	}
	if req.BatchNumber != nil {
		number := strings.TrimSpace(*req.BatchNumber)
		if number == "" {
			return nil, appErrors.Clone(appErrors.ErrMissingField, "batch_number is required")
		}
		merged.BatchNumber = number
	}
	if req.Days != nil {
		days, err := normalizeDays(*req.Days)
		if err != nil {
			return nil, err
		}
		if len(days) == 0 {
			return nil, appErrors.Clone(appErrors.ErrMissingField, "days is required")
		}
		merged.Days = pq.StringArray(days)
	}
	if req.TeacherIDs != nil {
		teacherIDs := normalizeTeacherIDs(*req.TeacherIDs)
		if len(teacherIDs) == 0 {
			return nil, appErrors.Clone(appErrors.ErrMissingField, "teacher_ids is required")
		}
		merged.TeacherIDs = pq.Int64Array(teacherIDs)
	}
	if req.Active != nil {
		merged.Active = *req.Active
	}

	var courseRef, roomRef *int64
	if req.CourseID != nil {
		courseRef = &merged.CourseID
	}
	if req.RoomID != nil {
		roomRef = &merged.RoomID
	}
	var teacherRefs []int64
	if req.TeacherIDs != nil {
		teacherRefs = merged.TeacherIDs
	}
	if err := s.checkReferences(ctx, courseRef, roomRef, teacherRefs); err != nil {
		return nil, err
	}

	if req.CourseID != nil || req.BatchNumber != nil {
		exists, err := s.batches.ExistsByCourseAndNumber(ctx, merged.CourseID, merged.BatchNumber, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch number uniqueness")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "batch with this number already exists for this course")
		}
	}

	if req.TimeframeID != nil || req.TeacherIDs != nil || req.Days != nil {
		if err := s.ensureNoConflict(ctx, merged.TeacherIDs, merged.Days, merged.TimeframeID, id); err != nil {
			return nil, err
		}
	}

	if err := s.batches.Update(ctx, &merged); err != nil {
		if appErrors.HasCode(err, appErrors.ErrDuplicateEntity) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}

	s.invalidateDashboards(ctx)
	return s.enrich(ctx, id)
}

// Delete removes a batch entry.
func (s *BatchService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.batches.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if err := s.batches.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *BatchService) ensureNoConflict(ctx context.Context, teacherIDs []int64, days []string, timeframeID, excludeID int64) error {
	conflict, err := s.detector.Detect(ctx, teacherIDs, days, timeframeID, excludeID)
	if err != nil {
		s.metrics.RecordConflictCheck("error")
		return err
	}
	if conflict != nil {
		s.metrics.RecordConflictCheck("conflict")
		domainErr := &models.BatchConflictError{
			Message: fmt.Sprintf("teacher %d is already booked on %s by batch %d (%s)",
				conflict.TeacherID, conflict.Day, conflict.ConflictingBatchID, conflict.TimeframeLabel),
			Conflict: *conflict,
		}
		return appErrors.Wrap(domainErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, domainErr.Message)
	}
	s.metrics.RecordConflictCheck("clear")
	return nil
}

func (s *BatchService) checkReferences(ctx context.Context, courseID, roomID *int64, teacherIDs []int64) error {
	if courseID != nil {
		if _, err := s.courses.FindByID(ctx, *courseID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrInvalidReference, fmt.Sprintf("course %d does not exist", *courseID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
		}
	}
	if roomID != nil {
		if _, err := s.rooms.FindByID(ctx, *roomID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrInvalidReference, fmt.Sprintf("room %d does not exist", *roomID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room")
		}
	}
	if len(teacherIDs) > 0 {
		count, err := s.teachers.CountByIDs(ctx, teacherIDs)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teachers")
		}
		if count != len(teacherIDs) {
			return appErrors.Clone(appErrors.ErrInvalidReference, "one or more teacher ids do not exist")
		}
	}
	return nil
}

func (s *BatchService) enrich(ctx context.Context, id int64) (*models.BatchDetail, error) {
	detail, err := s.batches.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	names, err := s.teachers.NamesByID(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher names")
	}
	detail.TeacherNames = resolveTeacherNames(detail.TeacherIDs, names)
	return detail, nil
}

func (s *BatchService) invalidateDashboards(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "dashboard:*")
	}
}

// resolveTeacherNames maps ids to display names, rendering a placeholder for
// ids whose teacher record has been deleted.
func resolveTeacherNames(ids []int64, names map[int64]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, fmt.Sprintf("Teacher %d", id))
		}
	}
	return out
}

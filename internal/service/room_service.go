package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type roomRepository interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id int64) (*models.Room, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
}

type roomUsageRepository interface {
	CountByRoom(ctx context.Context, roomID int64) (int, error)
}

// CreateRoomRequest represents payload for creating rooms.
type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" validate:"required"`
}

// RoomService orchestrates room operations.
type RoomService struct {
	repo      roomRepository
	usage     roomUsageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, usage roomUsageRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, usage: usage, validator: validate, logger: logger}
}

// List returns all rooms ordered by room number.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Create registers a new room.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, requestError(err)
	}
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "room_number is required")
	}

	exists, err := s.repo.ExistsByNumber(ctx, number)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEntity, "room with this number already exists")
	}

	room := &models.Room{RoomNumber: number}
	if err := s.repo.Create(ctx, room); err != nil {
		if appErrors.HasCode(err, appErrors.ErrDuplicateEntity) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// Delete removes a room unless a batch, active or not, references it.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	count, err := s.usage.CountByRoom(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete room used in existing batches")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

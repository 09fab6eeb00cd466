package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockConflictTimeframeRepo struct {
	timeframe *models.Timeframe
	err       error
}

func (m *mockConflictTimeframeRepo) FindByID(ctx context.Context, id int64) (*models.Timeframe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.timeframe, nil
}

type slotKey struct {
	teacherID int64
	day       string
}

type mockConflictBatchRepo struct {
	slots     map[slotKey][]models.BatchSlot
	excludeID int64
	calls     []slotKey
	err       error
}

func (m *mockConflictBatchRepo) ListActiveSlots(ctx context.Context, teacherID int64, day string, excludeID int64) ([]models.BatchSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.excludeID = excludeID
	key := slotKey{teacherID, day}
	m.calls = append(m.calls, key)
	out := []models.BatchSlot{}
	for _, slot := range m.slots[key] {
		if excludeID != 0 && slot.ID == excludeID {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func newDetector(timeframe *models.Timeframe, slots map[slotKey][]models.BatchSlot) (*ConflictDetector, *mockConflictBatchRepo) {
	batches := &mockConflictBatchRepo{slots: slots}
	return NewConflictDetector(&mockConflictTimeframeRepo{timeframe: timeframe}, batches, zap.NewNop()), batches
}

func TestDetectDoubleBooking(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, Label: "09:00 AM - 10:30 AM", StartTime: "09:00", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {{ID: 7, TimeframeLabel: "10:00 AM - 11:00 AM", StartTime: "10:00", EndTime: "11:00"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, int64(5), conflict.TeacherID)
	assert.Equal(t, "Monday", conflict.Day)
	assert.Equal(t, int64(7), conflict.ConflictingBatchID)
	assert.Equal(t, "10:00 AM - 11:00 AM", conflict.TimeframeLabel)
}

func TestDetectCleanWhenDifferentDay(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {{ID: 7, StartTime: "09:00", EndTime: "10:30"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Tuesday"}, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestDetectCleanWhenDifferentTeacher(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {{ID: 7, StartTime: "09:00", EndTime: "10:30"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{6}, []string{"Monday"}, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestDetectTouchingIntervalsDoNotConflict(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "10:30", EndTime: "12:00"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {{ID: 7, StartTime: "09:00", EndTime: "10:30"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestDetectScansTeachersAscending(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, batches := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{2, "Monday"}: {{ID: 3, StartTime: "09:00", EndTime: "10:00"}},
		{9, "Monday"}: {{ID: 4, StartTime: "09:00", EndTime: "10:00"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{9, 2}, []string{"Monday"}, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, int64(2), conflict.TeacherID)
	assert.Equal(t, slotKey{2, "Monday"}, batches.calls[0])
}

func TestDetectDaysInCallerOrder(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Wednesday"}: {{ID: 3, StartTime: "09:00", EndTime: "10:00"}},
		{5, "Monday"}:    {{ID: 4, StartTime: "09:00", EndTime: "10:00"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Wednesday", "Monday"}, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "Wednesday", conflict.Day)
	assert.Equal(t, int64(3), conflict.ConflictingBatchID)
}

func TestDetectExcludesOwnBatch(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, batches := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {{ID: 7, StartTime: "09:00", EndTime: "10:30"}},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, int64(7), batches.excludeID)
}

func TestDetectSkipsUnparseableCandidateSlots(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "09:00", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, map[slotKey][]models.BatchSlot{
		{5, "Monday"}: {
			{ID: 3, StartTime: "garbage", EndTime: "10:00"},
			{ID: 4, StartTime: "09:30", EndTime: "11:00"},
		},
	})

	conflict, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, int64(4), conflict.ConflictingBatchID)
}

func TestDetectTimeframeNotFound(t *testing.T) {
	detector := NewConflictDetector(&mockConflictTimeframeRepo{err: sql.ErrNoRows}, &mockConflictBatchRepo{}, zap.NewNop())

	_, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 99, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTimeframeNotFound.Code, appErrors.FromError(err).Code)
}

func TestDetectUnparseableStoredTimeframe(t *testing.T) {
	timeframe := &models.Timeframe{ID: 1, StartTime: "not-a-time", EndTime: "10:30"}
	detector, _ := newDetector(timeframe, nil)

	_, err := detector.Detect(context.Background(), []int64{5}, []string{"Monday"}, 1, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeframe.Code, appErrors.FromError(err).Code)
}

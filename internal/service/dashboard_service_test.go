package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockDashboardTeachers struct{ teachers []models.Teacher }

func (m *mockDashboardTeachers) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return m.teachers, nil
}

type mockDashboardTimeframes struct {
	timeframe *models.Timeframe
}

func (m *mockDashboardTimeframes) FindByID(ctx context.Context, id int64) (*models.Timeframe, error) {
	if m.timeframe == nil {
		return nil, sql.ErrNoRows
	}
	return m.timeframe, nil
}

type mockDashboardBatches struct{ occupied []models.BatchDetail }

func (m *mockDashboardBatches) ListActiveForSlot(ctx context.Context, day string, timeframeID int64) ([]models.BatchDetail, error) {
	return m.occupied, nil
}

func TestDashboardAvailability(t *testing.T) {
	teachers := &mockDashboardTeachers{teachers: []models.Teacher{
		{ID: 1, Name: "Ada"},
		{ID: 2, Name: "Grace"},
	}}
	timeframes := &mockDashboardTimeframes{timeframe: &models.Timeframe{
		ID: 3, Label: "09:00 AM - 10:30 AM", StartTime: "09:00", EndTime: "10:30",
	}}
	batches := &mockDashboardBatches{occupied: []models.BatchDetail{
		{
			Batch:       models.Batch{ID: 7, BatchNumber: "B-1", TeacherIDs: pq.Int64Array{1}},
			CourseName:  "Physics",
			RoomNumber:  "101",
		},
	}}
	svc := NewDashboardService(teachers, timeframes, batches, nil, nil)

	board, err := svc.Availability(context.Background(), "Monday", 3)
	require.NoError(t, err)
	assert.Equal(t, "Monday", board.Day)
	assert.Equal(t, "9:00 AM", board.StartTime)
	assert.Equal(t, "10:30 AM", board.EndTime)
	require.Len(t, board.Teachers, 2)

	busy := board.Teachers[0]
	assert.Equal(t, "busy", busy.Status)
	require.Len(t, busy.Batches, 1)
	assert.Equal(t, int64(7), busy.Batches[0].BatchID)
	assert.Equal(t, "Physics", busy.Batches[0].CourseName)
	assert.Equal(t, "101", busy.Batches[0].RoomNumber)

	free := board.Teachers[1]
	assert.Equal(t, "free", free.Status)
	assert.Empty(t, free.Batches)
}

func TestDashboardAvailabilityInvalidDay(t *testing.T) {
	svc := NewDashboardService(&mockDashboardTeachers{}, &mockDashboardTimeframes{}, &mockDashboardBatches{}, nil, nil)

	_, err := svc.Availability(context.Background(), "Caturday", 3)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestDashboardAvailabilityUnknownTimeframe(t *testing.T) {
	svc := NewDashboardService(&mockDashboardTeachers{}, &mockDashboardTimeframes{}, &mockDashboardBatches{}, nil, nil)

	_, err := svc.Availability(context.Background(), "Monday", 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

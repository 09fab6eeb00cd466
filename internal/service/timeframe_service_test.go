package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockTimeframeRepo struct {
	timeframes map[int64]*models.Timeframe
	duplicate  bool
	created    *models.Timeframe
	deleted    []int64
}

func (m *mockTimeframeRepo) ListAll(ctx context.Context) ([]models.Timeframe, error) {
	out := []models.Timeframe{}
	for _, tf := range m.timeframes {
		out = append(out, *tf)
	}
	return out, nil
}

func (m *mockTimeframeRepo) FindByID(ctx context.Context, id int64) (*models.Timeframe, error) {
	tf, ok := m.timeframes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return tf, nil
}

func (m *mockTimeframeRepo) ExistsByTimes(ctx context.Context, start, end string) (bool, error) {
	return m.duplicate, nil
}

func (m *mockTimeframeRepo) Create(ctx context.Context, timeframe *models.Timeframe) error {
	timeframe.ID = 1
	m.created = timeframe
	return nil
}

func (m *mockTimeframeRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTimeframeUsage struct{ count int }

func (m *mockTimeframeUsage) CountByTimeframe(ctx context.Context, timeframeID int64) (int, error) {
	return m.count, nil
}

func TestTimeframeCreateNormalizesTimes(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	tf, err := svc.Create(context.Background(), CreateTimeframeRequest{StartTime: "09:00 AM", EndTime: "14:30"})
	require.NoError(t, err)
	assert.Equal(t, "09:00", tf.StartTime)
	assert.Equal(t, "14:30", tf.EndTime)
	assert.Equal(t, "9:00 AM - 2:30 PM", tf.Label)
}

func TestTimeframeCreateRejectsGarbage(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateTimeframeRequest{StartTime: "25:00", EndTime: "26:00"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestTimeframeCreateRejectsInvertedOrder(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateTimeframeRequest{StartTime: "10:00", EndTime: "10:00"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErr.Code)
	assert.Equal(t, "start time must be before end time", appErr.Message)
}

func TestTimeframeCreateDetectsDuplicateAcrossFormats(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{}, duplicate: true}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	// "09:00 AM" collides with a stored "09:00" because both normalize
	// to the same canonical times.
	_, err := svc.Create(context.Background(), CreateTimeframeRequest{StartTime: "09:00 AM", EndTime: "10:30 AM"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntity.Code, appErrors.FromError(err).Code)
}

func TestTimeframeDeleteBlockedWhenInUse(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{1: {ID: 1}}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{count: 2}, nil, nil)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEntityInUse.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestTimeframeDeleteUnused(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{1: {ID: 1}}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestTimeframeDeleteNotFound(t *testing.T) {
	repo := &mockTimeframeRepo{timeframes: map[int64]*models.Timeframe{}}
	svc := NewTimeframeService(repo, &mockTimeframeUsage{}, nil, nil)

	err := svc.Delete(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

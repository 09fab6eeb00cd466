package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockCourseRepo struct {
	courses   []models.Course
	duplicate bool
	created   *models.Course
	deleted   []int64
}

func (m *mockCourseRepo) ListAll(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

func (m *mockCourseRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return m.duplicate, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = 1
	m.created = course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestCourseCreateDefaultsActive(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Create(context.Background(), CreateCourseRequest{Name: "Physics"})
	require.NoError(t, err)
	assert.True(t, course.Active)
	assert.Empty(t, course.Description)
}

func TestCourseCreateDuplicateName(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{duplicate: true}, nil, nil)

	_, err := svc.Create(context.Background(), CreateCourseRequest{Name: "Physics"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntity.Code, appErrors.FromError(err).Code)
}

func TestCourseCreateMissingName(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateCourseRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingField.Code, appErrors.FromError(err).Code)
}

func TestCourseDeleteIsUnconditional(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.Equal(t, []int64{3}, repo.deleted)
}

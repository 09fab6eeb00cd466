package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers  []models.Teacher
	duplicate bool
	created   *models.Teacher
	deleted   []int64
}

func (m *mockTeacherRepo) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return m.teachers, nil
}

func (m *mockTeacherRepo) ExistsByNameAndPhone(ctx context.Context, name, phone string) (bool, error) {
	return m.duplicate, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = 1
	m.created = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestTeacherCreateTrimsAndStores(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, nil, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "  Ada Lovelace ", Phone: " 555-0100 "})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", teacher.Name)
	assert.Equal(t, "555-0100", teacher.Phone)
}

func TestTeacherCreateMissingName(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "   ", Phone: "555-0100"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingField.Code, appErrors.FromError(err).Code)
}

func TestTeacherCreateDuplicate(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{duplicate: true}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "Ada", Phone: "555-0100"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntity.Code, appErrors.FromError(err).Code)
}

func TestTeacherDeleteIsUnconditional(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, []int64{7}, repo.deleted)
}

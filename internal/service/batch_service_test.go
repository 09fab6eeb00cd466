package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type mockBatchRepo struct {
	batches   map[int64]*models.Batch
	details   map[int64]*models.BatchDetail
	duplicate bool
	nextID    int64
	created   *models.Batch
	updated   *models.Batch
	deleted   []int64
}

func newMockBatchRepo() *mockBatchRepo {
	return &mockBatchRepo{
		batches: map[int64]*models.Batch{},
		details: map[int64]*models.BatchDetail{},
		nextID:  100,
	}
}

func (m *mockBatchRepo) ListDetails(ctx context.Context) ([]models.BatchDetail, error) {
	out := []models.BatchDetail{}
	for _, d := range m.details {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockBatchRepo) FindByID(ctx context.Context, id int64) (*models.Batch, error) {
	batch, ok := m.batches[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *batch
	return &copied, nil
}

func (m *mockBatchRepo) FindDetailByID(ctx context.Context, id int64) (*models.BatchDetail, error) {
	if detail, ok := m.details[id]; ok {
		copied := *detail
		return &copied, nil
	}
	batch, ok := m.batches[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.BatchDetail{Batch: *batch}, nil
}

func (m *mockBatchRepo) ExistsByCourseAndNumber(ctx context.Context, courseID int64, number string, excludeID int64) (bool, error) {
	return m.duplicate, nil
}

func (m *mockBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	m.nextID++
	batch.ID = m.nextID
	stored := *batch
	m.batches[batch.ID] = &stored
	m.created = &stored
	return nil
}

func (m *mockBatchRepo) Update(ctx context.Context, batch *models.Batch) error {
	stored := *batch
	m.batches[batch.ID] = &stored
	m.updated = &stored
	return nil
}

func (m *mockBatchRepo) Delete(ctx context.Context, id int64) error {
	delete(m.batches, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCourseRef struct{ missing bool }

func (m *mockCourseRef) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if m.missing {
		return nil, sql.ErrNoRows
	}
	return &models.Course{ID: id, Name: "Physics"}, nil
}

type mockRoomRef struct{ missing bool }

func (m *mockRoomRef) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	if m.missing {
		return nil, sql.ErrNoRows
	}
	return &models.Room{ID: id, RoomNumber: "101"}, nil
}

type mockTeacherRef struct {
	known map[int64]string
}

func (m *mockTeacherRef) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := m.known[id]; ok {
			count++
		}
	}
	return count, nil
}

func (m *mockTeacherRef) NamesByID(ctx context.Context) (map[int64]string, error) {
	return m.known, nil
}

type mockDetector struct {
	conflict *models.BatchConflict
	err      error
	called   bool
	lastIDs  []int64
	lastDays []string
	lastTF   int64
	lastExcl int64
}

func (m *mockDetector) Detect(ctx context.Context, teacherIDs []int64, days []string, timeframeID int64, excludeBatchID int64) (*models.BatchConflict, error) {
	m.called = true
	m.lastIDs = teacherIDs
	m.lastDays = days
	m.lastTF = timeframeID
	m.lastExcl = excludeBatchID
	return m.conflict, m.err
}

type batchFixture struct {
	repo     *mockBatchRepo
	detector *mockDetector
	teachers *mockTeacherRef
	svc      *BatchService
}

func newBatchFixture() *batchFixture {
	repo := newMockBatchRepo()
	detector := &mockDetector{}
	teachers := &mockTeacherRef{known: map[int64]string{1: "Ada", 2: "Grace"}}
	svc := NewBatchService(BatchServiceParams{
		Batches:  repo,
		Courses:  &mockCourseRef{},
		Rooms:    &mockRoomRef{},
		Teachers: teachers,
		Detector: detector,
	})
	return &batchFixture{repo: repo, detector: detector, teachers: teachers, svc: svc}
}

func validCreateRequest() CreateBatchRequest {
	return CreateBatchRequest{
		CourseID:    10,
		TimeframeID: 20,
		RoomID:      30,
		BatchNumber: "B-1",
		Days:        []string{"Monday", "Wednesday"},
		TeacherIDs:  models.TeacherIDList{1, 2},
	}
}

func TestBatchCreateSuccess(t *testing.T) {
	f := newBatchFixture()

	detail, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.True(t, f.detector.called)
	assert.True(t, f.repo.created.Active)
	assert.Equal(t, pq.StringArray{"Monday", "Wednesday"}, f.repo.created.Days)
	assert.Equal(t, pq.Int64Array{1, 2}, f.repo.created.TeacherIDs)
	assert.Equal(t, []string{"Ada", "Grace"}, detail.TeacherNames)
}

func TestBatchCreateConflictRejected(t *testing.T) {
	f := newBatchFixture()
	f.detector.conflict = &models.BatchConflict{TeacherID: 1, Day: "Monday", ConflictingBatchID: 7, TimeframeLabel: "09:00 AM - 10:30 AM"}

	_, err := f.svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
	assert.Nil(t, f.repo.created)

	var conflictErr *models.BatchConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(7), conflictErr.Conflict.ConflictingBatchID)
}

func TestBatchCreateMissingFields(t *testing.T) {
	f := newBatchFixture()
	req := validCreateRequest()
	req.BatchNumber = ""

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingField.Code, appErrors.FromError(err).Code)
	assert.False(t, f.detector.called)
}

func TestBatchCreateInvalidDay(t *testing.T) {
	f := newBatchFixture()
	req := validCreateRequest()
	req.Days = []string{"Funday"}

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestBatchCreateUnknownTeacher(t *testing.T) {
	f := newBatchFixture()
	req := validCreateRequest()
	req.TeacherIDs = models.TeacherIDList{1, 99}

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidReference.Code, appErrors.FromError(err).Code)
	assert.True(t, f.detector.called)
	assert.Nil(t, f.repo.created)
}

func TestBatchCreateDuplicateNumber(t *testing.T) {
	f := newBatchFixture()
	f.repo.duplicate = true

	_, err := f.svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntity.Code, appErrors.FromError(err).Code)
}

func TestBatchCreateConflictReportedBeforeDuplicate(t *testing.T) {
	f := newBatchFixture()
	f.repo.duplicate = true
	f.detector.conflict = &models.BatchConflict{TeacherID: 1, Day: "Monday", ConflictingBatchID: 7, TimeframeLabel: "9:00 AM - 10:30 AM"}

	_, err := f.svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, f.repo.created)
}

func TestBatchCreateDedupesDaysAndTeachers(t *testing.T) {
	f := newBatchFixture()
	req := validCreateRequest()
	req.Days = []string{"Monday", "Monday", "Wednesday"}
	req.TeacherIDs = models.TeacherIDList{2, 2, 1}

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Wednesday"}, f.detector.lastDays)
	assert.Equal(t, []int64{2, 1}, f.detector.lastIDs)
}

func TestBatchCreateCoercesStringTeacherIDs(t *testing.T) {
	f := newBatchFixture()
	var req CreateBatchRequest
	payload := `{"course_id":10,"timeframe_id":20,"room_id":30,"batch_number":"B-1","days":["Monday"],"teacher_ids":"1, 2"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	detail, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{1, 2}, f.repo.created.TeacherIDs)
	assert.NotNil(t, detail)
}

func TestBatchUpdateMergesPartialFields(t *testing.T) {
	f := newBatchFixture()
	f.repo.batches[5] = &models.Batch{
		ID: 5, CourseID: 10, TimeframeID: 20, RoomID: 30, BatchNumber: "B-1",
		Days: pq.StringArray{"Monday"}, TeacherIDs: pq.Int64Array{1}, Active: true,
	}
	newRoom := int64(31)

	_, err := f.svc.Update(context.Background(), 5, UpdateBatchRequest{RoomID: &newRoom})
	require.NoError(t, err)
	assert.Equal(t, int64(31), f.repo.updated.RoomID)
	assert.Equal(t, "B-1", f.repo.updated.BatchNumber)
	assert.True(t, f.repo.updated.Active)
	// room change alone does not trigger a conflict scan
	assert.False(t, f.detector.called)
}

func TestBatchUpdateRechecksConflictsOnScheduleChange(t *testing.T) {
	f := newBatchFixture()
	f.repo.batches[5] = &models.Batch{
		ID: 5, CourseID: 10, TimeframeID: 20, RoomID: 30, BatchNumber: "B-1",
		Days: pq.StringArray{"Monday"}, TeacherIDs: pq.Int64Array{1}, Active: true,
	}
	newTF := int64(21)

	_, err := f.svc.Update(context.Background(), 5, UpdateBatchRequest{TimeframeID: &newTF})
	require.NoError(t, err)
	assert.True(t, f.detector.called)
	assert.Equal(t, int64(21), f.detector.lastTF)
	assert.Equal(t, int64(5), f.detector.lastExcl)
	assert.Equal(t, []int64{1}, f.detector.lastIDs)
	assert.Equal(t, []string{"Monday"}, f.detector.lastDays)
}

func TestBatchUpdateConflictKeepsStoredBatch(t *testing.T) {
	f := newBatchFixture()
	f.repo.batches[5] = &models.Batch{
		ID: 5, CourseID: 10, TimeframeID: 20, RoomID: 30, BatchNumber: "B-1",
		Days: pq.StringArray{"Monday"}, TeacherIDs: pq.Int64Array{1}, Active: true,
	}
	f.detector.conflict = &models.BatchConflict{TeacherID: 1, Day: "Tuesday", ConflictingBatchID: 9}
	days := []string{"Tuesday"}

	_, err := f.svc.Update(context.Background(), 5, UpdateBatchRequest{Days: &days})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, f.repo.updated)
	assert.Equal(t, pq.StringArray{"Monday"}, f.repo.batches[5].Days)
}

func TestBatchUpdateNotFound(t *testing.T) {
	f := newBatchFixture()

	_, err := f.svc.Update(context.Background(), 404, UpdateBatchRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBatchDelete(t *testing.T) {
	f := newBatchFixture()
	f.repo.batches[5] = &models.Batch{ID: 5}

	require.NoError(t, f.svc.Delete(context.Background(), 5))
	assert.Equal(t, []int64{5}, f.repo.deleted)

	err := f.svc.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBatchListResolvesPlaceholderNames(t *testing.T) {
	f := newBatchFixture()
	f.repo.details[1] = &models.BatchDetail{
		Batch:      models.Batch{ID: 1, TeacherIDs: pq.Int64Array{1, 42}},
		CourseName: "Physics",
	}

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Ada", "Teacher 42"}, list[0].TeacherNames)
}

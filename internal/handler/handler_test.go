package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
)

type errorEnvelope struct {
	Error *appErrors.Error `json:"error"`
}

func testContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, rec
}

func TestPathIDRejectsNonNumeric(t *testing.T) {
	c, rec := testContext(t, http.MethodDelete, "/teachers/abc")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := pathID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, envelope.Error.Code)
}

func TestPathIDParsesValidID(t *testing.T) {
	c, rec := testContext(t, http.MethodGet, "/batches/42")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := pathID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardAvailabilityRequiresParams(t *testing.T) {
	handler := NewDashboardHandler(nil)

	c, rec := testContext(t, http.MethodGet, "/dashboard/availability")
	handler.Availability(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = testContext(t, http.MethodGet, "/dashboard/availability?day=Monday&timeframe_id=zero")
	handler.Availability(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrInvalidInput.Code, envelope.Error.Code)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

type retentionServiceMock struct {
	summary   dto.RetentionSummary
	extendErr error
	extended  []string
}

func (m *retentionServiceMock) Run(ctx context.Context) dto.RetentionSummary {
	return m.summary
}

func (m *retentionServiceMock) Extend(ctx context.Context, accountID string) error {
	if m.extendErr != nil {
		return m.extendErr
	}
	m.extended = append(m.extended, accountID)
	return nil
}

func TestRetentionRunBatchReportsCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRetentionHandler(&retentionServiceMock{summary: dto.RetentionSummary{Warned: 3, Deleted: 1}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/tasks/retention", nil)
	c.Request = req

	handler.RunBatch(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"warned":3`)
	assert.Contains(t, w.Body.String(), `"deleted":1`)
}

func TestRetentionExtendHappyPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &retentionServiceMock{}
	handler := NewRetentionHandler(mock)

	accountID := uuid.NewString()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/extend?user_id="+accountID, nil)
	c.Request = req

	handler.Extend(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{accountID}, mock.extended)
}

func TestRetentionExtendMissingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRetentionHandler(&retentionServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/extend", nil)
	c.Request = req

	handler.Extend(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetentionExtendInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRetentionHandler(&retentionServiceMock{extendErr: appErrors.Clone(appErrors.ErrValidation, "malformed account id")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/extend?user_id=abc", nil)
	c.Request = req

	handler.Extend(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

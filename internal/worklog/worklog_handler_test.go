package worklog_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/shared/apperror"
	"pharmacy-hr/internal/worklog"
	worklogerrors "pharmacy-hr/internal/worklog/errors"
	worklogMock "pharmacy-hr/internal/worklog/mock"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// json field names must be registered before the first bind.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

func newTestContext(method, target string, body []byte, actor domain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if actor.ID != uuid.Nil {
		c.Set("user_id", actor.ID.String())
		c.Set("role", string(actor.Role))
	}
	return c, w
}

func TestWorkLogHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := worklogMock.NewMockService(ctrl)
	h := worklog.NewHandler(svc)
	owner := staff()

	t.Run("success", func(t *testing.T) {
		body := []byte(`{"work_date":"2026-03-02","start_time":"09:00","end_time":"18:00","break_minutes":60}`)
		svc.EXPECT().
			Create(gomock.Any(), owner, gomock.Any()).
			DoAndReturn(func(_ any, _ domain.Actor, req worklog.CreateWorkLogRequest) (worklog.WorkLogResponse, error) {
				assert.Equal(t, "2026-03-02", req.WorkDate)
				assert.Equal(t, 60, *req.BreakMinutes)
				return worklog.WorkLogResponse{ID: uuid.NewString(), Status: "draft"}, nil
			})

		c, w := newTestContext(http.MethodPost, "/work-logs", body, owner)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("missing start time is a validation error", func(t *testing.T) {
		body := []byte(`{"work_date":"2026-03-02","end_time":"18:00"}`)

		c, w := newTestContext(http.MethodPost, "/work-logs", body, owner)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Equal(t, "Start Time is required", env.Error.Message)
	})

	t.Run("service validation error", func(t *testing.T) {
		body := []byte(`{"work_date":"2026-03-02","start_time":"9am","end_time":"18:00"}`)
		svc.EXPECT().
			Create(gomock.Any(), owner, gomock.Any()).
			Return(worklog.WorkLogResponse{}, worklogerrors.ErrInvalidStartTime)

		c, w := newTestContext(http.MethodPost, "/work-logs", body, owner)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, worklogerrors.ErrInvalidStartTime.Code, env.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/work-logs", []byte(`{}`), domain.Actor{})
		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWorkLogHandler_CreateStoresIdempotentResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := worklogMock.NewMockService(ctrl)
	rdb, redisMock := redismock.NewClientMock()
	h := worklog.NewHandlerWithRedis(svc, rdb)
	owner := staff()

	resp := worklog.WorkLogResponse{ID: uuid.NewString(), Status: "draft"}
	payload, _ := json.Marshal(resp)

	svc.EXPECT().Create(gomock.Any(), owner, gomock.Any()).Return(resp, nil)
	redisMock.ExpectSet("idemp:/work-logs:abc", payload, 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel("idemp:/work-logs:abc:lock").SetVal(1)

	body := []byte(`{"work_date":"2026-03-02","start_time":"09:00","end_time":"18:00"}`)
	c, w := newTestContext(http.MethodPost, "/work-logs", body, owner)
	c.Set("idempotency_cache_key", "idemp:/work-logs:abc")
	c.Set("idempotency_lock_key", "idemp:/work-logs:abc:lock")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestWorkLogHandler_ListMine_Paginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := worklogMock.NewMockService(ctrl)
	h := worklog.NewHandler(svc)
	owner := staff()

	items := make([]worklog.WorkLogResponse, 25)
	for i := range items {
		items[i] = worklog.WorkLogResponse{ID: uuid.NewString(), Status: "draft"}
	}
	svc.EXPECT().ListMine(gomock.Any(), owner, "draft").Return(items, nil)

	c, w := newTestContext(http.MethodGet, "/work-logs?status=draft&page=2&page_size=10", nil, owner)
	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var data []worklog.WorkLogResponse
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data, 10)
	assert.Equal(t, items[10].ID, data[0].ID)
	assert.Equal(t, int64(25), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Page)
}

func TestWorkLogHandler_Transitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := worklogMock.NewMockService(ctrl)
	h := worklog.NewHandler(svc)
	reviewer := manager()
	id := uuid.NewString()

	t.Run("submit invalid state", func(t *testing.T) {
		owner := staff()
		svc.EXPECT().Submit(gomock.Any(), owner, id).Return(worklog.WorkLogResponse{}, worklogerrors.ErrNotEditable)

		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/submit", nil, owner)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("approve forbidden for staff", func(t *testing.T) {
		owner := staff()
		svc.EXPECT().Approve(gomock.Any(), owner, id).Return(worklog.WorkLogResponse{}, worklogerrors.ErrReviewerRequired)

		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/approve", nil, owner)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("reject with reason", func(t *testing.T) {
		reason := "missing break"
		svc.EXPECT().
			Reject(gomock.Any(), reviewer, id, reason).
			Return(worklog.WorkLogResponse{ID: id, Status: "rejected", RejectReason: &reason}, nil)

		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/reject", []byte(`{"reject_reason":"missing break"}`), reviewer)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject without body", func(t *testing.T) {
		svc.EXPECT().
			Reject(gomock.Any(), reviewer, id, "").
			Return(worklog.WorkLogResponse{ID: id, Status: "rejected"}, nil)

		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/reject", nil, reviewer)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject with chunked body keeps reason", func(t *testing.T) {
		reason := "wrong date"
		svc.EXPECT().
			Reject(gomock.Any(), reviewer, id, reason).
			Return(worklog.WorkLogResponse{ID: id, Status: "rejected", RejectReason: &reason}, nil)

		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/reject", []byte(`{"reject_reason":"wrong date"}`), reviewer)
		c.Request.ContentLength = -1
		c.Request.TransferEncoding = []string{"chunked"}
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject with malformed body", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/work-logs/"+id+"/reject", []byte(`{"reject_reason":`), reviewer)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete not found", func(t *testing.T) {
		owner := staff()
		svc.EXPECT().Delete(gomock.Any(), owner, id).Return(worklogerrors.ErrWorkLogNotFound)

		c, w := newTestContext(http.MethodDelete, "/work-logs/"+id, nil, owner)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Delete(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package rbac_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rbac.NewHandler(newService(t, &fakeRepo{}))

	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	body, _ := json.Marshal(domain.EnforceRequest{Role: "manager", Resource: "work_log", Action: "review"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ok   bool                   `json:"ok"`
		Data domain.EnforceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.True(t, resp.Data.Allowed)
}

func TestHandler_Enforce_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rbac.NewHandler(newService(t, &fakeRepo{}))
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"role":"staff"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListPermissions_OwnRoleOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rbac.NewHandler(newService(t, &fakeRepo{}))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rbac/permissions?role=admin", nil)
	c.Set("role", "staff")

	handler.ListPermissions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []domain.PermissionResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, p := range resp.Data {
		assert.NotEqual(t, "invite", p.Action)
	}
}

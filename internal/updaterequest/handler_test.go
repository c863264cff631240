package updaterequest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeAuth(c *gin.Context) {
	id, err := uuid.Parse(c.GetHeader("X-Test-User"))
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	c.Set(common.UserIDKey, id)
	c.Set(common.UserRoleKey, c.GetHeader("X-Test-Role"))
	c.Next()
}

func adminOnly(c *gin.Context) {
	if !common.IsAdmin(c) {
		common.RespondWithError(c, common.ErrForbidden)
		return
	}
	c.Next()
}

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f.svc, &config.Config{UploadMaxMemoryMB: 8}, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"), fakeAuth, adminOnly)
	return r
}

func serve(t *testing.T, r *gin.Engine, req *http.Request, user uuid.UUID, role string) (int, map[string]interface{}) {
	t.Helper()
	req.Header.Set("X-Test-User", user.String())
	req.Header.Set("X-Test-Role", role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestHandler_SubmitAndReview(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	p := f.seedProvider(t)
	admin := uuid.New()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("bio", "Licensed since 2015."))
	require.NoError(t, w.WriteField("categories", "Plumbing"))
	require.NoError(t, w.WriteField("categories", "Drain Unblocking"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/update-request", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, out := serve(t, r, req, p.UserID, common.RoleProvider)
	require.Equal(t, http.StatusCreated, code, out)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, []interface{}{"bio", "categories"}, data["changedFields"])
	id := data["id"].(string)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/providers/update-requests", nil)
	code, _ = serve(t, r, req, p.UserID, common.RoleProvider)
	assert.Equal(t, http.StatusForbidden, code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/providers/update-requests", nil)
	code, out = serve(t, r, req, admin, common.RoleAdmin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), out["total"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/providers/update-requests/"+id+"/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	code, _ = serve(t, r, req, admin, common.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, code)

	f.notifier.On("Notify", mock.Anything, p.UserID, notification.UpdateRequestApproved, mock.Anything, mock.Anything).Return().Once()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/providers/update-requests/"+id+"/approve", nil)
	code, out = serve(t, r, req, admin, common.RoleAdmin)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "approved", out["data"].(map[string]interface{})["status"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/providers/update-requests/"+id+"/approve", nil)
	code, _ = serve(t, r, req, admin, common.RoleAdmin)
	assert.Equal(t, http.StatusConflict, code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/providers/update-requests/mine", nil)
	code, out = serve(t, r, req, p.UserID, common.RoleProvider)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["requests"], 1)
	f.notifier.AssertExpectations(t)
}

package category

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t, &Category{}, &SubCategory{})
	tax, err := ParseTaxonomy([]byte(seedYAML))
	require.NoError(t, err)
	svc := NewService(NewGORMRepository(db), tax, zap.NewNop())
	require.NoError(t, svc.Seed(context.Background()))

	r := gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_List(t *testing.T) {
	r := newCategoryRouter(t)

	w := get(r, "/api/v1/categories?include_subcategories=true")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []CategoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "home-services", body.Data[0].Slug)
	assert.Len(t, body.Data[0].SubCategories, 2)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/categories?include_subcategories=maybe").Code)
}

func TestHandler_BySlugAndExpansion(t *testing.T) {
	r := newCategoryRouter(t)

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/categories/plumbing").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/categories/roofing").Code)

	w := get(r, "/api/v1/categories/home-services/expansion")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data Expansion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Matched)
	assert.Equal(t, []string{"Home Services", "House Cleaning", "Gardening"}, body.Data.Labels)
}

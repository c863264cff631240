package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newContext(header string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set(AuthorizationHeader, header)
	}
	return c
}

func TestGetTokenFromContext(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"Bearer abc":       "abc",
		"bearer  abc":      "abc",
		"Basic abc":        "",
		"Bearer":           "",
		"Bearer abc extra": "",
	}
	for header, want := range cases {
		assert.Equal(t, want, GetTokenFromContext(newContext(header)), "header %q", header)
	}
}

func TestContextAccessors(t *testing.T) {
	c := newContext("")
	assert.Equal(t, uuid.Nil, GetUserIDFromContext(c))
	assert.False(t, IsAdmin(c))
	assert.NotNil(t, RequestLogger(c))

	id := uuid.New()
	c.Set(UserIDKey, id)
	c.Set(UserRoleKey, RoleAdmin)
	assert.Equal(t, id, GetUserIDFromContext(c))
	assert.True(t, IsAdmin(c))

	c.Set(UserIDKey, id.String())
	assert.Equal(t, uuid.Nil, GetUserIDFromContext(c))
}

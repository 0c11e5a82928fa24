package middleware

import (
	"campus_backend/internal/config"
	"campus_backend/internal/model"
	"campus_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testCfg = &config.Config{JWT: config.JWTConfig{Secret: "middleware-secret", ExpireTime: time.Hour}}

func token(t *testing.T, role model.UserRole) string {
	t.Helper()
	u := &model.User{Email: "u@campus.edu", Role: role}
	u.ID = 3
	tok, err := util.GenerateJWT(u, testCfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func router() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testCfg))
	r.GET("/me", func(c *gin.Context) {
		util.Success(c, gin.H{"id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/teacher", RoleMiddleware(model.Teacher), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r *gin.Engine, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := router()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	w := do(r, "/me", token(t, model.Student))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":3`)
}

func TestRoleMiddleware(t *testing.T) {
	r := router()

	assert.Equal(t, http.StatusForbidden, do(r, "/teacher", token(t, model.Student)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/teacher", token(t, model.Teacher)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/teacher", token(t, model.Admin)).Code)
}

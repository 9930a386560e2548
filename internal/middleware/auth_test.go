package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"saripos/internal/middleware"
	"saripos/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role model.Role, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  uint(1),
		"username": "tester",
		"role":     string(role),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.JWTAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingToken(t *testing.T) {
	w := doGet(newProtectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestJWTAuth_MalformedToken(t *testing.T) {
	w := doGet(newProtectedRouter(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, model.RoleAdmin, -time.Minute)
	w := doGet(newProtectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", model.RoleAdmin, time.Hour)
	w := doGet(newProtectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, model.RoleCashier, time.Hour)
	w := doGet(newProtectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":1`)
}

func TestRequireRole_Forbidden(t *testing.T) {
	r := newProtectedRouter(middleware.RequireRole(model.RoleAdmin))
	token := signToken(t, testSecret, model.RoleCashier, time.Hour)
	w := doGet(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequireRole_Allowed(t *testing.T) {
	r := newProtectedRouter(middleware.RequireRole(model.RoleAdmin, model.RoleCashier))
	token := signToken(t, testSecret, model.RoleCashier, time.Hour)
	w := doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

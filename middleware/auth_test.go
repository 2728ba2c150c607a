// File: /middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fleettrack-api/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role models.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authRouter(roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(testSecret))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter()

	if w := request(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d", w.Code)
	}
	if w := request(r, "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d", w.Code)
	}
	if w := request(r, signToken(t, "wrong-secret", models.RoleAdmin)); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d", w.Code)
	}
	if w := request(r, signToken(t, testSecret, models.RoleDriver)); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, body %s", w.Code, w.Body)
	}
}

func TestRequireRoles(t *testing.T) {
	r := authRouter(models.RoleAdmin, models.RoleManager)

	if w := request(r, signToken(t, testSecret, models.RoleManager)); w.Code != http.StatusOK {
		t.Errorf("manager should pass: status = %d", w.Code)
	}
	if w := request(r, signToken(t, testSecret, models.RoleDriver)); w.Code != http.StatusForbidden {
		t.Errorf("driver should be rejected: status = %d", w.Code)
	}
}

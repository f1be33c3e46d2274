package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt-middleware"

func init() {
	gin.SetMode(gin.TestMode)
}

func generateTestToken(claims jwt.MapClaims, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

func setupTestRouter(config *JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTMiddleware(config))
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetEmail(c)
		roles, _ := GetRoles(c)
		tenantID, _ := GetTenantID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":   userID,
			"email":     email,
			"roles":     roles,
			"tenant_id": tenantID,
		})
	})
	router.GET("/skip", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "skipped"})
	})
	router.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin"})
	})
	return router
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":   "user-123",
		"email":     "test@example.com",
		"roles":     []string{"user"},
		"tenant_id": "tenant-456",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTMiddleware(t *testing.T) {
	config := &JWTConfig{
		Secret:    testSecret,
		SkipPaths: []string{"/skip"},
	}

	t.Run("valid token", func(t *testing.T) {
		router := setupTestRouter(config)
		token := generateTestToken(validClaims(), testSecret)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("missing authorization header", func(t *testing.T) {
		router := setupTestRouter(config)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		router := setupTestRouter(config)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "InvalidFormat")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		router := setupTestRouter(config)
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		token := generateTestToken(claims, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		router := setupTestRouter(config)
		token := generateTestToken(validClaims(), "wrong-secret")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		router := setupTestRouter(config)
		claims := validClaims()
		delete(claims, "user_id")
		token := generateTestToken(claims, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("skip path bypasses validation", func(t *testing.T) {
		router := setupTestRouter(config)

		req := httptest.NewRequest(http.MethodGet, "/skip", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	config := &JWTConfig{Secret: testSecret}

	t.Run("user with required role", func(t *testing.T) {
		router := setupTestRouter(config)
		claims := validClaims()
		claims["roles"] = []string{"user", "admin"}
		token := generateTestToken(claims, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("user without required role", func(t *testing.T) {
		router := setupTestRouter(config)
		token := generateTestToken(validClaims(), testSecret)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
		}
	})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	m := testJWT()
	userTok, _, _ := m.SignAccess(5, "user")
	adminTok, _, _ := m.SignAccess(1, "admin")

	r := gin.New()
	r.Use(AuthMiddleware(m))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt64(CtxUserIDKey)})
	})
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/checkout", func(c *gin.Context) {
		c.Status(http.StatusSeeOther)
	})

	tests := []struct {
		name           string
		method         string
		path           string
		header         string
		cookie         string
		origin         string
		referer        string
		expectedStatus int
	}{
		{name: "missing token", path: "/me", expectedStatus: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", expectedStatus: http.StatusUnauthorized},
		{name: "valid bearer", path: "/me", header: "Bearer " + userTok, expectedStatus: http.StatusOK},
		{name: "valid cookie", path: "/me", cookie: userTok, expectedStatus: http.StatusOK},
		{name: "user on admin route", path: "/admin", header: "Bearer " + userTok, expectedStatus: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + adminTok, expectedStatus: http.StatusNoContent},
		{name: "cookie post from other site", method: http.MethodPost, path: "/checkout", cookie: userTok, origin: "https://evil.test", expectedStatus: http.StatusForbidden},
		{name: "cookie post without origin", method: http.MethodPost, path: "/checkout", cookie: userTok, expectedStatus: http.StatusForbidden},
		{name: "cookie post with null origin", method: http.MethodPost, path: "/checkout", cookie: userTok, origin: "null", expectedStatus: http.StatusForbidden},
		{name: "cookie post from same origin", method: http.MethodPost, path: "/checkout", cookie: userTok, origin: "http://example.com", expectedStatus: http.StatusSeeOther},
		{name: "cookie post with same-site referer", method: http.MethodPost, path: "/checkout", cookie: userTok, referer: "http://example.com/api/checkout", expectedStatus: http.StatusSeeOther},
		{name: "bearer post from other site", method: http.MethodPost, path: "/checkout", header: "Bearer " + userTok, origin: "https://evil.test", expectedStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

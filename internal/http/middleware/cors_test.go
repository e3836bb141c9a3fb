package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, h gin.HandlerFunc, origin string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(h)
	r.OPTIONS("/api/recipes", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLocalDevOriginsByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, origin := range []string{"http://localhost:3000", "http://127.0.0.1:5173"} {
		rec := preflight(t, CORS(nil), origin)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s status: want=%d got=%d", origin, http.StatusNoContent, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
			t.Fatalf("%s allow-origin: got=%q", origin, got)
		}
	}
}

func TestCORSConfiguredOriginsReplaceDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := CORS([]string{" https://recipes.example.com "})
	if got := preflight(t, h, "https://recipes.example.com").Header().Get("Access-Control-Allow-Origin"); got != "https://recipes.example.com" {
		t.Fatalf("configured origin: got=%q", got)
	}
	if got := preflight(t, h, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("default origin must be dropped, got=%q", got)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/ministore_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoginRateLimiter(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	rl.RecordFailure("1.2.3.4")
	rl.RecordFailure("1.2.3.4")
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))

	rl.RecordFailure("1.2.3.4")
	rl.RecordFailure("1.2.3.4")
	rl.Reset("1.2.3.4")
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"tienda.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://tienda.example.com:443")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://tienda.example.com:443", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTMiddleware(t *testing.T) {
	signer := utils.NewJWTSigner("secret", time.Hour)
	r := gin.New()
	r.Use(NewJWTMiddleware(signer).Handle())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "%d", c.GetInt("user_id")) })

	token, err := signer.Generate(7, "admin@tienda.mx")
	assert.NoError(t, err)

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Token abc", "", http.StatusUnauthorized},
		{"invalid", "Bearer abc", "", http.StatusUnauthorized},
		{"header", "Bearer " + token, "", http.StatusOK},
		{"query", "", "?token=" + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, tc.name)
		if tc.want == http.StatusOK {
			assert.Equal(t, "7", w.Body.String())
		}
	}
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = utils.RequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, seen, 8)
	assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
}

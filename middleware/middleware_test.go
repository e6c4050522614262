package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		_, ok := c.Get("logger")
		c.JSON(http.StatusOK, gin.H{"ip": getClientIP(c), "logger": ok})
	})
	return r
}

func get(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newTestEngine(RateLimitMiddleware(3))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(r, nil).Code)
	}
	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// Another client has its own budget.
	assert.Equal(t, http.StatusOK, get(r, map[string]string{"X-Real-IP": "10.0.0.10"}).Code)
}

func TestGetClientIP(t *testing.T) {
	r := newTestEngine()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "remote address", want: "10.0.0.9"},
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, want: "203.0.113.7"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 198.51.100.2 "}, want: "198.51.100.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, `{"ip":"`+tt.want+`","logger":false}`, get(r, tt.headers).Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	r := newTestEngine(RequestLogger())

	w := get(r, map[string]string{"X-Request-ID": "req-42"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"logger":true`)

	w = get(r, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

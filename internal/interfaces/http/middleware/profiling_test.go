package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// labelCapture records the profile labels visible to the handler.
func labelCapture(seen map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			seen[key] = value
			return true
		})
		c.Status(http.StatusOK)
	}
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
}

func TestProfiling_LabelsRequest(t *testing.T) {
	seen := map[string]string{}
	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))
	r.PUT("/api/v1/pos/cart/items/:index", labelCapture(seen))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/pos/cart/items/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"method": http.MethodPut,
		"route":  "/api/v1/pos/cart/items/:index",
		"area":   "cart",
	}, seen)
}

func TestProfiling_SkipsAndDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilingConfig
		path string
	}{
		{name: "disabled", cfg: ProfilingConfig{Enabled: false}, path: "/api/v1/pos/receipt"},
		{name: "skipped path", cfg: DefaultProfilingConfig(), path: "/health"},
		{name: "skipped prefix", cfg: DefaultProfilingConfig(), path: "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[string]string{}
			r := gin.New()
			r.Use(Profiling(tt.cfg))
			r.GET("/api/v1/pos/receipt", labelCapture(seen))
			r.GET("/health", labelCapture(seen))
			r.GET("/swagger/*any", labelCapture(seen))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, seen)
		})
	}
}

func TestAreaFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/pos/cart/items/:index": "cart",
		"/api/v1/pos/sales/:id/receipt": "sales",
		"/api/v1/pos/catalog/low-stock": "catalog",
		"/api/v1/pos/me":                "me",
		"/api/v1/ping":                  "ping",
		"/api/v2/system/info":           "system",
		"":                              "",
	}
	for route, want := range tests {
		assert.Equal(t, want, areaFromRoute(route), route)
	}
}

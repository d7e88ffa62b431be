package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSessions int

func (n fixedSessions) Len() int { return int(n) }

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("ancestra-pos", "1.0.0", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports open sessions", func(t *testing.T) {
		h := NewSystemHandler("ancestra-pos", "1.0.0", fixedSessions(3))
		c, w := newTestContext()

		h.Health(c)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[HealthResponse](t, w)
		assert.Equal(t, "ok", resp.Data.Status)
		assert.Equal(t, 3, resp.Data.ActiveSessions)
		assert.NotEmpty(t, resp.Data.Uptime)
	})

	t.Run("without a registry", func(t *testing.T) {
		h := NewSystemHandler("ancestra-pos", "1.0.0", nil)
		c, w := newTestContext()

		h.Health(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, decode[HealthResponse](t, w).Data.ActiveSessions)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("ancestra-pos", "1.2.3", nil)
	c, w := newTestContext()

	h.GetSystemInfo(c)

	require.Equal(t, http.StatusOK, w.Code)
	info := decode[SystemInfoResponse](t, w).Data
	assert.Equal(t, "ancestra-pos", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_Ping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler("ancestra-pos", "1.0.0", nil)

	router := gin.New()
	router.GET("/ping", h.Ping)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	pong := decode[PingResponse](t, w).Data
	assert.Equal(t, "pong", pong.Message)

	ts, err := time.Parse(time.RFC3339, pong.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

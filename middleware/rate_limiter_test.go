package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"swiftmotors/config"
)

func TestRateLimitPerIPFromConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.MaxRequestsPerMin = 2

	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Real-IP", ip)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"), "limit taken from config")

	// Other clients keep their own budget.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

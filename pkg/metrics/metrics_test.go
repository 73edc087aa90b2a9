package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/service/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/service/1", "/api/service/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	m.OrderPlaced(550)
	m.Login("success")
	m.CartMutated("add")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `bitebuddy_http_requests_total{method="GET",route="/api/service/:id",status="404"} 2`)
	assert.Contains(t, text, "bitebuddy_orders_placed_total 1")
	assert.Contains(t, text, `bitebuddy_logins_total{outcome="success"} 1`)
	assert.Contains(t, text, `bitebuddy_cart_mutations_total{action="add"} 1`)
}

func TestNew_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

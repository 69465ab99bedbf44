package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Run("middleware counts requests by status code", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		reg := prometheus.NewRegistry()
		c := NewCollector(reg)

		r := gin.New()
		r.Use(c.Middleware())
		r.GET("/ok", func(g *gin.Context) { g.Status(http.StatusOK) })

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		}

		got := testutil.ToFloat64(c.httpRequests.WithLabelValues("200"))
		assert.EqualValues(t, 2, got, "request count does not match")
	})

	t.Run("post counters increment", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewCollector(reg)

		c.RecordPostCreated()
		c.RecordPostCreated()
		c.RecordPostDeleted()

		assert.EqualValues(t, 2, testutil.ToFloat64(c.postsCreated), "created count does not match")
		assert.EqualValues(t, 1, testutil.ToFloat64(c.postsDeleted), "deleted count does not match")
	})

	t.Run("scrape endpoint serves the registered metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		NewCollector(reg)

		w := httptest.NewRecorder()
		Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code, "status code does not match")
		assert.Contains(t, w.Body.String(), "techlog_posts_created_total", "metric should be exposed")
	})
}

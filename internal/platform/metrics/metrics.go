// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はHTTPリクエストと投稿操作のPrometheusメトリクスを収集する。
type Collector struct {
	httpRequests   *prometheus.CounterVec
	requestLatency prometheus.Histogram
	postsCreated   prometheus.Counter
	postsDeleted   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "techlog_http_requests_total",
			Help: "HTTPステータスコード別のリクエスト数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "techlog_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "techlog_posts_created_total",
			Help: "作成された投稿の合計数",
		}),
		postsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "techlog_posts_deleted_total",
			Help: "削除された投稿の合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.requestLatency,
		c.postsCreated,
		c.postsDeleted,
	)

	return c
}

// RecordPostCreated は投稿の作成を記録する。
func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

// RecordPostDeleted は投稿の削除を記録する。
func (c *Collector) RecordPostDeleted() {
	c.postsDeleted.Inc()
}

// Middleware はリクエスト数とレイテンシを記録するginミドルウェアを返す。
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(g *gin.Context) {
		start := time.Now()
		g.Next()
		c.httpRequests.WithLabelValues(strconv.Itoa(g.Writer.Status())).Inc()
		c.requestLatency.Observe(time.Since(start).Seconds())
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package metrics は Prometheus メトリクスの登録と公開を行います。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はアプリケーションのメトリクス一式です。
type Metrics struct {
	registry *prometheus.Registry

	ScanDuration  *prometheus.HistogramVec // labels: type
	ScannedTotal  prometheus.Counter
	ScanCacheHits *prometheus.CounterVec // labels: type, result=hit|miss
	HTTPRequests  *prometheus.CounterVec // labels: method, route, status
	HTTPDuration  *prometheus.HistogramVec
}

// NewMetrics は専用のレジストリにメトリクスを登録して返します。
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ScanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clickcoin_scan_duration_seconds",
			Help:    "Scan computation latency (cache misses only)",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"type"}),
		ScannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clickcoin_scanned_symbols_total",
			Help: "Symbols summarized by scans",
		}),
		ScanCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickcoin_scan_cache_lookups_total",
			Help: "Scan result cache lookups",
		}, []string{"type", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickcoin_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clickcoin_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.ScanDuration,
		m.ScannedTotal,
		m.ScanCacheHits,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScan はキャッシュミス時のスキャン所要時間を記録します。
func (m *Metrics) ObserveScan(scanType string, d time.Duration) {
	m.ScanDuration.WithLabelValues(scanType).Observe(d.Seconds())
}

// AddScanned は集計した銘柄数を加算します。
func (m *Metrics) AddScanned(n int) {
	m.ScannedTotal.Add(float64(n))
}

// CacheLookup はスキャン結果キャッシュのヒット/ミスを記録します。
func (m *Metrics) CacheLookup(scanType string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ScanCacheHits.WithLabelValues(scanType, result).Inc()
}

// Handler は /metrics 用の HTTP ハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware はルート単位のリクエスト数とレイテンシを記録する gin ミドルウェアです。
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

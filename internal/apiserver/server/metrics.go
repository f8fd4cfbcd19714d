// Package server Prometheus 指标导出
package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 包含所有 API Server 指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// 业务指标
	DonorsActive        prometheus.Gauge
	BanksActive         prometheus.Gauge
	RequestsTotal       *prometheus.GaugeVec
	BloodUnitsAvailable *prometheus.GaugeVec
	StatusTransitions   *prometheus.CounterVec

	// 缓存指标
	SummaryCacheHits   prometheus.Counter
	SummaryCacheMisses prometheus.Counter

	// 数据库指标
	DBQueryTotal    *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
}

// NewMetrics 创建指标实例
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		DonorsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "donors_active",
				Help:      "Number of active registered donors",
			},
		),
		BanksActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "blood_banks_active",
				Help:      "Number of active blood banks",
			},
		),
		RequestsTotal: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "blood_requests_total",
				Help:      "Blood requests by status and urgency",
			},
			[]string{"status", "urgency"},
		),
		BloodUnitsAvailable: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "blood_units_available",
				Help:      "Available blood units across active banks by blood group",
			},
			[]string{"blood_group"},
		),
		StatusTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blood_request_status_transitions_total",
				Help:      "Blood request status transitions",
			},
			[]string{"from", "to"},
		),
		SummaryCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "availability_summary_cache_hits_total",
				Help:      "Availability summary cache hits",
			},
		),
		SummaryCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "availability_summary_cache_misses_total",
				Help:      "Availability summary cache misses",
			},
		),
		DBQueryTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Total database queries",
			},
			[]string{"operation", "collection"},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation", "collection"},
		),
	}
}

// MetricsMiddleware 创建 HTTP 指标中间件
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// 包装 ResponseWriter 以捕获状态码
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.statusCode)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter 包装 http.ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath 规范化路径，将 ID 与令牌替换为占位符，避免高基数标签
func normalizePath(path string) string {
	switch {
	case path == "/api/v1/bloodbanks/availability/summary",
		path == "/api/v1/requests/urgent":
		return path
	case strings.HasPrefix(path, "/api/v1/donors/search/"):
		return "/api/v1/donors/search/{bloodGroup}"
	case strings.HasPrefix(path, "/api/v1/compatibility/"):
		return "/api/v1/compatibility/{bloodGroup}"
	case strings.HasPrefix(path, "/api/v1/auth/verify/"):
		return "/api/v1/auth/verify/{token}"
	case strings.HasPrefix(path, "/api/v1/auth/reset-password/"):
		return "/api/v1/auth/reset-password/{token}"
	case strings.HasPrefix(path, "/api/v1/donors/") && len(path) > len("/api/v1/donors/"):
		return "/api/v1/donors/{id}"
	case strings.HasPrefix(path, "/api/v1/requests/") && strings.HasSuffix(path, "/status"):
		return "/api/v1/requests/{id}/status"
	case strings.HasPrefix(path, "/api/v1/requests/") && len(path) > len("/api/v1/requests/"):
		return "/api/v1/requests/{id}"
	case strings.HasPrefix(path, "/api/v1/bloodbanks/") && strings.HasSuffix(path, "/inventory"):
		return "/api/v1/bloodbanks/{id}/inventory"
	case strings.HasPrefix(path, "/api/v1/bloodbanks/") && len(path) > len("/api/v1/bloodbanks/"):
		return "/api/v1/bloodbanks/{id}"
	default:
		return path
	}
}

// MetricsHandler 返回 Prometheus HTTP Handler
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordDBQuery 记录数据库查询指标
func (m *Metrics) RecordDBQuery(operation, collection string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, collection).Inc()
	m.DBQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

// RecordStatusTransition 记录请求状态流转
func (m *Metrics) RecordStatusTransition(from, to string) {
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// SetDonorsActive 设置活跃献血者数量
func (m *Metrics) SetDonorsActive(count int) {
	m.DonorsActive.Set(float64(count))
}

// SetBanksActive 设置活跃血库数量
func (m *Metrics) SetBanksActive(count int) {
	m.BanksActive.Set(float64(count))
}

// SetRequestsCount 设置请求数量
func (m *Metrics) SetRequestsCount(status, urgency string, count int) {
	m.RequestsTotal.WithLabelValues(status, urgency).Set(float64(count))
}

// SetBloodUnitsAvailable 设置某血型可用单位数
func (m *Metrics) SetBloodUnitsAvailable(bloodGroup string, units int) {
	m.BloodUnitsAvailable.WithLabelValues(bloodGroup).Set(float64(units))
}

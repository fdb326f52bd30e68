// Package metrics Prometheus 指标：HTTP 请求、假期缓存、上游请求与排课结果。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lessonplan"

// Metrics 指标集合，使用独立 Registry 以便测试
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	upstreamFetches *prometheus.CounterVec
	scheduleRuns    *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求数",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exclusion_cache_lookups_total",
			Help:      "假期缓存查询次数",
		}, []string{"result"}),
		upstreamFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exclusion_upstream_fetches_total",
			Help:      "上游假期数据请求次数",
		}, []string{"source", "outcome"}),
		scheduleRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_runs_total",
			Help:      "排课次数",
		}, []string{"outcome"}),
	}
}

// Registry 底层 Registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheLookup 实现 exclusion.Recorder
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// UpstreamFetch 实现 exclusion.Recorder
func (m *Metrics) UpstreamFetch(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamFetches.WithLabelValues(source, outcome).Inc()
}

// ScheduleRun 记录一次排课：ok | truncated | invalid
func (m *Metrics) ScheduleRun(outcome string) {
	m.scheduleRuns.WithLabelValues(outcome).Inc()
}

// Middleware 记录请求数与耗时；route 取注册的路由模板，未匹配时记为 unmatched
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

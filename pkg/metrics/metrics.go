package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec

	logins          *prometheus.CounterVec
	forcedLogouts   *prometheus.CounterVec
	attendanceMarks *prometheus.CounterVec
	advances        prometheus.Counter
	adminMutations  *prometheus.CounterVec
	watchdogChecks  *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:   r,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"}),
		httpDur:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"}),
		httpInfl:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"}),

		logins:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "logins_total", Help: "Login attempts by result."}, []string{"result"}),
		forcedLogouts:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "forced_logouts_total", Help: "Sessions ended by eviction or block."}, []string{"reason"}),
		attendanceMarks: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "attendance_marks_total"}, []string{"status"}),
		advances:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "salary_advances_total"}),
		adminMutations:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "admin_mutations_total"}, []string{"field"}),
		watchdogChecks:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "watchdog_checks_total"}, []string{"result"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl)
	r.MustRegister(m.logins, m.forcedLogouts, m.attendanceMarks, m.advances, m.adminMutations, m.watchdogChecks)
	return m
}

func (m *Metrics) Login(result string) {
	if m != nil {
		m.logins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ForcedLogout(reason string) {
	if m != nil {
		m.forcedLogouts.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) AttendanceMarked(status string) {
	if m != nil {
		m.attendanceMarks.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) AdvanceRecorded() {
	if m != nil {
		m.advances.Inc()
	}
}

func (m *Metrics) AdminMutation(field string) {
	if m != nil {
		m.adminMutations.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) WatchdogCheck(result string) {
	if m != nil {
		m.watchdogChecks.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

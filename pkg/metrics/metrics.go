// Package metrics 排班服务的 Prometheus 指标
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 业务指标记录接口；服务层只依赖此接口
type Recorder interface {
	ObserveGenerate(result string, d time.Duration, days int)
	IncPublish(result string)
	IncChange(changeType, result string)
	ObservePredict(months int, complete bool)
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// ── Nop ──

// Nop 空实现（测试与未启用指标时使用）
type Nop struct{}

// NewNop 创建空实现
func NewNop() *Nop { return &Nop{} }

func (*Nop) ObserveGenerate(string, time.Duration, int)     {}
func (*Nop) IncPublish(string)                              {}
func (*Nop) IncChange(string, string)                       {}
func (*Nop) ObservePredict(int, bool)                       {}
func (*Nop) ObserveHTTP(string, string, int, time.Duration) {}

var _ Recorder = (*Nop)(nil)

// ── Prometheus ──

// Prometheus 基于 client_golang 的实现
type Prometheus struct {
	reg       *prometheus.Registry
	namespace string
	once      sync.Once

	generateTotal     *prometheus.CounterVec
	generateLatency   prometheus.Histogram
	generatedDays     prometheus.Gauge
	publishTotal      *prometheus.CounterVec
	changeTotal       *prometheus.CounterVec
	predictMonths     prometheus.Histogram
	predictIncomplete prometheus.Counter
	httpTotal         *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus 创建独立 Registry 的指标收集器；namespace 为空时取 "duty"
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "duty"
	}
	p := &Prometheus{reg: prometheus.NewRegistry(), namespace: namespace}
	p.ensureRegistered()
	return p
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.generateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "generate_total",
			Help:      "Monthly schedule generations by result.",
		}, []string{"result"})
		p.generateLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "generate_seconds",
			Help:      "Latency of monthly schedule generation including persistence.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		})
		p.generatedDays = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "generated_days",
			Help:      "Number of scheduled days in the last generated month.",
		})
		p.publishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "publish_total",
			Help:      "Month publish attempts by result.",
		}, []string{"result"})
		p.changeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "changes_total",
			Help:      "Swap and standby operations by type and result.",
		}, []string{"type", "result"})
		p.predictMonths = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "predict_months_simulated",
			Help:      "Months simulated per prediction request.",
			Buckets:   []float64{1, 2, 3, 6, 12, 24},
		})
		p.predictIncomplete = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rotation",
			Name:      "predict_incomplete_total",
			Help:      "Predictions that hit the month cap before finding enough dates.",
		})
		p.httpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"})
		p.httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		p.reg.MustRegister(
			p.generateTotal, p.generateLatency, p.generatedDays,
			p.publishTotal, p.changeTotal,
			p.predictMonths, p.predictIncomplete,
			p.httpTotal, p.httpLatency,
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	})
}

func (p *Prometheus) ObserveGenerate(result string, d time.Duration, days int) {
	p.generateTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		p.generateLatency.Observe(d.Seconds())
		p.generatedDays.Set(float64(days))
	}
}

func (p *Prometheus) IncPublish(result string) {
	p.publishTotal.WithLabelValues(result).Inc()
}

func (p *Prometheus) IncChange(changeType, result string) {
	p.changeTotal.WithLabelValues(changeType, result).Inc()
}

func (p *Prometheus) ObservePredict(months int, complete bool) {
	p.predictMonths.Observe(float64(months))
	if !complete {
		p.predictIncomplete.Inc()
	}
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, d time.Duration) {
	p.httpTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	p.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler /metrics 导出端点
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// Registry 底层 Registry（测试用）
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

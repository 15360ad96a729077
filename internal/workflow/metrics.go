package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько времени занял шаг воркфлоу (включая вызов агента)
	StageDuration *prometheus.HistogramVec

	// Traffic: общее кол-во выполненных шагов
	StageTotal *prometheus.CounterVec

	// Errors: транспортные отказы шлюза агентов
	GatewayErrors *prometheus.CounterVec

	// Saturation: заполненность буфера аудита (backpressure)
	AuditBufferFill prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		StageDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_stage_duration_seconds",
			Help:    "Histogram of workflow stage latencies.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"module", "stage", "status"}),

		StageTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_stages_total",
			Help: "Total number of executed workflow stages.",
		}, []string{"module", "stage"}),

		GatewayErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_gateway_errors_total",
			Help: "Total number of agent gateway transport errors.",
		}, []string{"module"}),

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_audit_buffer_utilization",
			Help: "Current number of entries in the audit export buffer.",
		}),
	}
}

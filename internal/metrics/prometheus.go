package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	StageRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_stage_runs_total",
			Help: "Total number of stage runs",
		},
		[]string{"stage", "status"}, // status: success|error
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sor_stage_duration_seconds",
			Help:    "Full stage run duration in seconds",
			Buckets: []float64{5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	// Agent metrics
	AgentRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_agent_runs_total",
			Help: "Total number of agent invocations",
		},
		[]string{"agent", "model", "status"}, // status: success|error
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sor_agent_latency_seconds",
			Help:    "Agent invocation latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"agent", "model"},
	)

	// Conflict detection metrics
	ConflictDetections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_conflict_detections_total",
			Help: "Total number of conflict detection passes",
		},
		[]string{"outcome"}, // outcome: parsed|degraded|trivial
	)

	ConflictProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_conflict_probes_total",
			Help: "Total number of disagreement probe escalations",
		},
		[]string{"outcome"}, // outcome: merged|discarded
	)

	// LLM metrics
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_llm_requests_total",
			Help: "Total number of LLM API requests",
		},
		[]string{"provider", "model", "status"}, // status: ok|error
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sor_llm_latency_seconds",
			Help:    "LLM API request latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	LLMTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_llm_tokens_total",
			Help: "Total tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: input|output
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sor_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)

	SSEStreams = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sor_sse_streams",
			Help: "Current number of open stage run event streams",
		},
		[]string{"stage"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(StageRuns)
	prometheus.MustRegister(StageDuration)

	prometheus.MustRegister(AgentRuns)
	prometheus.MustRegister(AgentLatency)

	prometheus.MustRegister(ConflictDetections)
	prometheus.MustRegister(ConflictProbes)

	prometheus.MustRegister(LLMRequests)
	prometheus.MustRegister(LLMLatency)
	prometheus.MustRegister(LLMTokens)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	prometheus.MustRegister(KafkaMessages)
	prometheus.MustRegister(SSEStreams)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordStageRun records a full stage run
func RecordStageRun(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	StageRuns.WithLabelValues(stage, status).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordAgentRun records a single agent invocation inside a stage run
func RecordAgentRun(agent, model string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	AgentRuns.WithLabelValues(agent, model, status).Inc()
	AgentLatency.WithLabelValues(agent, model).Observe(latency.Seconds())
}

// RecordConflictDetection records the outcome of a conflict detection pass
func RecordConflictDetection(outcome string) {
	ConflictDetections.WithLabelValues(outcome).Inc()
}

// RecordConflictProbe records the outcome of a disagreement probe
func RecordConflictProbe(outcome string) {
	ConflictProbes.WithLabelValues(outcome).Inc()
}

// RecordLLMRequest records a single LLM API request
func RecordLLMRequest(provider, model, status string, seconds float64) {
	LLMRequests.WithLabelValues(provider, model, status).Inc()
	LLMLatency.WithLabelValues(provider, model).Observe(seconds)
}

// RecordLLMTokens records token consumption for a completed request
func RecordLLMTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		LLMTokens.WithLabelValues(provider, model, "input").Add(float64(prompt))
	}
	if completion > 0 {
		LLMTokens.WithLabelValues(provider, model, "output").Add(float64(completion))
	}
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordKafkaMessage records a produced Kafka message
func RecordKafkaMessage(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	KafkaMessages.WithLabelValues(topic, status).Inc()
}

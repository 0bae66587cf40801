package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_turns_total",
		Help: "Conversation turns processed, by path and outcome",
	}, []string{"path", "outcome"})
	turnDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatbot_turn_duration_seconds",
		Help:    "End-to-end turn latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	llmRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_llm_requests_total",
		Help: "LLM completion calls, by model and outcome",
	}, []string{"model", "outcome"})
	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatbot_llm_latency_seconds",
		Help:    "LLM completion latency",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"model"})
	llmTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_llm_tokens_total",
		Help: "Tokens consumed, by model and direction",
	}, []string{"model", "direction"})
	retrievalLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatbot_retrieval_latency_seconds",
		Help:    "Passage retrieval latency including query embedding",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	fabricatedIDs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbot_fabricated_claim_ids_total",
		Help: "Claim identifiers named by the model that were not in the candidate set",
	})
)

// Telemetry records turn metrics and tracks LLM spend.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	mu          sync.RWMutex
	totalCost   float64
	totalTokens int64
	modelCosts  map[string]float64
}

func New(cfg config.TelemetryConfig) *Telemetry {
	return &Telemetry{
		config:     cfg,
		logger:     log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		modelCosts: make(map[string]float64),
	}
}

// RecordTurn records one processed conversation turn.
func (t *Telemetry) RecordTurn(path string, success bool, duration time.Duration) {
	if !t.config.Enabled {
		return
	}
	outcome := "success"
	if !success {
		outcome = "degraded"
	}
	turnsTotal.WithLabelValues(path, outcome).Inc()
	turnDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordLLMCall records one completion call with its token usage and cost.
func (t *Telemetry) RecordLLMCall(model string, duration time.Duration, inputTokens, outputTokens int64, cost float64, err error) {
	if !t.config.Enabled {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	llmRequests.WithLabelValues(model, outcome).Inc()
	llmLatency.WithLabelValues(model).Observe(duration.Seconds())
	llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))

	if !t.config.CostTracking {
		return
	}
	t.mu.Lock()
	t.totalCost += cost
	t.totalTokens += inputTokens + outputTokens
	t.modelCosts[model] += cost
	t.mu.Unlock()
	t.logger.Printf("LLM call: model=%s duration=%v tokens=%d/%d cost=$%.4f",
		model, duration, inputTokens, outputTokens, cost)
}

// RecordRetrieval records one passage retrieval.
func (t *Telemetry) RecordRetrieval(duration time.Duration) {
	if !t.config.Enabled {
		return
	}
	retrievalLatency.Observe(duration.Seconds())
}

// RecordFabricated counts identifiers dropped by candidate-set reconciliation.
func (t *Telemetry) RecordFabricated(n int) {
	if !t.config.Enabled || n <= 0 {
		return
	}
	fabricatedIDs.Add(float64(n))
}

// TotalCost returns the accumulated LLM spend.
func (t *Telemetry) TotalCost() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalCost
}

// TotalTokens returns the accumulated token count.
func (t *Telemetry) TotalTokens() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalTokens
}

// ModelCosts returns a copy of per-model spend.
func (t *Telemetry) ModelCosts() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.modelCosts))
	for k, v := range t.modelCosts {
		out[k] = v
	}
	return out
}

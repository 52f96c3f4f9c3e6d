package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionQueueLength tracks the number of actions waiting in the queue
	ActionQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elwcore_action_queue_length",
		Help: "The number of actions currently waiting in the queue",
	})

	// WorkersActive tracks the number of active workers
	WorkersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elwcore_workers_active",
		Help: "The number of workers currently active",
	})

	// ActionsProcessed tracks processed actions by kind and outcome
	ActionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elwcore_actions_processed_total",
			Help: "The total number of actions processed",
		},
		[]string{"kind", "status"}, // buy_presale/..., succeeded/rejected
	)

	// ActionDuration tracks how long actions take to execute
	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "elwcore_action_duration_seconds",
			Help:    "Time taken to execute an action",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// VaultBalance tracks the current balance of each vault per currency
	VaultBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "elwcore_vault_balance",
			Help: "Current balance held by a vault, in base units",
		},
		[]string{"vault", "currency"},
	)

	// MiningLockedReward tracks the outstanding mining reward liability
	MiningLockedReward = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elwcore_mining_locked_reward",
		Help: "Platform balance locked for unclaimed mining rewards, in base units",
	})

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elwcore_database_operations_total",
			Help: "The total number of database operations",
		},
		[]string{"operation", "status"}, // insert/update, success/failed
	)

	// OracleRequestsTotal tracks price feed requests by status
	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elwcore_oracle_requests_total",
			Help: "The total number of price feed requests",
		},
		[]string{"status"},
	)

	// OracleEndpointHealth tracks price feed endpoint health
	OracleEndpointHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "elwcore_oracle_endpoint_health",
			Help: "Health status of price feed endpoints (1 = healthy, 0 = unhealthy)",
		},
		[]string{"endpoint"},
	)
)

// RecordAction records a processed action with its outcome
func RecordAction(kind, status string) {
	ActionsProcessed.WithLabelValues(kind, status).Inc()
}

// RecordActionDuration records the time taken to execute an action
func RecordActionDuration(kind string, duration float64) {
	ActionDuration.WithLabelValues(kind).Observe(duration)
}

// SetVaultBalance sets the current balance gauge for a vault
func SetVaultBalance(vault, currency string, amount uint64) {
	VaultBalance.WithLabelValues(vault, currency).Set(float64(amount))
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string) {
	DatabaseOperations.WithLabelValues(operation, status).Inc()
}

// RecordOracleRequest records a price feed request with the given status
func RecordOracleRequest(status string) {
	OracleRequestsTotal.WithLabelValues(status).Inc()
}

// SetOracleEndpointHealth sets the health status of a price feed endpoint
func SetOracleEndpointHealth(endpoint string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	OracleEndpointHealth.WithLabelValues(endpoint).Set(value)
}

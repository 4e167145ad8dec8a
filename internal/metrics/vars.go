package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hedgebot_commands_total",
		Help: "Number of handled bot commands by name",
	}, []string{"command"})

	HedgesExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hedgebot_hedges_executed_total",
		Help: "Number of successfully executed hedges",
	})

	OracleErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hedgebot_oracle_errors_total",
		Help: "Number of failed price lookups across all venues",
	})

	PriceFetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hedgebot_price_fetch_seconds",
		Help:    "Time to obtain a last-traded price from a venue",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		CommandsTotal,
		HedgesExecuted,
		OracleErrors,
		PriceFetchLatency,
	)
}

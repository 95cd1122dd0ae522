package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records trial runs and cost totals of every scenario it observes.
type Collector struct {
	TrialRuns     *prometheus.CounterVec
	TrialFailures *prometheus.CounterVec
	TrialDuration *prometheus.HistogramVec

	GlobalCost           *prometheus.GaugeVec
	GlobalDiscountedCost *prometheus.GaugeVec
}

// NewCollector registers with reg, or with the default registry when reg is nil.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Collector{
		TrialRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "costcurve_trial_runs_total",
			Help: "Number of cost curve trial runs",
		}, []string{"scenario", "trial"}),
		TrialFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "costcurve_trial_failures_total",
			Help: "Number of cost curve trial runs that did not solve",
		}, []string{"scenario"}),
		TrialDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "costcurve_trial_duration_seconds",
			Help:    "Wall time of a cost curve trial run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"scenario"}),
		GlobalCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "costcurve_global_cost",
			Help: "Undiscounted global policy cost of the last computation",
		}, []string{"scenario"}),
		GlobalDiscountedCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "costcurve_global_discounted_cost",
			Help: "Discounted global policy cost of the last computation",
		}, []string{"scenario"}),
	}
}

func (c *Collector) ObserveTrial(scenario string, trial int, success bool, elapsed time.Duration) {
	c.TrialRuns.WithLabelValues(scenario, strconv.Itoa(trial)).Inc()

	if !success {
		c.TrialFailures.WithLabelValues(scenario).Inc()
	}

	c.TrialDuration.WithLabelValues(scenario).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveCosts(scenario string, globalCost, globalDiscountedCost float64) {
	c.GlobalCost.WithLabelValues(scenario).Set(globalCost)
	c.GlobalDiscountedCost.WithLabelValues(scenario).Set(globalDiscountedCost)
}

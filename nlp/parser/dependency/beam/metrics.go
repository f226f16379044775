package beam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics of the beam parser. A nil *Metrics records nothing.
type Metrics struct {
	parses     prometheus.Counter
	cutoffs    *prometheus.CounterVec
	goldLost   prometheus.Counter
	deadEnds   prometheus.Counter
	expansions prometheus.Histogram
	duration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		parses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "parser_beam_parses_total",
			Help: "Number of sentences parsed by the beam parser.",
		}),
		cutoffs: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "parser_beam_cutoffs_total",
			Help: "Number of parses stopped by a time or memory budget.",
		}, []string{"reason"}),
		goldLost: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "parser_beam_gold_lost_total",
			Help: "Number of training parses abandoned once the gold derivation fell out of the beam.",
		}),
		deadEnds: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "parser_beam_dead_ends_total",
			Help: "Number of configurations left without a candidate transition.",
		}),
		expansions: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "parser_beam_expansions",
			Help:    "Number of configurations created per parse.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 12),
		}),
		duration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "parser_beam_parse_duration_seconds",
			Help:    "Time spent parsing one sentence.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(result *Result, seconds float64) {
	if m == nil {
		return
	}
	m.parses.Inc()
	if result.Cutoff != CutoffNone {
		m.cutoffs.WithLabelValues(string(result.Cutoff)).Inc()
	}
	if result.GoldLost {
		m.goldLost.Inc()
	}
	m.expansions.Observe(float64(result.Expansions))
	m.duration.Observe(seconds)
}

func (m *Metrics) deadEnd() {
	if m == nil {
		return
	}
	m.deadEnds.Inc()
}

// Package metrics provides a Prometheus-backed conformance reporter.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oasguard/oasguard/conformance"
)

// Reporter counts contract violations by provenance, method, and matched
// path template. Wire it into a validator alongside a logging reporter via
// conformance.MultiReporter.
type Reporter struct {
	mu sync.Mutex

	violationsTotal *prometheus.CounterVec
	exchangesTotal  *prometheus.CounterVec

	registerer prometheus.Registerer
	registered bool
}

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oasguard",
			Subsystem: "conformance",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewReporter creates a reporter backed by the given registerer. A nil
// registerer falls back to the Prometheus default.
func NewReporter(registerer prometheus.Registerer) *Reporter {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Reporter{
		registerer:      registerer,
		violationsTotal: newCounterVec("violations_total", "Total number of contract violations observed", []string{"provenance", "method", "template"}),
		exchangesTotal:  newCounterVec("violating_exchanges_total", "Total number of exchanges with at least one reported violation", []string{"method"}),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (r *Reporter) Register() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return nil
	}

	collectors := []prometheus.Collector{r.violationsTotal, r.exchangesTotal}
	for _, c := range collectors {
		if err := r.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	r.registered = true
	return nil
}

// Report implements conformance.Reporter. The template label falls back to
// "unmatched" when the exchange never resolved to a declared path, keeping
// cardinality bounded by the contract's own path count.
func (r *Reporter) Report(rc conformance.ReportContext) {
	template := rc.Template
	if template == "" {
		template = "unmatched"
	}
	method := rc.Request.Method

	r.violationsTotal.WithLabelValues(string(rc.Violation.Provenance), method, template).Inc()
	r.exchangesTotal.WithLabelValues(method).Inc()
}

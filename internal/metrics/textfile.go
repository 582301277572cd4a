// Package metrics exports a ranking as Prometheus gauges in the
// node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theirongolddev/flowrank/internal/report"
)

const namespace = "flowrank"

// profile_id keeps series of two logins with the same account name apart.
var accountLabels = []string{"provider", "account", "profile_id", "model", "family"}

// Exporter holds the gauges for one ranking. Each Exporter owns a private
// registry, so no Go runtime or process collectors end up in the file.
type Exporter struct {
	registry *prometheus.Registry

	score       *prometheus.GaugeVec
	available   *prometheus.GaugeVec
	utilization *prometheus.GaugeVec
	familyBest  *prometheus.GaugeVec
}

// NewExporter creates an Exporter with all gauges registered.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_score",
			Help:      "Urgency score of a routing candidate.",
		}, accountLabels),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_available",
			Help:      "1 if the candidate can take traffic, 0 if blocked.",
		}, accountLabels),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_utilization_percent",
			Help:      "Utilization of the binding rate window, 0-100.",
		}, accountLabels),
		familyBest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "family_best_score",
			Help:      "Score of the recommended candidate per model family.",
		}, []string{"family"}),
	}
	e.registry.MustRegister(e.score, e.available, e.utilization, e.familyBest)
	return e
}

// Record sets the gauges from r, replacing anything recorded before.
func (e *Exporter) Record(r report.Result) {
	e.score.Reset()
	e.available.Reset()
	e.utilization.Reset()
	e.familyBest.Reset()

	for _, entry := range r.Ranked {
		labels := prometheus.Labels{
			"provider":   entry.Provider,
			"account":    entry.Account,
			"profile_id": entry.ProfileID,
			"model":      entry.Model,
			"family":     entry.Family,
		}
		e.score.With(labels).Set(entry.Score)
		e.utilization.With(labels).Set(entry.Utilization)
		if entry.Available {
			e.available.With(labels).Set(1)
		} else {
			e.available.With(labels).Set(0)
		}
	}

	for _, entry := range r.Families() {
		e.familyBest.WithLabelValues(entry.Family).Set(entry.Score)
	}
}

// Gatherer exposes the private registry.
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.registry
}

// WriteTextfile writes the recorded gauges to path atomically.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// WriteTextfile records r into a fresh Exporter and writes it to path.
func WriteTextfile(path string, r report.Result) error {
	e := NewExporter()
	e.Record(r)
	return e.WriteTextfile(path)
}

// Package metrics exports audit results in the Prometheus text format so
// that node_exporter's textfile collector can scrape them.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

const namespace = "grce_s3"

// StatusValue maps a check status onto the gauge value exported for it.
func StatusValue(st models.Status) float64 {
	switch st {
	case models.StatusPass:
		return 1
	case models.StatusWarn:
		return 0.5
	case models.StatusFail:
		return 0
	default:
		return -1
	}
}

// Recorder holds the gauges for one audit run in a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	total       prometheus.Gauge
	compliant   prometheus.Gauge
	errored     prometheus.Gauge
	timestamp   prometheus.Gauge
	checkStatus *prometheus.GaugeVec
}

// NewRecorder returns a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buckets_total",
			Help:      "Number of buckets audited.",
		}),
		compliant: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buckets_compliant",
			Help:      "Number of buckets passing every check.",
		}),
		errored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buckets_errored",
			Help:      "Number of buckets whose checks could not run.",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_timestamp_seconds",
			Help:      "Unix time the audit report was generated.",
		}),
		checkStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bucket_check_status",
			Help:      "Check outcome per bucket: 1 PASS, 0.5 WARN, 0 FAIL, -1 ERROR.",
		}, []string{"bucket", "check"}),
	}
	r.registry.MustRegister(r.total, r.compliant, r.errored, r.timestamp, r.checkStatus)
	return r
}

// Observe sets every gauge from report, replacing earlier values.
func (r *Recorder) Observe(report *models.AuditReport) {
	r.total.Set(float64(report.Summary.TotalBuckets))
	r.compliant.Set(float64(report.Summary.CompliantBuckets))
	r.errored.Set(float64(report.Summary.ErroredBuckets))
	r.timestamp.Set(float64(report.GeneratedAt.Unix()))

	r.checkStatus.Reset()
	for _, res := range report.Results {
		for _, c := range res.Checks {
			r.checkStatus.WithLabelValues(res.Bucket, c.CheckID).Set(StatusValue(c.Status))
		}
	}
}

// WriteTextfile atomically writes the current metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics file %q: %w", path, err)
	}
	return nil
}

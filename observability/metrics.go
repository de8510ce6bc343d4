package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

var (
	// PlansTotal counts planning runs by planner and outcome
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nuplan_plans_total",
			Help: "Total number of planning runs by planner and status",
		},
		[]string{"planner", "status"}, // status: success, failure
	)

	// PlanDuration tracks planning run duration in seconds
	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nuplan_plan_duration_seconds",
			Help:    "Planning run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to 26s
		},
		[]string{"planner"},
	)

	// PlannedOperationsTotal counts operations returned to callers by action
	PlannedOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nuplan_planned_operations_total",
			Help: "Total number of planned operations by action",
		},
		[]string{"action"}, // install, uninstall
	)

	// WalkedPackagesTotal counts packages fully processed by the walker
	WalkedPackagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nuplan_walked_packages_total",
			Help: "Total number of packages processed by the dependency walker",
		},
		[]string{"planner"},
	)

	// CyclesDetectedTotal counts dependency cycles, raised or pruned
	CyclesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nuplan_cycles_detected_total",
			Help: "Total number of dependency cycles detected by the walker",
		},
		[]string{"planner", "handling"}, // handling: raised, pruned
	)

	// ConflictsTotal counts planning conflicts by kind
	ConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nuplan_conflicts_total",
			Help: "Total number of planning conflicts by kind",
		},
		[]string{"kind"}, // package_conflict, downgrade, has_dependents
	)
)

// WriteMetrics writes every metric family of the default registry to w in
// the Prometheus text exposition format.
func WriteMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}

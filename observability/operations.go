package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for nuplan operations
	TracerName = "github.com/willibrandon/nuplan"
)

// Common attribute keys
const (
	AttrPackageID      = attribute.Key("nuplan.package.id")
	AttrPackageVersion = attribute.Key("nuplan.package.version")
	AttrPlanner        = attribute.Key("nuplan.planner")
	AttrPlanID         = attribute.Key("nuplan.plan.id")
	AttrFramework      = attribute.Key("nuplan.framework")
	AttrOperationCount = attribute.Key("nuplan.operation.count")
)

// StartPlanSpan starts a "plan.<planner>" span for one planning run.
func StartPlanSpan(ctx context.Context, planner, planID, packageID, packageVersion, framework string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "plan."+planner,
		trace.WithAttributes(
			AttrPlanner.String(planner),
			AttrPlanID.String(planID),
			AttrPackageID.String(packageID),
			AttrPackageVersion.String(packageVersion),
			AttrFramework.String(framework),
		),
	)
}

// RecordCycle adds a cycle event to the current span.
func RecordCycle(ctx context.Context, chain string, raised bool) {
	AddEvent(ctx, "dependency.cycle",
		attribute.String("cycle.chain", chain),
		attribute.Bool("cycle.raised", raised),
	)
}

// PlanRecorder accumulates the metrics of one planning run. It is not safe
// for concurrent use; each run owns its recorder.
type PlanRecorder struct {
	planner string
	start   time.Time
}

// NewPlanRecorder starts timing a run of planner.
func NewPlanRecorder(planner string) *PlanRecorder {
	return &PlanRecorder{planner: planner, start: time.Now()}
}

// PackageWalked counts one fully processed package.
func (r *PlanRecorder) PackageWalked() {
	WalkedPackagesTotal.WithLabelValues(r.planner).Inc()
}

// CycleDetected counts a cycle, raised or pruned.
func (r *PlanRecorder) CycleDetected(raised bool) {
	handling := "pruned"
	if raised {
		handling = "raised"
	}
	CyclesDetectedTotal.WithLabelValues(r.planner, handling).Inc()
}

// Conflict counts a conflict of the given kind.
func (r *PlanRecorder) Conflict(kind string) {
	ConflictsTotal.WithLabelValues(kind).Inc()
}

// Finish records the run outcome, its duration and the returned operations
// counted per action name.
func (r *PlanRecorder) Finish(err error, operationsByAction map[string]int) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	PlansTotal.WithLabelValues(r.planner, status).Inc()
	PlanDuration.WithLabelValues(r.planner).Observe(time.Since(r.start).Seconds())
	for action, n := range operationsByAction {
		PlannedOperationsTotal.WithLabelValues(action).Add(float64(n))
	}
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

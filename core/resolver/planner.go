package resolver

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
)

// planRun is the ambient state of one ResolveOperations call: its id,
// enriched logger, span and metrics.
type planRun struct {
	ctx      context.Context
	id       string
	logger   observability.Logger
	span     trace.Span
	recorder *observability.PlanRecorder
}

func beginPlan(ctx context.Context, planner string, pkg *core.Package, fw *frameworks.Framework, logger observability.Logger) *planRun {
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	id := uuid.NewString()
	framework := ""
	if fw != nil {
		framework = fw.String()
	}

	ctx, span := observability.StartPlanSpan(ctx, planner, id, pkg.ID, pkg.Version.String(), framework)

	return &planRun{
		ctx:      ctx,
		id:       id,
		logger:   logger.ForContext("PlanID", id).ForContext("Planner", planner),
		span:     span,
		recorder: observability.NewPlanRecorder(planner),
	}
}

// end records the outcome of the run and passes its result through.
func (r *planRun) end(ops []core.PackageOperation, err error) ([]core.PackageOperation, error) {
	counts := make(map[string]int)
	for _, op := range ops {
		counts[strings.ToLower(op.Action.String())]++
	}

	r.recorder.Finish(err, counts)
	if err == nil {
		observability.SetAttributes(r.ctx, observability.AttrOperationCount.Int(len(ops)))
		r.logger.DebugContext(r.ctx, "Planned {OperationCount} operations", len(ops))
	}
	observability.EndSpanWithError(r.span, err)

	if err != nil {
		return nil, err
	}
	return ops, nil
}

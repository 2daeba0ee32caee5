package tool

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/monitoring"
	"github.com/pagescout/pagescout/internal/types"
)

// Dispatcher resolves tool invocations by name against a Catalog, filters
// caller-supplied arguments to the declared parameter set, and contains
// per-call failures behind a stable error taxonomy.
type Dispatcher struct {
	catalog *Catalog
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewDispatcher creates a dispatcher over the given catalog. The logger and
// metrics collector are injected; pass nil to disable either.
func NewDispatcher(catalog *Catalog, log *logging.Logger, metrics *monitoring.Metrics) *Dispatcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dispatcher{
		catalog: catalog,
		log:     log,
		metrics: metrics,
	}
}

// Catalog returns the catalog the dispatcher resolves against.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// Execute resolves name, filters args to the tool's declared parameters,
// and invokes the handler.
//
// Keys in args that match no declared parameter are silently dropped: the
// upstream caller is a model and may supply a superset of fields, and
// rejecting on unexpected keys would make dispatch brittle against minor
// model drift. Values are passed through as received with no coercion, so a
// wrong-typed value still reaches the handler and may fail there.
//
// A missing name yields *UnknownToolError. A handler error (or panic)
// yields *ToolExecutionError wrapping the cause. No retry is attempted; a
// single failed invocation is terminal for the request.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (result any, err error) {
	reg, ok := d.catalog.get(name)
	if !ok {
		d.log.Warn("tool not found", zap.String("tool", name))
		return nil, &UnknownToolError{Name: name}
	}

	filtered := filterArgs(args, reg.Tool)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &ToolExecutionError{Name: name, Err: fmt.Errorf("panic: %v", r)}
		}
		if d.metrics != nil {
			d.metrics.RecordToolExecution(name, err, time.Since(start))
		}
		if err != nil {
			d.log.Error("tool execution failed",
				zap.String("tool", name),
				zap.Any("args", filtered),
				zap.Error(err))
		}
	}()

	d.log.Info("executing tool",
		zap.String("tool", name),
		zap.Any("args", filtered))

	result, callErr := reg.Handler(ctx, filtered)
	if callErr != nil {
		return nil, &ToolExecutionError{Name: name, Err: callErr}
	}

	return result, nil
}

// filterArgs keeps only the keys naming a declared parameter.
func filterArgs(args map[string]any, t types.Tool) map[string]any {
	filtered := make(map[string]any, len(args))
	for key, value := range args {
		if t.HasParameter(key) {
			filtered[key] = value
		}
	}
	return filtered
}

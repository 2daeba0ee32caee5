package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/monitoring"
	"github.com/pagescout/pagescout/internal/types"
)

func newTestDispatcher(regs []Registration) *Dispatcher {
	catalog := NewCatalog(regs, logging.NewNop())
	return NewDispatcher(catalog, logging.NewNop(), nil)
}

func TestExecuteFiltersUndeclaredArgs(t *testing.T) {
	var seen map[string]any

	d := newTestDispatcher([]Registration{
		{
			Tool: types.Tool{
				Name:       "echo",
				Parameters: []types.Parameter{{Name: "x", Type: "integer"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				seen = args
				return args["x"], nil
			},
		},
	})

	result, err := d.Execute(context.Background(), "echo", map[string]any{
		"x": 5,
		"y": 9,
	})
	require.NoError(t, err)

	// Only the declared parameter reaches the handler.
	assert.Equal(t, 5, result)
	assert.Equal(t, map[string]any{"x": 5}, seen)
}

func TestExecuteNoCoercion(t *testing.T) {
	d := newTestDispatcher([]Registration{
		{
			Tool: types.Tool{
				Name:       "typed",
				Parameters: []types.Parameter{{Name: "n", Type: "integer"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				// The string value is passed through untouched; the
				// handler decides whether it is usable.
				if _, ok := args["n"].(int); !ok {
					return nil, fmt.Errorf("n must be an integer")
				}
				return args["n"], nil
			},
		},
	})

	_, err := d.Execute(context.Background(), "typed", map[string]any{"n": "five"})
	require.Error(t, err)

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "typed", execErr.Name)
}

func TestExecuteUnknownTool(t *testing.T) {
	d := newTestDispatcher(nil)

	_, err := d.Execute(context.Background(), "missing", map[string]any{})
	require.Error(t, err)

	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Contains(t, err.Error(), "missing")
}

func TestExecuteWrapsHandlerError(t *testing.T) {
	cause := errors.New("network down")

	d := newTestDispatcher([]Registration{
		{
			Tool: types.Tool{Name: "fragile"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, cause
			},
		},
	})

	_, err := d.Execute(context.Background(), "fragile", nil)
	require.Error(t, err)

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "fragile", execErr.Name)
	assert.ErrorIs(t, err, cause)
}

func TestExecuteRecoversPanic(t *testing.T) {
	d := newTestDispatcher([]Registration{
		{
			Tool: types.Tool{Name: "boom"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				panic("handler blew up")
			},
		},
	})

	_, err := d.Execute(context.Background(), "boom", nil)
	require.Error(t, err)

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "handler blew up")
}

func TestExecuteRecordsMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics()
	catalog := NewCatalog([]Registration{
		{
			Tool: types.Tool{Name: "steady"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return "ok", nil
			},
		},
		{
			Tool: types.Tool{Name: "fragile"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, errors.New("boom")
			},
		},
	}, logging.NewNop())
	d := NewDispatcher(catalog, logging.NewNop(), metrics)

	_, err := d.Execute(context.Background(), "steady", nil)
	require.NoError(t, err)
	_, err = d.Execute(context.Background(), "steady", nil)
	require.NoError(t, err)
	_, err = d.Execute(context.Background(), "fragile", nil)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ToolExecutions.WithLabelValues("steady", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ToolExecutions.WithLabelValues("fragile", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.ToolDuration))
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"s":     "hello",
		"n":     float64(7),
		"list":  []any{"a", "b", 3},
		"typed": []string{"x", "y"},
	}

	s, ok := StringArg(args, "s")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = StringArg(args, "n")
	assert.False(t, ok)

	list, ok := StringSliceArg(args, "list")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	typed, ok := StringSliceArg(args, "typed")
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, typed)

	_, ok = StringSliceArg(args, "absent")
	assert.False(t, ok)
}

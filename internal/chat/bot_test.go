package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/tool"
	"github.com/pagescout/pagescout/internal/types"
)

// scriptedModel replays a fixed sequence of completions.
type scriptedModel struct {
	script []*Completion
	err    error
	calls  int
}

func (m *scriptedModel) Complete(ctx context.Context, messages []types.Message, tools []types.Tool) (*Completion, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.calls >= len(m.script) {
		return nil, errors.New("script exhausted")
	}
	c := m.script[m.calls]
	m.calls++
	return c, nil
}

func newEchoDispatcher(t *testing.T) *tool.Dispatcher {
	t.Helper()
	catalog := tool.NewCatalog([]tool.Registration{
		{
			Tool: types.Tool{
				Name:       "echo",
				Parameters: []types.Parameter{{Name: "x", Type: "string"}},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return args["x"], nil
			},
		},
	}, logging.NewNop())
	return tool.NewDispatcher(catalog, logging.NewNop(), nil)
}

func TestSendPlainReply(t *testing.T) {
	model := &scriptedModel{script: []*Completion{{Content: "hello there"}}}
	bot := NewBot(model, newEchoDispatcher(t), Options{}, logging.NewNop(), nil)

	reply, err := bot.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	history := bot.History()
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, types.RoleAssistant, history[1].Role)
	assert.Equal(t, "hello there", history[1].Content)
}

func TestSendToolCallTurn(t *testing.T) {
	model := &scriptedModel{script: []*Completion{
		{ToolCalls: []types.ToolCall{{
			ID:        "call-1",
			Name:      "echo",
			Arguments: map[string]any{"x": "hi"},
		}}},
		{Content: "done"},
	}}
	bot := NewBot(model, newEchoDispatcher(t), Options{}, logging.NewNop(), nil)

	reply, err := bot.Send(context.Background(), "call the echo tool")
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Equal(t, 2, model.calls)

	history := bot.History()
	require.Len(t, history, 4)

	assert.Equal(t, types.RoleUser, history[0].Role)

	assert.Equal(t, types.RoleAssistant, history[1].Role)
	require.Len(t, history[1].ToolCalls, 1)
	assert.Equal(t, "echo", history[1].ToolCalls[0].Name)

	assert.Equal(t, types.RoleTool, history[2].Role)
	assert.Equal(t, "echo", history[2].ToolName)
	assert.Equal(t, "call-1", history[2].ToolCallID)
	assert.Equal(t, `"hi"`, history[2].Content)

	assert.Equal(t, types.RoleAssistant, history[3].Role)
	assert.Equal(t, "done", history[3].Content)
}

func TestSendHonorsOnlyFirstToolCall(t *testing.T) {
	var invoked []string
	catalog := tool.NewCatalog([]tool.Registration{
		{
			Tool: types.Tool{Name: "first"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				invoked = append(invoked, "first")
				return "ok", nil
			},
		},
		{
			Tool: types.Tool{Name: "second"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				invoked = append(invoked, "second")
				return "ok", nil
			},
		},
	}, logging.NewNop())
	dispatcher := tool.NewDispatcher(catalog, logging.NewNop(), nil)

	model := &scriptedModel{script: []*Completion{
		{ToolCalls: []types.ToolCall{
			{ID: "c1", Name: "first", Arguments: map[string]any{}},
			{ID: "c2", Name: "second", Arguments: map[string]any{}},
		}},
		{Content: "done"},
	}}
	bot := NewBot(model, dispatcher, Options{}, logging.NewNop(), nil)

	_, err := bot.Send(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, invoked)
}

func TestSendModelFailureRollsBack(t *testing.T) {
	model := &scriptedModel{err: errors.New("connection refused")}
	bot := NewBot(model, newEchoDispatcher(t), Options{}, logging.NewNop(), nil)

	_, err := bot.Send(context.Background(), "hi")
	require.Error(t, err)

	// Only the user message survives the failed turn.
	history := bot.History()
	require.Len(t, history, 1)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
}

func TestSendToolFailureRollsBack(t *testing.T) {
	catalog := tool.NewCatalog([]tool.Registration{
		{
			Tool: types.Tool{Name: "fragile"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, errors.New("boom")
			},
		},
	}, logging.NewNop())
	dispatcher := tool.NewDispatcher(catalog, logging.NewNop(), nil)

	model := &scriptedModel{script: []*Completion{
		{ToolCalls: []types.ToolCall{{ID: "c1", Name: "fragile", Arguments: map[string]any{}}}},
	}}
	bot := NewBot(model, dispatcher, Options{}, logging.NewNop(), nil)

	_, err := bot.Send(context.Background(), "try it")
	require.Error(t, err)

	var execErr *tool.ToolExecutionError
	assert.ErrorAs(t, err, &execErr)

	history := bot.History()
	require.Len(t, history, 1)
	assert.Equal(t, types.RoleUser, history[0].Role)

	// A subsequent successful turn starts clean on top of the rollback.
	model.script = append(model.script, &Completion{Content: "recovered"})

	reply, err := bot.Send(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Len(t, bot.History(), 3)
}

func TestSendInjectsOutputDir(t *testing.T) {
	var seen map[string]any
	catalog := tool.NewCatalog([]tool.Registration{
		{
			Tool: types.Tool{
				Name: "save",
				Parameters: []types.Parameter{
					{Name: "output_dir", Type: "string", Default: "downloads"},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				seen = args
				return "ok", nil
			},
		},
	}, logging.NewNop())
	dispatcher := tool.NewDispatcher(catalog, logging.NewNop(), nil)

	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"omitted", map[string]any{}, "/data/out"},
		{"placeholder", map[string]any{"output_dir": "downloads"}, "/data/out"},
		{"explicit", map[string]any{"output_dir": "/elsewhere"}, "/elsewhere"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model := &scriptedModel{script: []*Completion{
				{ToolCalls: []types.ToolCall{{ID: "c1", Name: "save", Arguments: tc.args}}},
				{Content: "done"},
			}}
			bot := NewBot(model, dispatcher, Options{OutputDir: "/data/out"}, logging.NewNop(), nil)

			_, err := bot.Send(context.Background(), "save it")
			require.NoError(t, err)
			assert.Equal(t, tc.want, seen["output_dir"])
		})
	}
}

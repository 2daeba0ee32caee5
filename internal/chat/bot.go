package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/monitoring"
	"github.com/pagescout/pagescout/internal/tool"
	"github.com/pagescout/pagescout/internal/types"
)

// outputDirPlaceholder is the stale default a model tends to echo back for
// output_dir; it is replaced with the bot's configured directory.
const outputDirPlaceholder = "downloads"

// ProgressFunc receives a human-readable note before each tool execution.
type ProgressFunc func(note string)

// Bot runs the conversation loop: it owns the ordered message history,
// asks the model for the next action, and honors at most one tool call per
// user turn.
type Bot struct {
	model      Model
	dispatcher *tool.Dispatcher
	log        *logging.Logger
	metrics    *monitoring.Metrics
	outputDir  string
	progress   ProgressFunc

	history []types.Message
}

// Options configures a Bot.
type Options struct {
	// OutputDir is substituted for an omitted or placeholder output_dir
	// argument on tools that declare one.
	OutputDir string

	// Progress, when set, is called with a tool-call summary before each
	// execution.
	Progress ProgressFunc
}

// NewBot creates a conversation loop over the given model and dispatcher.
func NewBot(model Model, dispatcher *tool.Dispatcher, opts Options, log *logging.Logger, metrics *monitoring.Metrics) *Bot {
	if log == nil {
		log = logging.NewNop()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = outputDirPlaceholder
	}
	return &Bot{
		model:      model,
		dispatcher: dispatcher,
		log:        log,
		metrics:    metrics,
		outputDir:  opts.OutputDir,
		progress:   opts.Progress,
	}
}

// History returns a copy of the conversation history.
func (b *Bot) History() []types.Message {
	out := make([]types.Message, len(b.history))
	copy(out, b.history)
	return out
}

// Send runs one turn: append the user message, request a completion, honor
// at most the first requested tool call, and return the model's final text.
//
// On any model or dispatcher failure the turn aborts: the error is
// returned and history is rolled back to the pre-turn state plus the user
// message; no assistant or tool messages for the failed attempt remain.
func (b *Bot) Send(ctx context.Context, userInput string) (string, error) {
	b.log.Info("received user input", zap.String("input", userInput))
	if b.metrics != nil {
		b.metrics.Turns.Inc()
	}

	b.history = append(b.history, types.Message{Role: types.RoleUser, Content: userInput})
	baseline := len(b.history)

	reply, err := b.runTurn(ctx)
	if err != nil {
		b.history = b.history[:baseline]
		b.log.Error("turn aborted", zap.String("input", userInput), zap.Error(err))
		return "", err
	}

	b.log.Info("bot reply", zap.String("reply", reply))
	return reply, nil
}

func (b *Bot) runTurn(ctx context.Context) (string, error) {
	tools := b.dispatcher.Catalog().Definitions()

	completion, err := b.complete(ctx, tools)
	if err != nil {
		return "", err
	}

	if len(completion.ToolCalls) > 0 {
		// Only the first requested call is honored; any additional
		// simultaneous requests are ignored.
		call := completion.ToolCalls[0]

		args := b.resolveDefaults(call.Name, call.Arguments)

		if b.progress != nil {
			b.progress(fmt.Sprintf("Calling tool: %s(%s)", call.Name, formatArgs(args)))
		}

		result, err := b.dispatcher.Execute(ctx, call.Name, args)
		if err != nil {
			return "", err
		}

		content, err := sonic.MarshalString(result)
		if err != nil {
			return "", fmt.Errorf("failed to serialize result of %s: %w", call.Name, err)
		}

		b.history = append(b.history, types.Message{
			Role:      types.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: []types.ToolCall{call},
		})
		b.history = append(b.history, types.Message{
			Role:       types.RoleTool,
			Content:    content,
			ToolName:   call.Name,
			ToolCallID: call.ID,
		})

		completion, err = b.complete(ctx, tools)
		if err != nil {
			return "", err
		}
	}

	reply := completion.Content
	b.history = append(b.history, types.Message{Role: types.RoleAssistant, Content: reply})
	return reply, nil
}

func (b *Bot) complete(ctx context.Context, tools []types.Tool) (*Completion, error) {
	completion, err := b.model.Complete(ctx, b.history, tools)
	if b.metrics != nil {
		b.metrics.RecordModelRequest(err)
	}
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}
	return completion, nil
}

// resolveDefaults substitutes the configured output directory when the
// tool declares an output_dir parameter and the model omitted it or passed
// the placeholder. The dispatcher itself stays agnostic to parameter
// semantics; this is caller-side policy over Signature.
func (b *Bot) resolveDefaults(name string, args map[string]any) map[string]any {
	params, err := b.dispatcher.Catalog().Signature(name)
	if err != nil {
		// Unknown tool; let Execute surface the failure.
		return args
	}

	declaresOutputDir := false
	for _, p := range params {
		if p.Name == "output_dir" {
			declaresOutputDir = true
			break
		}
	}
	if !declaresOutputDir {
		return args
	}

	resolved := make(map[string]any, len(args)+1)
	for k, v := range args {
		resolved[k] = v
	}

	current, ok := resolved["output_dir"].(string)
	if !ok || current == "" || current == outputDirPlaceholder {
		resolved["output_dir"] = b.outputDir
	}
	return resolved
}

func formatArgs(args map[string]any) string {
	parts := make([]string, 0, len(args))
	for k, v := range args {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ", ")
}

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pagescout/pagescout/internal/types"
)

// OpenAIConfig configures the chat-completions client. The default base
// URL targets Ollama's OpenAI-compatible endpoint; any compatible server
// works.
type OpenAIConfig struct {
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OpenAIModel implements Model over the OpenAI chat completions API.
type OpenAIModel struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIModel creates a completion client.
func NewOpenAIModel(cfg OpenAIConfig) (*OpenAIModel, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIModel{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Complete requests one chat completion with the tool catalog attached and
// returns the first choice's text and tool calls.
func (m *OpenAIModel) Complete(ctx context.Context, messages []types.Message, tools []types.Tool) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: convertMessages(messages),
	}
	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	choice := resp.Choices[0].Message

	completion := &Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		args := map[string]any{}
		if raw := call.Function.Arguments; raw != "" {
			if err := sonic.UnmarshalString(raw, &args); err != nil {
				return nil, fmt.Errorf("malformed tool call arguments for %s: %w", call.Function.Name, err)
			}
		}
		completion.ToolCalls = append(completion.ToolCalls, types.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: args,
		})
	}

	return completion, nil
}

// convertMessages maps conversation history onto SDK message params.
func convertMessages(messages []types.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))

		case types.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))

		case types.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}

			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				argsJSON, err := sonic.MarshalString(call.Arguments)
				if err != nil {
					argsJSON = "{}"
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: argsJSON,
						},
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}

	return out
}

// convertTools maps tool descriptors onto function-tool params with JSON
// schema parameter objects.
func convertTools(tools []types.Tool) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))

	for _, t := range tools {
		properties := map[string]any{}
		required := []string{}
		for _, p := range t.Parameters {
			prop := map[string]any{
				"type":        p.Type,
				"description": p.Description,
			}
			if p.Type == "array" {
				prop["items"] = map[string]any{"type": "string"}
			}
			properties[p.Name] = prop
			if p.Required {
				required = append(required, p.Name)
			}
		}

		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		}))
	}

	return out
}

package llmclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/reactor-labs/reactor/pkg/projection"
)

// defaultMaxTokens bounds a single completion when the caller hasn't
// configured one explicitly; Anthropic requires a positive value.
const defaultMaxTokens = 4096

// FunctionCallingAdapter wraps the Anthropic Messages API, whose tool-calling
// shape (content blocks, not a parallel tool_calls array) differs enough from
// the chat-style providers to warrant its own adapter (spec §4.5).
type FunctionCallingAdapter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewFunctionCallingAdapter builds a FunctionCallingAdapter for the given
// model using an already-configured anthropic-sdk-go client.
func NewFunctionCallingAdapter(client anthropic.Client, model string) *FunctionCallingAdapter {
	return &FunctionCallingAdapter{client: client, model: model, maxTokens: defaultMaxTokens}
}

func (a *FunctionCallingAdapter) Call(ctx context.Context, messages []projection.Message, tools []ToolDeclaration, systemPrompt string) (Response, error) {
	anthropicMessages, err := a.convertMessages(messages)
	if err != nil {
		return Response{}, &GenericError{Err: err}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		Messages:  anthropicMessages,
		MaxTokens: a.maxTokens,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if len(tools) > 0 {
		toolParams, err := a.convertTools(tools)
		if err != nil {
			return Response{}, &GenericError{Err: err}
		}
		params.Tools = toolParams
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, &APIError{Provider: "anthropic", Err: err}
	}

	return a.convertResponse(msg)
}

func (a *FunctionCallingAdapter) convertMessages(messages []projection.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case projection.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))

		case projection.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Arguments, tc.Name))
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case projection.RoleTool:
			result = append(result, anthropic.NewUserMessage(anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))

		default:
			return nil, fmt.Errorf("unrecognized message role %q", m.Role)
		}
	}
	return result, nil
}

func (a *FunctionCallingAdapter) convertTools(tools []ToolDeclaration) ([]anthropic.ToolUnionParam, error) {
	result := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		raw, err := json.Marshal(t.ParametersSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for tool %s: %w", t.Name, err)
		}
		var schema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("convert schema for tool %s: %w", t.Name, err)
		}

		toolParam := anthropic.ToolUnionParamOfTool(schema, t.Name)
		if toolParam.OfTool == nil {
			return nil, fmt.Errorf("invalid tool schema for %s: missing tool definition", t.Name)
		}
		toolParam.OfTool.Description = anthropic.String(t.Description)
		result = append(result, toolParam)
	}
	return result, nil
}

func (a *FunctionCallingAdapter) convertResponse(msg *anthropic.Message) (Response, error) {
	out := Response{
		ModelName: string(msg.Model),
		TokenUsage: TokenUsage{
			Input:  int(msg.Usage.InputTokens),
			Output: int(msg.Usage.OutputTokens),
			Total:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}

	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.Text += variant.Text
		case anthropic.ToolUseBlock:
			var args map[string]any
			if err := json.Unmarshal(variant.Input, &args); err != nil {
				return Response{}, &ResponseError{Provider: "anthropic", Err: fmt.Errorf("decode input for tool use %s: %w", variant.ID, err)}
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: args,
			})
		}
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return Response{}, &ResponseError{Provider: "anthropic", Err: fmt.Errorf("response has neither text nor tool calls")}
	}

	return out, nil
}

package llmclient

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reactor-labs/reactor/pkg/projection"
)

// ChatAdapter wraps the OpenAI chat completions API for models that expose
// tool calling through the chat-style message/tool_calls shape (spec §4.5).
type ChatAdapter struct {
	client *openai.Client
	model  string
}

// NewChatAdapter builds a ChatAdapter for the given model name using an
// already-configured go-openai client.
func NewChatAdapter(client *openai.Client, model string) *ChatAdapter {
	return &ChatAdapter{client: client, model: model}
}

func (a *ChatAdapter) Call(ctx context.Context, messages []projection.Message, tools []ToolDeclaration, systemPrompt string) (Response, error) {
	chatMessages, err := a.convertMessages(messages, systemPrompt)
	if err != nil {
		return Response{}, &GenericError{Err: err}
	}

	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: chatMessages,
	}
	if len(tools) > 0 {
		chatTools, err := a.convertTools(tools)
		if err != nil {
			return Response{}, &GenericError{Err: err}
		}
		req.Tools = chatTools
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, &APIError{Provider: "openai", Err: err}
	}

	return a.convertResponse(resp)
}

func (a *ChatAdapter) convertMessages(messages []projection.Message, systemPrompt string) ([]openai.ChatCompletionMessage, error) {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, m := range messages {
		switch m.Role {
		case projection.RoleUser:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})

		case projection.RoleAssistant:
			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
			}
			for _, tc := range m.ToolCalls {
				args, err := json.Marshal(tc.Arguments)
				if err != nil {
					return nil, fmt.Errorf("marshal tool call arguments for %s: %w", tc.ID, err)
				}
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			result = append(result, msg)

		case projection.RoleTool:
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})

		default:
			return nil, fmt.Errorf("unrecognized message role %q", m.Role)
		}
	}
	return result, nil
}

func (a *ChatAdapter) convertTools(tools []ToolDeclaration) ([]openai.Tool, error) {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.ParametersSchema,
			},
		})
	}
	return result, nil
}

func (a *ChatAdapter) convertResponse(resp openai.ChatCompletionResponse) (Response, error) {
	if len(resp.Choices) == 0 {
		return Response{}, &ResponseError{Provider: "openai", Err: fmt.Errorf("no choices in response")}
	}
	choice := resp.Choices[0]

	out := Response{
		Text:      choice.Message.Content,
		ModelName: resp.Model,
		TokenUsage: TokenUsage{
			Input:  resp.Usage.PromptTokens,
			Output: resp.Usage.CompletionTokens,
			Total:  resp.Usage.TotalTokens,
		},
	}

	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return Response{}, &ResponseError{Provider: "openai", Err: fmt.Errorf("decode arguments for tool call %s: %w", tc.ID, err)}
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return out, nil
}

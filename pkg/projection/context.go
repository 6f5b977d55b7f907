// Package projection implements every pure, deterministic, total function
// from an event sequence to derived state the engine needs: LLM context,
// pending tool calls, the next-step decision, and session statistics. None
// of these functions perform I/O or read the wall clock — see spec §4.3 and
// property test 2 in spec §8.
package projection

import (
	"encoding/json"

	"github.com/reactor-labs/reactor/pkg/eventlog"
)

// Role mirrors the chat-style roles every LLM adapter normalizes onto.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallStub is the {id, name, arguments} shape an assistant message
// carries for each tool call it made, independent of whether it has been
// resolved yet.
type ToolCallStub struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one chronological turn of the projected LLM context.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCallStub // only set on RoleAssistant messages
	ToolCallID string         // only set on RoleTool messages
}

// LLMContext folds an event sequence into the chronological message
// sequence an LLM adapter call expects (spec §4.3.1). Events of kinds not
// named below are ignored; this makes the function forward-compatible with
// new event kinds without panicking.
func LLMContext(events []eventlog.Envelope) []Message {
	messages := make([]Message, 0, len(events))

	for _, e := range events {
		switch e.Kind {
		case eventlog.KindUserMessageAdded:
			p, err := eventlog.DecodeData[eventlog.UserMessageAddedPayload](e.Data)
			if err != nil {
				continue
			}
			messages = append(messages, Message{Role: RoleUser, Content: p.Message})

		case eventlog.KindLLMResponseReceived:
			p, err := eventlog.DecodeData[eventlog.LLMResponseReceivedPayload](e.Data)
			if err != nil {
				continue
			}
			stubs := make([]ToolCallStub, 0, len(p.ToolCalls))
			for _, tc := range p.ToolCalls {
				stubs = append(stubs, ToolCallStub{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
			}
			messages = append(messages, Message{Role: RoleAssistant, Content: p.ResponseText, ToolCalls: stubs})

		case eventlog.KindToolExecutionCompleted:
			p, err := eventlog.DecodeData[eventlog.ToolExecutionCompletedPayload](e.Data)
			if err != nil {
				continue
			}
			messages = append(messages, Message{
				Role:       RoleTool,
				Content:    serializeResult(p.Result),
				ToolCallID: e.MetadataString("tool_call_id"),
			})

		case eventlog.KindToolExecutionFailed:
			p, err := eventlog.DecodeData[eventlog.ToolExecutionFailedPayload](e.Data)
			if err != nil {
				continue
			}
			messages = append(messages, Message{
				Role:       RoleTool,
				Content:    "error: " + p.ErrorMessage,
				ToolCallID: e.MetadataString("tool_call_id"),
			})
		}
	}

	return messages
}

// serializeResult renders a tool's JSON-typed result as text for inclusion
// in an LLM-facing tool message. Strings pass through unchanged; everything
// else is JSON-encoded.
func serializeResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return ""
	}
	return string(raw)
}

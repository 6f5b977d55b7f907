package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/llmclient"
	"github.com/reactor-labs/reactor/pkg/projection"
	"github.com/reactor-labs/reactor/pkg/store"
)

// executeLLMStep implements spec §4.6.3. events is the stream's current
// history, already read by the caller; version is its current head
// position.
func (e *Engine) executeLLMStep(ctx context.Context, stream string, events []eventlog.Envelope, version int64) error {
	messages := projection.LLMContext(events)
	declarations := e.toolDeclarations()

	var resp llmclient.Response
	retries, callErr := withRetries(ctx, e.cfg.RetryConfig, isTransientLLMError, func(attempt int) error {
		var err error
		resp, err = e.adapter.Call(ctx, messages, declarations, e.cfg.SystemPrompt)
		return err
	})

	if callErr != nil {
		e.log.Warn("llm step exhausted retries", "stream", stream, "retries", retries, "error", callErr)
		e.recordLLMCall("failed")
		payload := eventlog.LLMCallFailedPayload{ErrorMessage: callErr.Error(), RetryCount: retries}
		data, err := eventlog.ToData(payload)
		if err != nil {
			return fmt.Errorf("engine: encode LLMCallFailed: %w", err)
		}
		_, appendErr := e.store.Append(ctx, stream, version, []store.NewEvent{
			{Kind: eventlog.KindLLMCallFailed, Data: data},
		})
		return appendErr
	}
	outcome := "success"
	if retries > 0 {
		outcome = "retried"
	}
	e.recordLLMCall(outcome)

	toolCalls := make([]eventlog.ToolCall, 0, len(resp.ToolCalls))
	for _, tc := range resp.ToolCalls {
		toolCalls = append(toolCalls, eventlog.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
	}

	payload, err := eventlog.NewLLMResponseReceivedPayload(
		resp.Text, toolCalls, resp.ModelName,
		eventlog.TokenUsage{Input: resp.TokenUsage.Input, Output: resp.TokenUsage.Output, Total: resp.TokenUsage.Total},
	)
	if err != nil {
		return fmt.Errorf("engine: llm adapter returned an empty response: %w", err)
	}
	data, err := eventlog.ToData(payload)
	if err != nil {
		return fmt.Errorf("engine: encode LLMResponseReceived: %w", err)
	}

	_, err = e.store.Append(ctx, stream, version, []store.NewEvent{
		{Kind: eventlog.KindLLMResponseReceived, Data: data},
	})
	return err
}

// toolDeclarations builds the adapter-facing tool list from the registry,
// returning nil (not an empty slice) when there are no tools — spec §4.6.3
// says to omit tool declarations entirely in that case.
func (e *Engine) toolDeclarations() []llmclient.ToolDeclaration {
	if e.registry == nil || e.registry.Len() == 0 {
		return nil
	}
	defs := e.registry.List()
	declarations := make([]llmclient.ToolDeclaration, 0, len(defs))
	for _, d := range defs {
		schema, err := schemaToMap(d.ParametersSchema)
		if err != nil {
			e.log.Warn("dropping tool with unencodable schema", "tool", d.Name, "error", err)
			continue
		}
		declarations = append(declarations, llmclient.ToolDeclaration{
			Name:             d.Name,
			Description:      d.Description,
			ParametersSchema: schema,
		})
	}
	return declarations
}

// isTransientLLMError classifies which llmclient error types the engine
// retries: network/auth/rate-limit failures and malformed responses (spec
// §4.6.3's "LLMAPIError/LLMResponseError"), plus the catch-all GenericError.
func isTransientLLMError(err error) bool {
	var apiErr *llmclient.APIError
	var respErr *llmclient.ResponseError
	var genErr *llmclient.GenericError
	return errors.As(err, &apiErr) || errors.As(err, &respErr) || errors.As(err, &genErr)
}

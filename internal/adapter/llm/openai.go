// Package llm adapts the OpenAI chat completions API to the ChatClient
// port. SDK-internal retries are disabled; the agent loop owns the retry
// policy, this adapter only classifies failures.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"taskpilot/internal/core/ports"
)

type OpenAIClient struct {
	client openai.Client
	model  shared.ChatModel
}

var _ ports.ChatClient = (*OpenAIClient)(nil)

func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)
	return &OpenAIClient{
		client: client,
		model:  shared.ChatModel(model),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []ports.ChatMessage, tools []ports.ToolSpec) (ports.ModelReply, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toMessageParams(messages),
		Tools:    toToolParams(tools),
	})
	if err != nil {
		return ports.ModelReply{}, classify(ctx, err)
	}
	if len(completion.Choices) == 0 {
		return ports.ModelReply{}, &ports.UpstreamError{Status: 0, Err: errors.New("completion carried no choices")}
	}

	msg := completion.Choices[0].Message
	reply := ports.ModelReply{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, ports.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return reply, nil
}

func toMessageParams(messages []ports.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			params = append(params, openai.SystemMessage(m.Content))
		case "assistant":
			if len(m.ToolCalls) == 0 {
				params = append(params, openai.AssistantMessage(m.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				assistant.Content.OfString = openai.String(m.Content)
			}
			for _, tc := range m.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					},
				})
			}
			params = append(params, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case "tool":
			params = append(params, openai.ToolMessage(m.Content, m.ToolCallID))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func toToolParams(tools []ports.ToolSpec) []openai.ChatCompletionToolUnionParam {
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		params = append(params, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  shared.FunctionParameters(t.Parameters),
		}))
	}
	return params
}

// classify folds SDK errors into the port taxonomy: API responses keep
// their status, everything else (DNS, TLS, per-request timeout) counts
// as a connection failure. When the caller's own context is done the
// error passes through untouched so a disconnected client aborts the
// turn instead of retrying it.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &ports.UpstreamError{Status: apierr.StatusCode, Err: err}
	}
	return &ports.UpstreamError{Status: 0, Err: err}
}

package agent

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/core/ports"
	"taskpilot/pkg/backoff"
)

const systemPrompt = `You are a helpful and friendly todo list assistant. Your job is to help users manage their tasks through natural language conversation.

You have access to the following tools:
- add_task: Create new tasks
- list_tasks: Show all tasks
- complete_task: Mark tasks as done
- delete_task: Remove tasks
- update_task: Modify task fields

Guidelines:
1. Be warm, encouraging, and conversational. Confirm every action with the task name.
2. When listing tasks, format them nicely with task IDs, status indicators, and titles.
3. When the user refers to a task by name, list tasks first to find the ID, then act.
4. When the user wants to complete, delete, or update a task without saying which one, show their tasks and ask for the ID.
5. If a request is unclear or nonsensical, politely ask the user to rephrase.
6. If the user asks about unrelated topics, kindly remind them you are a todo assistant.
7. Be efficient: do not ask unnecessary questions when the user already provided everything needed.

Remember: you only manage the current user's own tasks.`

// Safety cap on tool rounds per turn, in case the model keeps requesting
// tools and never settles on an answer.
const maxToolRounds = 10

// ToolInvocation records one tool call executed during a turn, in the
// order the model requested it.
type ToolInvocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	Response  string
	ToolCalls []ToolInvocation
}

// Loop drives one chat turn against the language-model API: call the
// model with the conversation and the tool catalog, execute any
// requested tools in order, feed results back, repeat until the model
// answers in plain text. Each model call is retried with exponential
// backoff on transient failures.
type Loop struct {
	client   ports.ChatClient
	router   *Router
	catalog  []ports.ToolSpec
	policy   backoff.Policy
	attempts int
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewLoop(client ports.ChatClient, router *Router, policy backoff.Policy, attempts int, logger *zap.Logger) *Loop {
	if attempts < 1 {
		attempts = 1
	}
	return &Loop{
		client:   client,
		router:   router,
		catalog:  Catalog(),
		policy:   policy,
		attempts: attempts,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Run executes one turn. History carries the persisted conversation so
// far; userMessage is the new input. The owner is whoever the router was
// built for - the model never chooses the user.
func (l *Loop) Run(ctx context.Context, history []ports.ChatMessage, userMessage string) (TurnResult, error) {
	messages := make([]ports.ChatMessage, 0, len(history)+2)
	messages = append(messages, ports.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, ports.ChatMessage{Role: "user", Content: userMessage})

	var invocations []ToolInvocation

	for round := 0; round < maxToolRounds; round++ {
		reply, err := l.completeWithRetry(ctx, messages)
		if err != nil {
			return TurnResult{}, err
		}

		if len(reply.ToolCalls) == 0 {
			return TurnResult{Response: reply.Content, ToolCalls: invocations}, nil
		}

		messages = append(messages, ports.ChatMessage{
			Role:      "assistant",
			Content:   reply.Content,
			ToolCalls: reply.ToolCalls,
		})

		// Tools run strictly in the order requested; every call gets its
		// result appended under the model's call id before the next
		// model call starts.
		for _, tc := range reply.ToolCalls {
			result := l.router.Execute(ctx, tc.Name, tc.Arguments)
			resultJSON, err := json.Marshal(result)
			if err != nil {
				resultJSON = []byte(`{"success":false,"error":"failed to encode tool result"}`)
			}
			messages = append(messages, ports.ChatMessage{
				Role:       "tool",
				Content:    string(resultJSON),
				ToolCallID: tc.ID,
			})

			invocations = append(invocations, ToolInvocation{
				Name:      tc.Name,
				Arguments: decodeArguments(tc.Arguments),
			})
			l.logger.Info("tool executed",
				zap.String("tool", tc.Name),
				zap.Bool("success", result.Success),
			)
		}
	}

	l.logger.Warn("tool round cap reached", zap.Int("rounds", maxToolRounds))
	return TurnResult{
		Response:  "I wasn't able to finish that request. Please try again.",
		ToolCalls: invocations,
	}, nil
}

// completeWithRetry wraps one model call in the retry policy: transient
// upstream failures are retried up to the attempt cap with backoff,
// anything else propagates immediately.
func (l *Loop) completeWithRetry(ctx context.Context, messages []ports.ChatMessage) (ports.ModelReply, error) {
	var lastErr error
	for attempt := 0; attempt < l.attempts; attempt++ {
		reply, err := l.client.Complete(ctx, messages, l.catalog)
		if err == nil {
			return reply, nil
		}
		if !ports.RetryableUpstream(err) {
			return ports.ModelReply{}, err
		}

		lastErr = err
		l.logger.Warn("model call failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", l.attempts),
			zap.Error(err),
		)
		if attempt < l.attempts-1 {
			if err := l.sleep(ctx, l.policy.Delay(attempt)); err != nil {
				return ports.ModelReply{}, err
			}
		}
	}
	return ports.ModelReply{}, lastErr
}

func decodeArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &args)
	}
	return args
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

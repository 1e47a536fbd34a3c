package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/llm"
	"github.com/convoguard/convoguard/pkg/logging"
	"github.com/convoguard/convoguard/pkg/retry"
)

// ModeratedClient implements interfaces.ModeratedChatModel on the OpenAI API.
// The guarded turn's content is evaluated by the managed moderation endpoint
// before any completion is requested; flagged content never reaches the model.
type ModeratedClient struct {
	Client          *openai.Client
	Model           string
	ModerationModel string
	logger          logging.Logger
	retryExecutor   *retry.Executor
}

// Option represents an option for configuring the client
type Option func(*ModeratedClient)

// WithModel sets the chat model identifier
func WithModel(model string) Option {
	return func(c *ModeratedClient) {
		c.Model = model
	}
}

// WithModerationModel sets the moderation policy model identifier
func WithModerationModel(model string) Option {
	return func(c *ModeratedClient) {
		c.ModerationModel = model
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger logging.Logger) Option {
	return func(c *ModeratedClient) {
		c.logger = logger
	}
}

// WithRetry enables transport-level retry. Moderation blocks are permanent
// and are never retried regardless of policy.
func WithRetry(opts ...retry.Option) Option {
	return func(c *ModeratedClient) {
		c.retryExecutor = retry.NewExecutor(retry.NewPolicy(opts...))
	}
}

// NewModeratedClient creates a new moderated OpenAI client
func NewModeratedClient(apiKey string, options ...Option) *ModeratedClient {
	client := &ModeratedClient{
		Client:          openai.NewClient(apiKey),
		Model:           "gpt-4o-mini",
		ModerationModel: "omni-moderation-latest",
		logger:          logging.New(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Name returns the name of the provider
func (c *ModeratedClient) Name() string {
	return "openai"
}

// Chat evaluates the guarded turn against the moderation policy, then runs a
// chat completion over the full turn sequence.
func (c *ModeratedClient) Chat(ctx context.Context, history []interfaces.Turn, guarded interfaces.GuardedTurn, options ...interfaces.ChatOption) (interfaces.Turn, error) {
	params := llm.ApplyChatOptions(options...)

	if err := c.moderate(ctx, guarded.Guard.Text); err != nil {
		return interfaces.Turn{}, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	plain := guarded.Plain()
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    plain.Role,
		Content: plain.Content,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		Stop:        params.StopSequences,
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}

	var resp openai.ChatCompletionResponse

	operation := func() error {
		c.logger.Debug(ctx, "Executing chat completion request", map[string]interface{}{
			"model":    c.Model,
			"messages": len(req.Messages),
		})

		var err error
		resp, err = c.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			c.logger.Error(ctx, "Chat completion request failed", map[string]interface{}{
				"model": c.Model,
				"error": err.Error(),
			})
			return &interfaces.TransportError{Err: err}
		}
		return nil
	}

	if err := c.execute(ctx, operation); err != nil {
		return interfaces.Turn{}, err
	}

	if len(resp.Choices) == 0 {
		return interfaces.Turn{}, &interfaces.ValidationError{Reason: "no completion choices returned"}
	}

	return interfaces.Turn{
		Role:    interfaces.RoleAssistant,
		Content: resp.Choices[0].Message.Content,
	}, nil
}

// moderate runs the guarded text through the moderation endpoint
func (c *ModeratedClient) moderate(ctx context.Context, text string) error {
	req := openai.ModerationRequest{
		Input: text,
		Model: c.ModerationModel,
	}

	var resp openai.ModerationResponse

	operation := func() error {
		var err error
		resp, err = c.Client.Moderations(ctx, req)
		if err != nil {
			c.logger.Error(ctx, "Moderation request failed", map[string]interface{}{
				"model": c.ModerationModel,
				"error": err.Error(),
			})
			return &interfaces.TransportError{Err: err}
		}
		return nil
	}

	if err := c.execute(ctx, operation); err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		return &interfaces.ValidationError{Reason: "no moderation results returned"}
	}

	result := resp.Results[0]
	if result.Flagged {
		categories := flaggedCategories(result.Categories)
		c.logger.Warn(ctx, "Content flagged by moderation policy", map[string]interface{}{
			"model":      c.ModerationModel,
			"categories": categories,
		})
		return &interfaces.ModerationError{Categories: categories}
	}

	return nil
}

func (c *ModeratedClient) execute(ctx context.Context, operation func() error) error {
	if c.retryExecutor != nil {
		return c.retryExecutor.Execute(ctx, operation)
	}
	return operation()
}

func flaggedCategories(categories openai.ResultCategories) []string {
	var flagged []string
	for name, hit := range map[string]bool{
		"hate":                   categories.Hate,
		"hate/threatening":       categories.HateThreatening,
		"harassment":             categories.Harassment,
		"harassment/threatening": categories.HarassmentThreatening,
		"self-harm":              categories.SelfHarm,
		"self-harm/intent":       categories.SelfHarmIntent,
		"self-harm/instructions": categories.SelfHarmInstructions,
		"sexual":                 categories.Sexual,
		"sexual/minors":          categories.SexualMinors,
		"violence":               categories.Violence,
		"violence/graphic":       categories.ViolenceGraphic,
	} {
		if hit {
			flagged = append(flagged, name)
		}
	}
	return flagged
}

// maxToolRounds bounds the tool-invocation loop for a single submission
const maxToolRounds = 5

// ChatWithTools runs a chat completion that may request tool invocations.
// Requested invocations are dispatched to the matching tool and the results
// fed back until the model produces a final assistant turn.
func (c *ModeratedClient) ChatWithTools(ctx context.Context, turns []interfaces.Turn, tools []interfaces.Tool, options ...interfaces.ChatOption) (interfaces.Turn, error) {
	params := llm.ApplyChatOptions(options...)

	byName := make(map[string]interfaces.Tool, len(tools))
	openaiTools := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		byName[tool.Name()] = tool
		openaiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  toolSchema(tool),
			},
		}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	for round := 0; round < maxToolRounds; round++ {
		req := openai.ChatCompletionRequest{
			Model:       c.Model,
			Messages:    messages,
			Tools:       openaiTools,
			Temperature: float32(params.Temperature),
			TopP:        float32(params.TopP),
		}

		var resp openai.ChatCompletionResponse
		operation := func() error {
			var err error
			resp, err = c.Client.CreateChatCompletion(ctx, req)
			if err != nil {
				return &interfaces.TransportError{Err: err}
			}
			return nil
		}
		if err := c.execute(ctx, operation); err != nil {
			return interfaces.Turn{}, err
		}

		if len(resp.Choices) == 0 {
			return interfaces.Turn{}, &interfaces.ValidationError{Reason: "no completion choices returned"}
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			return interfaces.Turn{Role: interfaces.RoleAssistant, Content: choice.Content}, nil
		}

		messages = append(messages, choice)
		for _, call := range choice.ToolCalls {
			tool, ok := byName[call.Function.Name]
			if !ok {
				return interfaces.Turn{}, &interfaces.ValidationError{
					Reason: fmt.Sprintf("model requested unknown tool %q", call.Function.Name),
				}
			}

			c.logger.Debug(ctx, "Executing tool invocation", map[string]interface{}{
				"tool": call.Function.Name,
			})

			result, err := tool.Execute(ctx, call.Function.Arguments)
			if err != nil {
				result = fmt.Sprintf("tool error: %v", err)
			}

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return interfaces.Turn{}, &interfaces.ValidationError{
		Reason: fmt.Sprintf("tool invocation loop did not settle after %d rounds", maxToolRounds),
	}
}

func toolSchema(tool interfaces.Tool) map[string]interface{} {
	properties := make(map[string]interface{})
	required := []string{}

	for name, param := range tool.Parameters() {
		prop := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		if param.Enum != nil {
			prop["enum"] = param.Enum
		}
		properties[name] = prop
		if param.Required {
			required = append(required, name)
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

package agent

import (
	"context"
	"fmt"

	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/logging"
)

// Agent drives a multi-turn, tool-calling conversation. Unlike the guarded
// conversation session, tool dispatch and history shaping are handled here:
// the model emits structured invocation requests, the agent resolves them
// through the registry, and every exchange is recorded in memory.
type Agent struct {
	model        interfaces.ChatModelWithTools
	memory       interfaces.Memory
	registry     interfaces.ToolRegistry
	guardrails   interfaces.Guardrails
	tracer       interfaces.Tracer
	logger       logging.Logger
	systemPrompt string
}

// Option represents an option for configuring an agent
type Option func(*Agent)

// WithModel sets the chat model for the agent
func WithModel(model interfaces.ChatModelWithTools) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithMemory sets the memory for the agent
func WithMemory(memory interfaces.Memory) Option {
	return func(a *Agent) {
		a.memory = memory
	}
}

// WithToolRegistry sets the tool registry for the agent
func WithToolRegistry(registry interfaces.ToolRegistry) Option {
	return func(a *Agent) {
		a.registry = registry
	}
}

// WithGuardrails sets the guardrails for the agent
func WithGuardrails(guardrails interfaces.Guardrails) Option {
	return func(a *Agent) {
		a.guardrails = guardrails
	}
}

// WithTracer sets the tracer for the agent
func WithTracer(tracer interfaces.Tracer) Option {
	return func(a *Agent) {
		a.tracer = tracer
	}
}

// WithLogger sets the logger for the agent
func WithLogger(logger logging.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithSystemPrompt sets the system prompt for the agent
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// NewAgent creates a new agent with the given options
func NewAgent(options ...Option) (*Agent, error) {
	agent := &Agent{
		logger: logging.New(),
	}

	for _, option := range options {
		option(agent)
	}

	if agent.model == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	return agent, nil
}

// Run processes one user input: guardrails on input, conversation history
// from memory, a tool-calling exchange with the model, guardrails on output,
// and both sides of the exchange recorded in memory.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	var span interfaces.Span
	if a.tracer != nil {
		ctx, span = a.tracer.StartSpan(ctx, "agent.Run")
		defer span.End()
	}

	if a.guardrails != nil {
		guarded, err := a.guardrails.ProcessInput(ctx, input)
		if err != nil {
			return "", fmt.Errorf("guardrails rejected input: %w", err)
		}
		input = guarded
	}

	turns := []interfaces.Turn{}
	if a.systemPrompt != "" {
		turns = append(turns, interfaces.Turn{Role: interfaces.RoleSystem, Content: a.systemPrompt})
	}

	if a.memory != nil {
		history, err := a.memory.GetTurns(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read conversation history: %w", err)
		}
		turns = append(turns, history...)
	}

	userTurn := interfaces.Turn{Role: interfaces.RoleUser, Content: input}
	turns = append(turns, userTurn)

	var tools []interfaces.Tool
	if a.registry != nil {
		tools = a.registry.List()
	}

	reply, err := a.model.ChatWithTools(ctx, turns, tools)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	response := reply.Content
	if a.guardrails != nil {
		guarded, gerr := a.guardrails.ProcessOutput(ctx, response)
		if gerr != nil {
			return "", fmt.Errorf("guardrails rejected output: %w", gerr)
		}
		response = guarded
	}

	// Memory records the exchange only after it fully succeeded, so a failed
	// run leaves no partial history behind.
	if a.memory != nil {
		if err := a.memory.AddTurn(ctx, userTurn); err != nil {
			return "", fmt.Errorf("failed to record user turn: %w", err)
		}
		if err := a.memory.AddTurn(ctx, interfaces.Turn{Role: interfaces.RoleAssistant, Content: response}); err != nil {
			return "", fmt.Errorf("failed to record assistant turn: %w", err)
		}
	}

	return response, nil
}

package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/logging"
)

var (
	// ErrEmptyInput is returned when the submitted text is empty after
	// trimming. The chat model is not contacted and the transcript is not
	// mutated; callers should prompt for input again.
	ErrEmptyInput = errors.New("input is empty")

	// ErrSessionEnded is returned by Submit after End has been called
	ErrSessionEnded = errors.New("session has ended")

	// ErrNotStarted is returned by Submit before Start has been called
	ErrNotStarted = errors.New("session has not been started")

	// ErrNoModel is returned by Submit when the session has no chat model
	ErrNoModel = errors.New("chat model is required")
)

type state int

const (
	stateNew state = iota
	stateAwaitingInput
	stateSubmitting
	stateEnded
)

// Session drives a read-submit-append loop over a transcript. One submission
// is in flight at a time; a failed submission rolls the transcript back to
// its pre-submission state and leaves the session usable.
type Session struct {
	id         string
	model      interfaces.ModeratedChatModel
	transcript *Transcript
	guardrails interfaces.Guardrails
	tracer     interfaces.Tracer
	logger     logging.Logger
	timeout    time.Duration
	chatOpts   []interfaces.ChatOption
	state      state
}

// Option represents an option for configuring a session
type Option func(*Session)

// WithGuardrails sets local guardrails applied around the managed moderation call
func WithGuardrails(guardrails interfaces.Guardrails) Option {
	return func(s *Session) {
		s.guardrails = guardrails
	}
}

// WithTracer sets the tracer for the session
func WithTracer(tracer interfaces.Tracer) Option {
	return func(s *Session) {
		s.tracer = tracer
	}
}

// WithLogger sets the logger for the session
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTimeout sets a deadline applied to each chat model call. Zero means no
// deadline beyond whatever the caller's context carries.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithChatOptions sets per-submission chat options (temperature, stop
// sequences) forwarded to the model on every Submit
func WithChatOptions(options ...interfaces.ChatOption) Option {
	return func(s *Session) {
		s.chatOpts = options
	}
}

// New creates a session bound to a moderated chat model
func New(model interfaces.ModeratedChatModel, options ...Option) *Session {
	session := &Session{
		id:     uuid.NewString(),
		model:  model,
		logger: logging.New(),
		state:  stateNew,
	}

	for _, option := range options {
		option(session)
	}

	return session
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Start initializes the transcript with a single system turn. Calling Start
// on a live session discards the existing transcript and begins a fresh one.
func (s *Session) Start(systemPrompt string) {
	s.transcript = NewTranscript(systemPrompt)
	s.state = stateAwaitingInput

	fields := map[string]interface{}{"session_id": s.id}
	if s.model != nil {
		fields["model"] = s.model.Name()
	}
	s.logger.Debug(context.Background(), "Session started", fields)
}

// Submit sends one user turn through the moderated chat model. On success the
// transcript grows by exactly two turns (user, assistant) and the assistant
// content is returned. On any model failure the just-appended user turn is
// removed so the transcript is identical to its pre-call state, and the error
// is returned; the session stays usable for the next Submit.
func (s *Session) Submit(ctx context.Context, userText string) (string, error) {
	switch s.state {
	case stateEnded:
		return "", ErrSessionEnded
	case stateNew:
		return "", ErrNotStarted
	}

	if s.model == nil {
		return "", ErrNoModel
	}

	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return "", ErrEmptyInput
	}

	s.state = stateSubmitting
	defer func() {
		if s.state == stateSubmitting {
			s.state = stateAwaitingInput
		}
	}()

	var span interfaces.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartSpan(ctx, "conversation.Submit")
		defer span.End()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.guardrails != nil {
		processed, err := s.guardrails.ProcessInput(ctx, trimmed)
		if err != nil {
			s.recordFailure(ctx, span, err)
			return "", err
		}
		trimmed = processed
	}

	userTurn := interfaces.Turn{Role: interfaces.RoleUser, Content: trimmed}
	s.transcript.Append(userTurn)

	// History stays plain; only the newest turn carries the guard envelope.
	turns := s.transcript.Turns()
	history := turns[:len(turns)-1]
	guarded := interfaces.GuardTurn(userTurn)

	reply, err := s.model.Chat(ctx, history, guarded, s.chatOpts...)
	if err != nil {
		s.transcript.RemoveLast()
		s.recordFailure(ctx, span, err)
		return "", err
	}

	content := reply.Content
	if s.guardrails != nil {
		processed, gerr := s.guardrails.ProcessOutput(ctx, content)
		if gerr != nil {
			s.transcript.RemoveLast()
			s.recordFailure(ctx, span, gerr)
			return "", gerr
		}
		content = processed
	}

	s.transcript.Append(interfaces.Turn{Role: interfaces.RoleAssistant, Content: content})

	s.logger.Debug(ctx, "Submission completed", map[string]interface{}{
		"session_id": s.id,
		"turns":      s.transcript.Len(),
	})

	return content, nil
}

// Inspect returns the current transcript verbatim without mutating it
func (s *Session) Inspect() []interfaces.Turn {
	if s.transcript == nil {
		return nil
	}
	return s.transcript.Turns()
}

// End terminates the session. Idempotent; the transcript is not persisted.
func (s *Session) End() {
	if s.state == stateEnded {
		return
	}
	s.state = stateEnded

	s.logger.Debug(context.Background(), "Session ended", map[string]interface{}{
		"session_id": s.id,
	})
}

func (s *Session) recordFailure(ctx context.Context, span interfaces.Span, err error) {
	if span != nil {
		span.RecordError(err)
	}

	if interfaces.IsModerationBlocked(err) {
		s.logger.Warn(ctx, "Submission blocked by moderation policy", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
		return
	}

	s.logger.Error(ctx, "Submission failed", map[string]interface{}{
		"session_id": s.id,
		"error":      err.Error(),
	})
}

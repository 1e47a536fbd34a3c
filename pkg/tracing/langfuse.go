package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/logging"
)

// LangfuseTracer implements interfaces.Tracer against the Langfuse API.
// Spans are buffered locally until End and then submitted as observations.
type LangfuseTracer struct {
	client      *langfuse.Langfuse
	enabled     bool
	environment string
	logger      logging.Logger
}

// LangfuseConfig contains configuration for Langfuse
type LangfuseConfig struct {
	// Enabled determines whether Langfuse tracing is enabled
	Enabled bool

	// Environment is the environment name (e.g. "production", "staging")
	Environment string
}

// NewLangfuseTracer creates a new Langfuse tracer. Credentials are read by
// the Langfuse client from its standard environment variables.
func NewLangfuseTracer(config LangfuseConfig) *LangfuseTracer {
	if !config.Enabled {
		return &LangfuseTracer{enabled: false, logger: logging.New()}
	}

	return &LangfuseTracer{
		client:      langfuse.New(context.Background()),
		enabled:     true,
		environment: config.Environment,
		logger:      logging.New(),
	}
}

// StartSpan starts a new span
func (t *LangfuseTracer) StartSpan(ctx context.Context, name string) (context.Context, interfaces.Span) {
	span := &langfuseSpan{
		tracer:   t,
		name:     name,
		start:    time.Now(),
		metadata: map[string]interface{}{"environment": t.environment},
	}
	return ctx, span
}

// Flush submits buffered observations
func (t *LangfuseTracer) Flush(ctx context.Context) {
	if !t.enabled {
		return
	}
	t.client.Flush(ctx)
}

type langfuseSpan struct {
	tracer   *LangfuseTracer
	name     string
	start    time.Time
	mu       sync.Mutex
	metadata map[string]interface{}
	err      error
}

func (s *langfuseSpan) End() {
	if !s.tracer.enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	end := time.Now()
	if s.err != nil {
		s.metadata["error"] = s.err.Error()
	}

	span := &model.Span{
		Name:      s.name,
		StartTime: &s.start,
		EndTime:   &end,
		Metadata:  s.metadata,
	}

	// Observability must not fail the conversation
	var id string
	if _, err := s.tracer.client.Span(span, &id); err != nil {
		s.tracer.logger.Debug(context.Background(), "Failed to submit span", map[string]interface{}{
			"span":  s.name,
			"error": err.Error(),
		})
	}
}

func (s *langfuseSpan) AddEvent(name string, attributes map[string]interface{}) {
	if !s.tracer.enabled {
		return
	}

	event := &model.Event{
		Name:     name,
		Metadata: attributes,
	}

	var id string
	if _, err := s.tracer.client.Event(event, &id); err != nil {
		s.tracer.logger.Debug(context.Background(), "Failed to submit event", map[string]interface{}{
			"event": name,
			"error": err.Error(),
		})
	}
}

func (s *langfuseSpan) SetAttribute(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

func (s *langfuseSpan) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.metadata["error_detail"] = fmt.Sprintf("%v", err)
}

package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/llm/openai"
)

func newTestClient(t *testing.T, handler http.Handler) (*openai.ModeratedClient, func()) {
	t.Helper()

	server := httptest.NewServer(handler)

	config := gopenai.DefaultConfig("test-key")
	config.BaseURL = server.URL
	client := openai.NewModeratedClient("test-key", openai.WithModel("gpt-4"))
	client.Client = gopenai.NewClientWithConfig(config)

	return client, server.Close
}

func moderationHandler(t *testing.T, flagged bool) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("failed to decode moderation request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		response := gopenai.ModerationResponse{
			Results: []gopenai.Result{
				{
					Flagged:    flagged,
					Categories: gopenai.ResultCategories{Violence: flagged},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Fatalf("failed to encode moderation response: %v", err)
		}
	}
}

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("failed to decode completion request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		response := gopenai.ChatCompletionResponse{
			Choices: []gopenai.ChatCompletionChoice{
				{
					Message: gopenai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Fatalf("failed to encode completion response: %v", err)
		}
	}
}

func TestChatModeratesBeforeCompleting(t *testing.T) {
	var moderationCalls, completionCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/moderations", func(w http.ResponseWriter, r *http.Request) {
		moderationCalls++
		moderationHandler(t, false)(w, r)
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		completionCalls++
		completionHandler(t, "test response")(w, r)
	})

	client, closeServer := newTestClient(t, mux)
	defer closeServer()

	history := []interfaces.Turn{
		{Role: interfaces.RoleSystem, Content: "helper"},
	}
	guarded := interfaces.GuardTurn(interfaces.Turn{Role: interfaces.RoleUser, Content: "hello"})

	reply, err := client.Chat(context.Background(), history, guarded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Role != interfaces.RoleAssistant {
		t.Errorf("expected assistant role, got %s", reply.Role)
	}
	if reply.Content != "test response" {
		t.Errorf("expected 'test response', got %q", reply.Content)
	}
	if moderationCalls != 1 {
		t.Errorf("expected 1 moderation call, got %d", moderationCalls)
	}
	if completionCalls != 1 {
		t.Errorf("expected 1 completion call, got %d", completionCalls)
	}
}

func TestChatFlaggedContentIsBlocked(t *testing.T) {
	var completionCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/moderations", moderationHandler(t, true))
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		completionCalls++
		completionHandler(t, "should not be reached")(w, r)
	})

	client, closeServer := newTestClient(t, mux)
	defer closeServer()

	guarded := interfaces.GuardTurn(interfaces.Turn{Role: interfaces.RoleUser, Content: "bad content"})

	_, err := client.Chat(context.Background(), nil, guarded)
	if err == nil {
		t.Fatal("expected moderation error")
	}

	var me *interfaces.ModerationError
	if !errors.As(err, &me) {
		t.Fatalf("expected ModerationError, got %T: %v", err, err)
	}
	if len(me.Categories) != 1 || me.Categories[0] != "violence" {
		t.Errorf("expected [violence], got %v", me.Categories)
	}

	// Flagged content must never reach the model
	if completionCalls != 0 {
		t.Errorf("expected 0 completion calls, got %d", completionCalls)
	}
}

func TestChatTransportFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moderations", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	client, closeServer := newTestClient(t, mux)
	defer closeServer()

	guarded := interfaces.GuardTurn(interfaces.Turn{Role: interfaces.RoleUser, Content: "hello"})

	_, err := client.Chat(context.Background(), nil, guarded)
	if err == nil {
		t.Fatal("expected transport error")
	}

	var te *interfaces.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moderations", moderationHandler(t, false))
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(gopenai.ChatCompletionResponse{}); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	})

	client, closeServer := newTestClient(t, mux)
	defer closeServer()

	guarded := interfaces.GuardTurn(interfaces.Turn{Role: interfaces.RoleUser, Content: "hello"})

	_, err := client.Chat(context.Background(), nil, guarded)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *interfaces.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestChatWithToolsExecutesInvocation(t *testing.T) {
	var round int

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		round++
		w.Header().Set("Content-Type", "application/json")

		var response gopenai.ChatCompletionResponse
		if round == 1 {
			response = gopenai.ChatCompletionResponse{
				Choices: []gopenai.ChatCompletionChoice{
					{
						Message: gopenai.ChatCompletionMessage{
							Role: "assistant",
							ToolCalls: []gopenai.ToolCall{
								{
									ID:   "call-1",
									Type: gopenai.ToolTypeFunction,
									Function: gopenai.FunctionCall{
										Name:      "echo",
										Arguments: `{"text":"ping"}`,
									},
								},
							},
						},
					},
				},
			}
		} else {
			response = gopenai.ChatCompletionResponse{
				Choices: []gopenai.ChatCompletionChoice{
					{
						Message: gopenai.ChatCompletionMessage{
							Role:    "assistant",
							Content: "the tool said: ping",
						},
					},
				},
			}
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	})

	client, closeServer := newTestClient(t, mux)
	defer closeServer()

	echo := &echoTool{}
	turns := []interfaces.Turn{{Role: interfaces.RoleUser, Content: "call the tool"}}

	reply, err := client.ChatWithTools(context.Background(), turns, []interfaces.Tool{echo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Content != "the tool said: ping" {
		t.Errorf("unexpected reply: %q", reply.Content)
	}
	if !echo.called {
		t.Error("expected the tool to be executed")
	}
	if round != 2 {
		t.Errorf("expected 2 completion rounds, got %d", round)
	}
}

type echoTool struct {
	called bool
}

func (e *echoTool) Name() string        { return "echo" }
func (e *echoTool) Description() string { return "echoes text back" }

func (e *echoTool) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"text": {Type: "string", Description: "text to echo", Required: true},
	}
}

func (e *echoTool) Execute(ctx context.Context, args string) (string, error) {
	e.called = true
	var params struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return "", err
	}
	return params.Text, nil
}

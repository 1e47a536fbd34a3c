package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/convoguard/convoguard/pkg/config"
	"github.com/convoguard/convoguard/pkg/conversation"
	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/llm/openai"
	"github.com/convoguard/convoguard/pkg/logging"
	"github.com/convoguard/convoguard/pkg/prompts"
	"github.com/convoguard/convoguard/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convoguard: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := logging.New(logging.WithLevel(cfg.Logging.Level))

	apiKey, err := cfg.APIKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "convoguard: %v\n", err)
		os.Exit(1)
	}

	model := openai.NewModeratedClient(apiKey,
		openai.WithModel(cfg.Provider.ChatModel),
		openai.WithModerationModel(cfg.Provider.ModerationModel),
		openai.WithLogger(logger),
	)

	options := []conversation.Option{
		conversation.WithLogger(logger),
	}
	if cfg.Session.Timeout > 0 {
		options = append(options, conversation.WithTimeout(cfg.Session.Timeout.Std()))
	}
	if cfg.Tracing.OTel.Enabled {
		tracer, err := tracing.NewOTelTracer(tracing.OTelConfig{
			Enabled:           true,
			ServiceName:       cfg.Tracing.OTel.ServiceName,
			CollectorEndpoint: cfg.Tracing.OTel.CollectorEndpoint,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "convoguard: %v\n", err)
			os.Exit(1)
		}
		options = append(options, conversation.WithTracer(tracer))
	} else if cfg.Tracing.Langfuse.Enabled {
		tracer := tracing.NewLangfuseTracer(tracing.LangfuseConfig{
			Enabled:     true,
			Environment: cfg.Tracing.Langfuse.Environment,
		})
		options = append(options, conversation.WithTracer(tracer))
	}

	systemPrompt := cfg.Session.SystemPrompt
	if len(cfg.Session.Variables) > 0 {
		rendered, err := prompts.Render(systemPrompt, cfg.Session.Variables)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convoguard: %v\n", err)
			os.Exit(1)
		}
		systemPrompt = rendered
	}

	session := conversation.New(model, options...)
	session.Start(systemPrompt)
	defer session.End()

	ctx := logging.WithSessionID(context.Background(), session.ID())

	fmt.Println("convoguard — type a message, 'history' to dump the transcript, 'quit' to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "history", "dump":
			printTranscript(session.Inspect())
			continue
		}

		reply, err := session.Submit(ctx, line)
		if err != nil {
			switch {
			case errors.Is(err, conversation.ErrEmptyInput):
				continue
			case interfaces.IsModerationBlocked(err):
				fmt.Printf("blocked: %v\n", err)
			default:
				fmt.Printf("error: %v\n", err)
			}
			continue
		}

		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "convoguard: failed to read input: %v\n", err)
		os.Exit(1)
	}
}

func printTranscript(turns []interfaces.Turn) {
	for i, turn := range turns {
		fmt.Printf("%2d [%s] %s\n", i, turn.Role, turn.Content)
	}
}

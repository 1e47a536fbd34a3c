package llm

import "github.com/convoguard/convoguard/pkg/interfaces"

// DefaultChatOptions returns the default per-submission options used when a
// caller supplies none
func DefaultChatOptions() *interfaces.ChatOptions {
	return &interfaces.ChatOptions{
		Temperature: 0.7,
		TopP:        1.0,
	}
}

// ApplyChatOptions folds caller options over the defaults
func ApplyChatOptions(options ...interfaces.ChatOption) *interfaces.ChatOptions {
	opts := DefaultChatOptions()
	for _, option := range options {
		if option != nil {
			option(opts)
		}
	}
	return opts
}

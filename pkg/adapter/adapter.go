// Package adapter dispatches a routed request to the selected provider.
// The router never calls into this package; it only names the model.
package adapter

import (
	"context"
	"fmt"
	"sort"
)

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends the request to the model and returns its reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier used in the model table.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Request is a single-turn generation call.
type Request struct {
	Model  string
	Prompt string
	// MaxTokens caps the visible reply. Zero means DefaultMaxTokens.
	MaxTokens int
	// ThinkingBudget enables extended deliberation on providers that support it.
	ThinkingBudget int
}

// DefaultMaxTokens is used when a request leaves MaxTokens unset.
const DefaultMaxTokens = 4096

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider reply.
type Response struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    *Usage `json:"usage,omitempty"`
}

// Registry maps provider names to adapters.
type Registry map[string]Adapter

// Get returns the adapter registered for provider.
func (r Registry) Get(provider string) (Adapter, error) {
	a, ok := r[provider]
	if !ok || a == nil {
		return nil, fmt.Errorf("no adapter configured for provider %q", provider)
	}
	return a, nil
}

// Names returns the registered provider names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := Registry{
		"openai":    NewMockAdapter().As("openai"),
		"anthropic": NewMockAdapter().As("anthropic"),
	}

	a, err := reg.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", a.Name())

	_, err = reg.Get("google")
	assert.ErrorContains(t, err, `"google"`)

	assert.Equal(t, []string{"anthropic", "openai"}, reg.Names())
}

func TestMockAdapterResponses(t *testing.T) {
	mock := NewMockAdapterWithResponses(map[string]string{"ping": "pong"}, "")

	resp, err := mock.Generate(context.Background(), Request{Prompt: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Content)
	assert.Equal(t, "mock-1", resp.Model)
	assert.Equal(t, "mock", resp.Provider)

	resp, err = mock.Generate(context.Background(), Request{Model: "m", Prompt: "other", ThinkingBudget: 512})
	require.NoError(t, err)
	assert.Equal(t, "mock response:\nother", resp.Content)
	assert.Equal(t, 512, mock.Requests()[1].ThinkingBudget)
}

func TestMockAdapterCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockAdapter().Generate(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestMaxTokens(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, Request{}.maxTokens())
	assert.Equal(t, 100, Request{MaxTokens: 100}.maxTokens())
}

func TestConstructorsRequireKeys(t *testing.T) {
	_, err := NewAnthropicAdapter("")
	assert.Error(t, err)
	_, err = NewOpenAIAdapter("")
	assert.Error(t, err)
	_, err = NewGoogleAdapter(context.Background(), "")
	assert.Error(t, err)
	_, err = NewDeepSeekAdapter("")
	assert.Error(t, err)
}

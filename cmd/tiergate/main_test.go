package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/router"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// run executes the root command with args and stdin, isolated from the
// user's home directory and environment.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	for _, key := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "DEEPSEEK_API_KEY",
		"TIERGATE_SIMPLE_MAX", "TIERGATE_MEDIUM_MAX", "TIERGATE_DEFAULT_PROVIDER"} {
		t.Setenv(key, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func routeJSON(t *testing.T, args ...string) router.Result {
	t.Helper()
	out, _, err := run(t, "", append([]string{"route", "--json"}, args...)...)
	require.NoError(t, err)

	var res router.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestRouteGreeting(t *testing.T) {
	res := routeJSON(t, "hi")
	assert.Equal(t, tier.Simple, res.Tier)
	assert.Equal(t, 5, res.FinalScore)
	assert.Equal(t, "anthropic", res.Provider)
	assert.Equal(t, "claude-3-5-haiku-20241022", res.SelectedModel)
	assert.True(t, res.HasOverride(router.OverrideProviderFallback))
}

func TestRouteFlagsBuildContext(t *testing.T) {
	res := routeJSON(t, "--provider", "openai", "--thinking", "hi")
	assert.Equal(t, tier.Medium, res.Tier)
	assert.Equal(t, "gpt-5.2-thinking", res.SelectedModel)
	assert.True(t, res.HasOverride(router.OverrideThinking))
	assert.False(t, res.HasOverride(router.OverrideProviderFallback))

	res = routeJSON(t, "--current-model", "claude-opus-4-20250514", "--recent", "70,80", "ok thanks")
	assert.Equal(t, tier.Complex, res.Tier)
	assert.True(t, res.HasOverride(router.OverrideCacheCoherence))

	res = routeJSON(t, "--plan-phase", "proposing", "--docs", "--enterprise", "hi")
	assert.Equal(t, 25, res.ContextAdjustment)
	assert.Equal(t, 30, res.FinalScore)
}

func TestRouteContextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.yaml")
	content := `provider: google
conversation_turn: 12
user_tier: enterprise
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	res := routeJSON(t, "--context", path, "Analyze this architecture")
	assert.Equal(t, tier.Complex, res.Tier)
	assert.Equal(t, "gemini-2.5-pro", res.SelectedModel)
	assert.Equal(t, 10, res.ContextAdjustment)
}

func TestRouteReadsStdinAndPrintsTable(t *testing.T) {
	out, _, err := run(t, "Analyze this architecture\n", "route")
	require.NoError(t, err)
	assert.Contains(t, out, "complex")
	assert.Contains(t, out, "claude-opus-4-20250514")
	assert.Contains(t, out, "provider_fallback")
}

func TestRouteRejectsUnknownPlanPhase(t *testing.T) {
	_, _, err := run(t, "", "route", "--plan-phase", "drafting", "hi")
	assert.ErrorContains(t, err, "unknown plan phase")
}

func TestAskWithMock(t *testing.T) {
	out, stderr, err := run(t, "", "ask", "--mock", "--provider", "deepseek", "hi")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Routing to deepseek/deepseek-chat")
	assert.Equal(t, "mock response:\nhi\n", out)
}

func TestAskDryRunNeedsNoKey(t *testing.T) {
	out, stderr, err := run(t, "", "ask", "--dry-run", "hi")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "claude-3-5-haiku-20241022")
}

func TestAskWithoutKeyFails(t *testing.T) {
	_, _, err := run(t, "", "ask", "hi")
	assert.ErrorContains(t, err, "no adapter configured")
}

func TestChatTracksConversation(t *testing.T) {
	script := strings.Join([]string{
		"Analyze this architecture and compare it with an event-driven design",
		"Now evaluate the trade-offs of sharding and design a migration strategy",
		"ok thanks",
		"/reset",
		"ok thanks",
		"/quit",
		"never routed",
	}, "\n")

	out, _, err := run(t, script, "chat")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[2], "[complex]"), lines[2])
	assert.Contains(t, lines[2], "cache_coherence")
	assert.Equal(t, "conversation reset", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "[simple]"), lines[4])
}

func TestChatSlashCommands(t *testing.T) {
	script := "/thinking on 2048\nhi\n/provider openai\nhi\n/thinking maybe\n/bogus\n"
	out, _, err := run(t, script, "chat", "--send", "--mock")
	require.NoError(t, err)

	assert.Contains(t, out, "thinking on (budget 2048)")
	assert.Contains(t, out, "[medium] anthropic/claude-sonnet-4-20250514")
	assert.Contains(t, out, "[medium] openai/gpt-5.2-thinking")
	assert.Contains(t, out, "mock response:\nhi")
	assert.Contains(t, out, "error: usage: /thinking on|off [budget]")
	assert.Contains(t, out, "error: unknown command /bogus")
}

func TestModels(t *testing.T) {
	out, _, err := run(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "PROVIDER")
	assert.Contains(t, out, "anthropic")
	assert.Contains(t, out, "no key (default)")
	assert.Contains(t, out, "deepseek-reasoner")
	assert.Contains(t, out, "simple <= 30 < medium <= 60 < complex")

	out, _, err = run(t, "", "models", "--aliases")
	require.NoError(t, err)
	assert.Contains(t, out, "ALIAS")
	assert.Regexp(t, `deep\s+claude-opus-4-20250514\s+anthropic`, out)
}

var exampleConfig = filepath.Join("..", "..", "configs", "routing.yaml")

func TestValidateExampleConfig(t *testing.T) {
	out, _, err := run(t, "", "validate", "--config", exampleConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "Routing config is valid.")
}

func TestExampleConfigIsNeutral(t *testing.T) {
	rc, err := config.LoadRoutingConfig(exampleConfig)
	require.NoError(t, err)
	assert.Empty(t, rc.SpaceTypeWeights)

	plain := routeJSON(t, "--config", exampleConfig, "What is the capital of France?")
	for _, space := range []string{"research", "casual"} {
		res := routeJSON(t, "--config", exampleConfig, "--space", space, "What is the capital of France?")
		assert.Zero(t, res.ContextAdjustment, space)
		assert.Equal(t, plain.FinalScore, res.FinalScore, space)
	}
}

func TestValidateReportsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	content := `thresholds:
  simple_max: 70
  medium_max: 40
models:
  openai:
    simple: gpt-unknown
    medium: thinking
    complex: math
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, stderr, err := run(t, "", "validate", "--config", path)
	assert.ErrorContains(t, err, "validation failed")
	assert.Contains(t, stderr, "gpt-unknown")
}

func TestBench(t *testing.T) {
	out, _, err := run(t, "", "bench", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "routes: 45")
	assert.Contains(t, out, "budget: 5ms")

	_, _, err = run(t, "", "bench", "-n", "0")
	assert.Error(t, err)
}

func TestPercentiles(t *testing.T) {
	var samples []time.Duration
	for i := 100; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Microsecond)
	}
	p50, p99, maxLatency := percentiles(samples)
	assert.Equal(t, 50*time.Microsecond, p50)
	assert.Equal(t, 99*time.Microsecond, p99)
	assert.Equal(t, 100*time.Microsecond, maxLatency)

	p50, _, _ = percentiles(nil)
	assert.Zero(t, p50)
}

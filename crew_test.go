package contentcal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrew_RunsStagesInOrder(t *testing.T) {
	crew, inv := NewCrewForTesting("analysis", "trends", "strategy", "posts", "```markdown\n"+acmeOutput+"\n```")

	var seen []string
	crew.observer = func(s Stage, i, n int) {
		assert.Equal(t, 5, n)
		seen = append(seen, s.Name)
	}

	out, err := crew.Execute(context.Background(), "brand name: Acme Co")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(acmeOutput), out)
	assert.Equal(t, []string{"brand_analyst", "trend_researcher", "content_strategist", "copywriter", "calendar_packager"}, seen)

	calls := inv.Calls()
	require.Len(t, calls, 5)
	for i, c := range calls {
		assert.Equal(t, Model(DefaultModel), c.Model)
		assert.Equal(t, "0.9", c.Params["temperature"])
		require.Len(t, c.Messages, 2)
		assert.Equal(t, "system", c.Messages[0].Role)
		assert.Contains(t, c.Messages[0].Text, "You are a "+crewStages[i].Role)
		assert.Equal(t, "user", c.Messages[1].Role)
		assert.Contains(t, c.Messages[1].Text, "brand name: Acme Co")
	}
}

func TestCrew_LaterStagesSeeEarlierOutput(t *testing.T) {
	crew, inv := NewCrewForTesting("ANALYSIS-OUT", "TRENDS-OUT", "STRATEGY-OUT", "POSTS-OUT", "FINAL")

	_, err := crew.Execute(context.Background(), "brief")
	require.NoError(t, err)

	calls := inv.Calls()
	require.Len(t, calls, 5)
	assert.Contains(t, calls[1].Messages[1].Text, "### brand strategy analyst\nANALYSIS-OUT")
	assert.NotContains(t, calls[0].Messages[1].Text, "ANALYSIS-OUT")

	last := calls[4].Messages[1].Text
	for _, out := range []string{"ANALYSIS-OUT", "TRENDS-OUT", "STRATEGY-OUT", "POSTS-OUT"} {
		assert.Contains(t, last, out)
	}
	assert.Contains(t, last, "### social media copywriter\nPOSTS-OUT")
	assert.Contains(t, calls[3].Messages[1].Text, "Write 30+ social media posts")
}

func TestCrew_EmptyBrief(t *testing.T) {
	crew, inv := NewCrewForTesting("x")
	_, err := crew.Execute(context.Background(), "  \n")
	assert.ErrorIs(t, err, ErrEmptyBrief)
	assert.Empty(t, inv.Calls())
}

func TestCrew_EmptyStageOutput(t *testing.T) {
	crew, _ := NewCrewForTesting("analysis", "```\n```")
	_, err := crew.Execute(context.Background(), "brief")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOutput)
	assert.Contains(t, err.Error(), `stage "trend_researcher"`)
}

func TestCrew_StageErrorNamesStage(t *testing.T) {
	boom := errors.New("connection refused")
	inv := &ScriptedInvoker{Errs: []error{boom}, Responses: []string{"ok"}}
	crew, err := NewCrew(inv, DefaultModelConfig())
	require.NoError(t, err)

	_, err = crew.Execute(context.Background(), "brief")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `stage "brand_analyst"`)
	assert.Len(t, inv.Calls(), 1)
}

func TestCrew_RetryRecoversStage(t *testing.T) {
	boom := errors.New("temporary")
	inv := &ScriptedInvoker{Errs: []error{boom, boom}, Responses: []string{"ok"}}
	crew, err := NewCrew(inv, DefaultModelConfig(), WithRetry(2, time.Millisecond))
	require.NoError(t, err)

	out, err := crew.Execute(context.Background(), "brief")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Len(t, inv.Calls(), 7)
}

func TestCrew_RetryGivesUp(t *testing.T) {
	boom := errors.New("down")
	inv := &ScriptedInvoker{Errs: []error{boom, boom, boom, boom}, Responses: []string{"ok"}}
	crew, err := NewCrew(inv, DefaultModelConfig(), WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = crew.Execute(context.Background(), "brief")
	require.Error(t, err)
	assert.Len(t, inv.Calls(), 2)
}

func TestCrew_Timeout(t *testing.T) {
	crew, err := NewCrew(slowInvoker{}, DefaultModelConfig(), WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = crew.Execute(context.Background(), "brief")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCrew_CustomPrompts(t *testing.T) {
	prompts, err := DefaultPrompts(WithTemplates(map[string]string{"persona": "P:{{role}}"}))
	require.NoError(t, err)

	inv := &ScriptedInvoker{Responses: []string{"done"}}
	crew, err := NewCrew(inv, DefaultModelConfig(), WithPrompts(prompts))
	require.NoError(t, err)

	_, err = crew.Execute(context.Background(), "brief")
	require.NoError(t, err)
	assert.Equal(t, "P:brand strategy analyst", inv.Calls()[0].Messages[0].Text)
}

func TestCrew_Run(t *testing.T) {
	crew, inv := NewCrewForTesting("done")

	_, err := crew.Run(context.Background(), Brief{})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, inv.Calls())

	out, err := crew.Run(context.Background(), validBrief())
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Contains(t, inv.Calls()[0].Messages[1].Text, "brand name: Acme Co")
}

func TestNewCrew_RequiresModel(t *testing.T) {
	_, err := NewCrew(&ScriptedInvoker{}, ModelConfig{})
	assert.ErrorIs(t, err, ErrModelMissing)
}

func TestStages_IsCopy(t *testing.T) {
	s := Stages()
	require.Len(t, s, 5)
	s[0].Name = "changed"
	assert.Equal(t, "brand_analyst", crewStages[0].Name)
}

func TestSanitizeResponse(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"  padded \n", "padded"},
		{"```\nfenced\n```", "fenced"},
		{"```markdown\nPost 1: x\n```", "Post 1: x"},
		{"```json\n{\"a\":1}\n```\n", "{\"a\":1}"},
		{"```inline```", "inline"},
		{"no closing\n```", "no closing"},
		{"```\n```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeResponse(tt.in), "%q", tt.in)
	}
}

type slowInvoker struct{}

func (slowInvoker) Generate(ctx context.Context, _ Model, _ []*Message, _ map[string]string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
		return "late", nil
	}
}

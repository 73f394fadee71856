package contentcal

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTemplates(t *testing.T) {
	provider, err := NewStickPromptProvider(WithTemplates(map[string]string{
		"test":  "Test template",
		"basic": "Basic template",
	}))
	require.NoError(t, err)

	prompt, err := provider.GetPrompt("test", 1)
	require.NoError(t, err)
	assert.Equal(t, "Test template", prompt)
}

func TestWithVar(t *testing.T) {
	provider, err := NewStickPromptProvider(
		WithTemplates(map[string]string{"test": "Test with {{customVar}}"}),
		WithVar("customVar", "custom value"),
	)
	require.NoError(t, err)

	prompt, err := provider.GetPrompt("test", 1)
	require.NoError(t, err)
	assert.Equal(t, "Test with custom value", prompt)
}

func TestWithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/greet.twig":  {Data: []byte("Hello {{name}}")},
		"tpl/notes.txt":   {Data: []byte("ignored")},
		"tpl/sub/x.twig":  {Data: []byte("nested {{tag}}")},
		"other/skip.twig": {Data: []byte("outside")},
	}

	provider, err := NewStickPromptProvider(WithFS(fsys, "tpl"))
	require.NoError(t, err)

	assert.True(t, provider.Has("greet"))
	assert.True(t, provider.Has("x"))
	assert.False(t, provider.Has("notes"))
	assert.False(t, provider.Has("skip"))

	out, err := provider.RenderPrompt("x", nil)
	require.NoError(t, err)
	assert.Equal(t, "nested x", out)
}

func TestWithFS_MissingDir(t *testing.T) {
	_, err := NewStickPromptProvider(WithFS(fstest.MapFS{}, "nope"))
	assert.Error(t, err)
}

func TestNewStickPromptProvider_Empty(t *testing.T) {
	provider, err := NewStickPromptProvider()
	require.NoError(t, err)

	_, err = provider.GetPrompt("nonexistent", 1)
	assert.ErrorContains(t, err, "not found")
}

func TestStickPromptProvider_AddTemplate(t *testing.T) {
	provider, err := NewStickPromptProvider()
	require.NoError(t, err)

	provider.AddTemplate("new", "New template for {{tag}} v{{version}}")

	prompt, err := provider.GetPrompt("new", 2)
	require.NoError(t, err)
	assert.Equal(t, "New template for new v2", prompt)
}

func TestStickPromptProvider_RenderPrompt(t *testing.T) {
	provider, err := NewStickPromptProvider(
		WithTemplates(map[string]string{
			"stage": "{{greeting}}, {{who}}{% if extra %} ({{extra}}){% endif %}",
		}),
		WithVar("greeting", "Hi"),
		WithVar("who", "default"),
	)
	require.NoError(t, err)

	out, err := provider.RenderPrompt("stage", map[string]any{"who": "crew"})
	require.NoError(t, err)
	assert.Equal(t, "Hi, crew", out)

	out, err = provider.RenderPrompt("stage", map[string]any{"extra": "note"})
	require.NoError(t, err)
	assert.Equal(t, "Hi, default (note)", out)
}

func TestStickPromptProvider_BrokenTemplate(t *testing.T) {
	provider, err := NewStickPromptProvider(WithTemplates(map[string]string{"bad": "{% if %}"}))
	require.NoError(t, err)

	_, err = provider.RenderPrompt("bad", nil)
	assert.ErrorContains(t, err, `execute "bad"`)
}

func TestDefaultPrompts_HasEveryStage(t *testing.T) {
	provider, err := DefaultPrompts()
	require.NoError(t, err)

	assert.True(t, provider.Has("brief"))
	assert.True(t, provider.Has("persona"))
	for _, s := range Stages() {
		assert.True(t, provider.Has(s.Template), s.Template)
	}
}

func TestDefaultPrompts_OverrideStage(t *testing.T) {
	provider, err := DefaultPrompts(WithTemplates(map[string]string{"analyze_brand": "custom {{brief}}"}))
	require.NoError(t, err)

	out, err := provider.RenderPrompt("analyze_brand", map[string]any{"brief": "acme"})
	require.NoError(t, err)
	assert.Equal(t, "custom acme", out)
}

func TestDefaultPrompts_WriteContentMentionsMinimum(t *testing.T) {
	provider, err := DefaultPrompts()
	require.NoError(t, err)

	out, err := provider.RenderPrompt("write_content", map[string]any{
		"min_posts": MinPosts,
		"brief":     "brand name: Acme",
		"context":   "(none)",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Write 30+ social media posts")
	assert.Contains(t, out, "brand name: Acme")
}

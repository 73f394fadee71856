package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaneiona/contentcal"
)

const sampleOutput = `**Brand Name:** Acme Co

Content Pillars:
Pillar 1: Innovation - New ideas every week
Pillar 2: Community

Post 1: LinkedIn
Title: Ship faster
Content: How our team ships every day without breaking things. #DevTools #Shipping
`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExtractCmd_JSONFromStdin(t *testing.T) {
	out, _, err := run(t, sampleOutput, "extract")
	require.NoError(t, err)

	var doc contentcal.CalendarDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Acme Co", doc.BrandName)
	assert.Len(t, doc.Posts, contentcal.MinPosts)
	assert.Equal(t, contentcal.LinkedIn, doc.Posts[0].Platform)
}

func TestExtractCmd_YAMLWithReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleOutput), 0o644))

	out, errOut, err := run(t, "", "extract", path, "--format", "yaml", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "brand_name: Acme Co")
	assert.Contains(t, errOut, "brand_name")
}

func TestExtractCmd_UnknownFormat(t *testing.T) {
	_, _, err := run(t, sampleOutput, "extract", "--format", "xml")
	assert.ErrorContains(t, err, `unsupported format "xml"`)
}

func TestRenderCmd_FromText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "out.txt")
	pdf := filepath.Join(dir, "calendar.pdf")
	require.NoError(t, os.WriteFile(src, []byte(sampleOutput), 0o644))

	out, _, err := run(t, "", "render", src, "-o", pdf)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 30 posts to "+pdf)

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderCmd_FromJSON(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	pdf := filepath.Join(dir, "calendar.pdf")

	out, _, err := run(t, sampleOutput, "extract")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(docPath, []byte(out), 0o644))

	_, _, err = run(t, "", "render", "--from-json", docPath, "-o", pdf)
	require.NoError(t, err)
	assert.FileExists(t, pdf)
}

func TestRenderCmd_FromJSONRejectsInvalidDocument(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(docPath, []byte(`{"brand_name": "Acme", "posts": []}`), 0o644))

	_, _, err := run(t, "", "render", "--from-json", docPath, "-o", filepath.Join(t.TempDir(), "x.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, contentcal.ErrInvalidDocument)
}

func TestGenerateCmd_RejectsIncompleteBrief(t *testing.T) {
	_, _, err := run(t, "", "generate", "--brand", "Acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, contentcal.ErrMissingField)
	assert.Contains(t, err.Error(), "please fill required fields: industry, target audience, content goals")
}

func TestGenerateOptions_ResolveBrief(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
brand_name: From File
industry: Coffee
target_audience: Commuters
content_goals: Sales
platforms: [instagram, facebook]
posts_per_week: 2
`), 0o644))

	o := generateOptions{briefFile: path, platforms: "linkedin"}
	o.brief.BrandName = "Flag Brand"

	b, err := o.resolveBrief()
	require.NoError(t, err)
	assert.Equal(t, "Flag Brand", b.BrandName)
	assert.Equal(t, "Coffee", b.Industry)
	assert.Equal(t, []contentcal.Platform{contentcal.LinkedIn}, b.Platforms)
	assert.Equal(t, 2, b.PostsPerWeek)
	require.NoError(t, b.Validate())
}

func TestConfigCmd(t *testing.T) {
	out, _, err := run(t, "", "config", "--model", "openai/gpt-4o-mini", "--api-key", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "provider:    openai")
	assert.Contains(t, out, "api key:     (set)")
	assert.NotContains(t, out, "secret")
}

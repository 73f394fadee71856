package contentcal

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrMissingField = errors.New("required field is empty")
	ErrInvalidField = errors.New("field value is invalid")
)

// Brand voices offered by the input form.
var BrandVoices = []string{"professional", "casual", "humorous", "inspirational", "educational", "friendly"}

const (
	defaultVoice         = "professional"
	defaultPostsPerWeek  = 3
	maxBriefPostsPerWeek = 5
)

var defaultBriefPlatforms = []Platform{TikTok, Twitter, Instagram}

// Brief is the brand information collected from the user.
type Brief struct {
	BrandName      string     `json:"brand_name" yaml:"brand_name"`
	Industry       string     `json:"industry" yaml:"industry"`
	BrandVoice     string     `json:"brand_voice" yaml:"brand_voice"`
	TargetAudience string     `json:"target_audience" yaml:"target_audience"`
	ContentGoals   string     `json:"content_goals" yaml:"content_goals"`
	Platforms      []Platform `json:"platforms" yaml:"platforms"`
	PostsPerWeek   int        `json:"posts_per_week" yaml:"posts_per_week"`
	ContentThemes  string     `json:"content_themes" yaml:"content_themes"`
	BrandValues    string     `json:"brand_values" yaml:"brand_values"`
	Competitors    string     `json:"competitors" yaml:"competitors"`
	UpcomingEvents string     `json:"upcoming_events" yaml:"upcoming_events"`
	AvoidTopics    string     `json:"avoid_topics" yaml:"avoid_topics"`
}

// ValidationError lists every problem found in a Brief.
type ValidationError struct {
	Missing []string // human-readable names of empty required fields
	Invalid []string // one message per invalid field
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "please fill required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, "; "))
	}
	return strings.Join(parts, "; ")
}

// Is matches ErrMissingField and ErrInvalidField.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return len(e.Missing) > 0
	case ErrInvalidField:
		return len(e.Invalid) > 0
	}
	return false
}

// WithDefaults returns a copy with trimmed text and defaults for voice,
// platforms and posting frequency.
func (b Brief) WithDefaults() Brief {
	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	for _, s := range []*string{&b.BrandName, &b.Industry, &b.BrandVoice, &b.TargetAudience, &b.ContentGoals,
		&b.ContentThemes, &b.BrandValues, &b.Competitors, &b.UpcomingEvents, &b.AvoidTopics} {
		trim(s)
	}
	b.BrandVoice = strings.ToLower(b.BrandVoice)
	if b.BrandVoice == "" {
		b.BrandVoice = defaultVoice
	}
	if len(b.Platforms) == 0 {
		b.Platforms = slices.Clone(defaultBriefPlatforms)
	} else {
		ps := make([]Platform, 0, len(b.Platforms))
		for _, p := range b.Platforms {
			p = Platform(strings.ToLower(strings.TrimSpace(string(p))))
			if !slices.Contains(ps, p) {
				ps = append(ps, p)
			}
		}
		b.Platforms = ps
	}
	if b.PostsPerWeek == 0 {
		b.PostsPerWeek = defaultPostsPerWeek
	}
	return b
}

// Validate reports every empty required field and every invalid value.
func (b Brief) Validate() error {
	b = b.WithDefaults()
	var verr ValidationError
	for _, f := range []struct{ name, value string }{
		{"brand name", b.BrandName},
		{"industry", b.Industry},
		{"target audience", b.TargetAudience},
		{"content goals", b.ContentGoals},
	} {
		if f.value == "" {
			verr.Missing = append(verr.Missing, f.name)
		}
	}
	if !slices.Contains(BrandVoices, b.BrandVoice) {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("brand voice %q is not one of %s", b.BrandVoice, strings.Join(BrandVoices, ", ")))
	}
	for _, p := range b.Platforms {
		if !p.Valid() {
			verr.Invalid = append(verr.Invalid, fmt.Sprintf("unknown platform %q", p))
		}
	}
	if b.PostsPerWeek < 1 || b.PostsPerWeek > maxBriefPostsPerWeek {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("posts per week %d is outside 1..%d", b.PostsPerWeek, maxBriefPostsPerWeek))
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return &verr
	}
	return nil
}

// ParsePlatforms splits a comma separated platform list.
func ParsePlatforms(s string) []Platform {
	var out []Platform
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, Platform(strings.ToLower(part)))
		}
	}
	return out
}

var builtinPrompts = sync.OnceValues(func() (*StickPromptProvider, error) { return DefaultPrompts() })

// Text renders the brief into the brand information block handed to the crew.
// Empty optional fields read "not specified" or "none".
func (b Brief) Text() (string, error) {
	prompts, err := builtinPrompts()
	if err != nil {
		return "", err
	}
	return b.render(prompts)
}

func (b Brief) render(p TemplateProvider) (string, error) {
	b = b.WithDefaults()
	names := make([]string, len(b.Platforms))
	for i, pl := range b.Platforms {
		names[i] = string(pl)
	}
	out, err := p.RenderPrompt("brief", map[string]any{
		"brand_name":      b.BrandName,
		"industry":        b.Industry,
		"brand_voice":     b.BrandVoice,
		"target_audience": b.TargetAudience,
		"content_goals":   b.ContentGoals,
		"platforms":       strings.Join(names, ", "),
		"posts_per_week":  b.PostsPerWeek,
		"content_themes":  b.ContentThemes,
		"brand_values":    b.BrandValues,
		"competitors":     b.Competitors,
		"upcoming_events": b.UpcomingEvents,
		"avoid_topics":    b.AvoidTopics,
	})
	if err != nil {
		return "", fmt.Errorf("brief: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// SuggestedFileName is the download name for a brand's calendar.
func SuggestedFileName(brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return DefaultOutputFile
	}
	return strings.ReplaceAll(brand, " ", "_") + "_content_calendar.pdf"
}

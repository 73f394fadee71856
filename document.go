package contentcal

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Platform is a social network a post is written for.
type Platform string

const (
	LinkedIn  Platform = "linkedin"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	TikTok    Platform = "tiktok"
)

// DisplayName returns the platform name as it is printed in the calendar.
func (p Platform) DisplayName() string {
	switch p {
	case LinkedIn:
		return "LinkedIn"
	case Twitter:
		return "Twitter"
	case Instagram:
		return "Instagram"
	case Facebook:
		return "Facebook"
	case TikTok:
		return "TikTok"
	}
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Stats holds the four summary counters shown on the cover page.
type Stats struct {
	TotalPosts    int `json:"total_posts" yaml:"total_posts"`
	Platforms     int `json:"platforms" yaml:"platforms"`
	PostsPerWeek  int `json:"posts_per_week" yaml:"posts_per_week"`
	ContentThemes int `json:"content_themes" yaml:"content_themes"`
}

// Pillar is a recurring theme that groups related posts.
type Pillar struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Post is a single calendar entry.
type Post struct {
	PostNumber  int      `json:"post_number" yaml:"post_number"`
	Platform    Platform `json:"platform" yaml:"platform"`
	Title       string   `json:"title" yaml:"title"`
	Content     string   `json:"content" yaml:"content"`
	Hashtags    []string `json:"hashtags" yaml:"hashtags"`
	PostingDay  string   `json:"posting_day" yaml:"posting_day"`
	PostingTime string   `json:"posting_time" yaml:"posting_time"`
	ContentType string   `json:"content_type" yaml:"content_type"`
}

// ScheduleEntry is one row of the per-platform posting cadence table.
type ScheduleEntry struct {
	Platform    string `json:"platform" yaml:"platform"`
	Frequency   string `json:"frequency" yaml:"frequency"`
	BestTimes   string `json:"best_times" yaml:"best_times"`
	ContentType string `json:"content_type" yaml:"content_type"`
}

// KpiTarget is an informational metric/target pair.
type KpiTarget struct {
	Metric string `json:"metric" yaml:"metric"`
	Target string `json:"target" yaml:"target"`
}

// CalendarDocument is the structured 30-day content calendar produced by the
// Extractor and consumed by the Renderer.
type CalendarDocument struct {
	BrandName       string          `json:"brand_name" yaml:"brand_name"`
	MonthLabel      string          `json:"month" yaml:"month"`
	Stats           Stats           `json:"stats" yaml:"stats"`
	ContentPillars  []Pillar        `json:"content_pillars" yaml:"content_pillars"`
	Posts           []Post          `json:"posts" yaml:"posts"`
	HashtagBank     []string        `json:"hashtag_bank" yaml:"hashtag_bank"`
	PostingSchedule []ScheduleEntry `json:"posting_schedule" yaml:"posting_schedule"`
	KpiTargets      []KpiTarget     `json:"kpi_targets" yaml:"kpi_targets"`
}

// Document limits.
const (
	MinPosts        = 30
	MaxPostBlocks   = 35
	MinPillars      = 4
	MaxPillars      = 6
	MinHashtagBank  = 15
	MaxHashtagBank  = 30
	MaxPostHashtags = 8
	MaxTitleRunes   = 80
	MinContentRunes = 51
	MaxContentRunes = 300
	MinKpiTargets   = 6
	MaxKpiTargets   = 8
)

// ErrInvalidDocument is wrapped by every error returned from Validate.
var ErrInvalidDocument = errors.New("invalid calendar document")

// Validate checks the structural invariants of the document. Documents built by
// the Extractor always pass; documents decoded from elsewhere may not.
func (d *CalendarDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDocument}, args...)...))
	}

	if strings.TrimSpace(d.BrandName) == "" {
		fail("brand_name is empty")
	}
	if n := len(d.Posts); n < MinPosts {
		fail("posts: have %d, need at least %d", n, MinPosts)
	}
	if d.Stats.TotalPosts != len(d.Posts) {
		fail("stats.total_posts=%d does not match %d posts", d.Stats.TotalPosts, len(d.Posts))
	}
	if n := len(d.ContentPillars); n < MinPillars || n > MaxPillars {
		fail("content_pillars: have %d, want %d..%d", n, MinPillars, MaxPillars)
	}
	if n := len(d.HashtagBank); n < MinHashtagBank || n > MaxHashtagBank {
		fail("hashtag_bank: have %d, want %d..%d", n, MinHashtagBank, MaxHashtagBank)
	}
	if n := len(d.PostingSchedule); n != len(platforms) {
		fail("posting_schedule: have %d, want %d", n, len(platforms))
	}
	if n := len(d.KpiTargets); n < MinKpiTargets || n > MaxKpiTargets {
		fail("kpi_targets: have %d, want %d..%d", n, MinKpiTargets, MaxKpiTargets)
	}
	for i, p := range d.Posts {
		if p.PostNumber != i+1 {
			fail("post %d: post_number=%d breaks the 1..N sequence", i+1, p.PostNumber)
		}
		if !p.Platform.Valid() {
			fail("post %d: unknown platform %q", i+1, p.Platform)
		}
		if len(p.Hashtags) == 0 || len(p.Hashtags) > MaxPostHashtags {
			fail("post %d: %d hashtags, want 1..%d", i+1, len(p.Hashtags), MaxPostHashtags)
		}
		if n := utf8.RuneCountInString(p.Title); n > MaxTitleRunes {
			fail("post %d: title has %d characters, max %d", i+1, n, MaxTitleRunes)
		}
		if n := utf8.RuneCountInString(p.Content); n < MinContentRunes || n > MaxContentRunes {
			fail("post %d: content has %d characters, want %d..%d", i+1, n, MinContentRunes, MaxContentRunes)
		}
	}
	return errors.Join(errs...)
}

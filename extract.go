package contentcal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Extractor turns free-form producer text into a CalendarDocument. It holds no
// mutable state after construction and is safe for concurrent use.
type Extractor struct {
	log   *slog.Logger
	clock func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) ExtractorOption {
	return func(x *Extractor) {
		if l != nil {
			x.log = l
		}
	}
}

// WithClock sets the time source for the month label.
func WithClock(clock func() time.Time) ExtractorOption {
	return func(x *Extractor) {
		if clock != nil {
			x.clock = clock
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	x := &Extractor{log: slog.Default(), clock: time.Now}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract parses text with a default Extractor.
func Extract(text string) *CalendarDocument {
	return NewExtractor().Extract(text)
}

// Extract parses text into a fully populated document. It never fails: every
// field that cannot be recovered from the text is filled from a fixed default.
func (x *Extractor) Extract(text string) *CalendarDocument {
	doc, _ := x.ExtractWithReport(text)
	return doc
}

// ExtractWithReport is Extract plus a Report describing, per rule, whether the
// value came from the text or from defaults.
func (x *Extractor) ExtractWithReport(text string) (*CalendarDocument, *Report) {
	rep := newReport(text)
	doc := &CalendarDocument{}

	doc.BrandName = x.brandName(text, rep)
	doc.MonthLabel = x.clock().Format("January 2006")
	rep.add(&RuleResult{Rule: "month_label", Outcome: OutcomeFixed, Value: doc.MonthLabel})

	doc.ContentPillars = x.pillars(text, rep)
	doc.Posts = x.posts(text, rep)
	doc.HashtagBank = x.hashtagBank(text, rep)

	doc.PostingSchedule = PostingSchedule()
	rep.add(&RuleResult{Rule: "posting_schedule", Outcome: OutcomeFixed, Used: len(doc.PostingSchedule)})
	doc.KpiTargets = KpiTargets()
	rep.add(&RuleResult{Rule: "kpi_targets", Outcome: OutcomeFixed, Used: len(doc.KpiTargets)})

	doc.Stats = Stats{
		TotalPosts:    len(doc.Posts),
		Platforms:     len(doc.PostingSchedule),
		PostsPerWeek:  postsPerWeek,
		ContentThemes: len(doc.ContentPillars),
	}
	rep.add(&RuleResult{Rule: "stats", Outcome: OutcomeFixed,
		Value: fmt.Sprintf("%d/%d/%d/%d", doc.Stats.TotalPosts, doc.Stats.Platforms, doc.Stats.PostsPerWeek, doc.Stats.ContentThemes)})

	x.log.Debug("extracted calendar",
		"brand", doc.BrandName,
		"pillars", len(doc.ContentPillars),
		"posts", len(doc.Posts),
		"hashtags", len(doc.HashtagBank),
		"defaulted", rep.Defaulted())
	return doc, rep
}

func (x *Extractor) brandName(text string, rep *Report) string {
	name, ok := extractBrandName(text)
	if !ok {
		rep.add(&RuleResult{Rule: "brand_name", Outcome: OutcomeDefaulted, Value: defaultBrandName})
		return defaultBrandName
	}
	rep.add(&RuleResult{Rule: "brand_name", Outcome: OutcomeMatched, Found: 1, Used: 1, Value: name})
	return name
}

func (x *Extractor) pillars(text string, rep *Report) []Pillar {
	found, ok := extractPillars(text)
	res := rep.add(&RuleResult{Rule: "content_pillars", Found: len(found)})
	if !ok {
		res.Outcome = OutcomeDefaulted
		res.Used = len(defaultPillars)
		return DefaultPillars()
	}

	res.Outcome = OutcomeMatched
	if len(found) < MinPillars {
		res.Outcome = OutcomePartial
		have := map[string]bool{}
		for _, p := range found {
			have[strings.ToLower(p.Title)] = true
		}
		for _, p := range defaultPillars {
			if len(found) == MinPillars {
				break
			}
			if !have[strings.ToLower(p.Title)] {
				found = append(found, p)
			}
		}
	}
	res.Used = len(found)
	return found
}

func (x *Extractor) posts(text string, rep *Report) []Post {
	blocks := splitPostBlocks(text, MaxPostBlocks)
	res := rep.add(&RuleResult{Rule: "posts", Found: len(blocks), Outcome: OutcomeMatched})

	posts := make([]Post, 0, max(len(blocks), MinPosts))
	for i, block := range blocks {
		post, fields := parsePost(i, block)
		posts = append(posts, post)
		res.Children = append(res.Children, &RuleResult{
			Rule:    fmt.Sprintf("post_%d", post.PostNumber),
			Outcome: postOutcome(fields),
			Fields:  fields,
		})
	}

	for i := len(posts); i < MinPosts; i++ {
		posts = append(posts, backfillPost(i))
	}

	switch {
	case len(blocks) == 0:
		res.Outcome = OutcomeDefaulted
	case len(blocks) < MinPosts:
		res.Outcome = OutcomePartial
	}
	res.Used = len(posts)
	x.log.Debug("post blocks parsed", "blocks", len(blocks), "backfilled", len(posts)-len(blocks))
	return posts
}

func parsePost(index int, block string) (Post, map[string]Outcome) {
	fields := map[string]Outcome{}
	slot := ScheduleFor(index)
	post := Post{
		PostNumber:  index + 1,
		PostingDay:  slot.Day,
		PostingTime: slot.Time,
		ContentType: slot.ContentType,
	}

	post.Platform, fields["platform"] = pick(extractPlatform(block))(Instagram)

	title, outcome := pick(extractTitle(block))("Engaging " + post.Platform.DisplayName() + " Post")
	post.Title, fields["title"] = truncateRunes(title, MaxTitleRunes), outcome

	body, ok := extractBody(block)
	fields["content"] = OutcomeMatched
	if !ok {
		body = truncateRunes(collapseSpace(block), 200)
		fields["content"] = OutcomeDefaulted
	}
	if utf8.RuneCountInString(body) < MinContentRunes {
		body = strings.TrimSpace(body + " " + contentFiller)
	}
	post.Content = truncateRunes(body, MaxContentRunes)

	tags, ok := extractHashtags(block, MaxPostHashtags)
	fields["hashtags"] = OutcomeMatched
	if !ok {
		tags = append([]string(nil), defaultPostHashtags...)
		fields["hashtags"] = OutcomeDefaulted
	}
	post.Hashtags = tags

	return post, fields
}

// pick adapts a (value, ok) pair into a function that applies def when ok is false.
func pick[T any](v T, ok bool) func(def T) (T, Outcome) {
	return func(def T) (T, Outcome) {
		if ok {
			return v, OutcomeMatched
		}
		return def, OutcomeDefaulted
	}
}

func postOutcome(fields map[string]Outcome) Outcome {
	matched := 0
	for _, o := range fields {
		if o == OutcomeMatched {
			matched++
		}
	}
	switch matched {
	case len(fields):
		return OutcomeMatched
	case 0:
		return OutcomeDefaulted
	default:
		return OutcomePartial
	}
}

func backfillPost(index int) Post {
	slot := ScheduleFor(index)
	platform := backfillPlatforms[index%len(backfillPlatforms)]
	return Post{
		PostNumber:  index + 1,
		Platform:    platform,
		Title:       "Engaging " + platform.DisplayName() + " Content",
		Content:     backfillContent,
		Hashtags:    append([]string(nil), backfillHashtags...),
		PostingDay:  slot.Day,
		PostingTime: slot.Time,
		ContentType: slot.ContentType,
	}
}

func (x *Extractor) hashtagBank(text string, rep *Report) []string {
	found, ok := extractHashtagBank(text)
	res := rep.add(&RuleResult{Rule: "hashtag_bank", Found: len(found)})
	if !ok {
		res.Outcome = OutcomeDefaulted
		res.Used = len(defaultHashtagBank)
		return DefaultHashtagBank()
	}

	res.Outcome = OutcomeMatched
	if len(found) < MinHashtagBank {
		res.Outcome = OutcomePartial
		have := map[string]bool{}
		for _, t := range found {
			have[strings.ToLower(t)] = true
		}
		for _, t := range defaultHashtagBank {
			if len(found) == MinHashtagBank {
				break
			}
			if !have[strings.ToLower(t)] {
				found = append(found, t)
			}
		}
	}
	res.Used = len(found)
	return found
}

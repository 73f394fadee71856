package contentcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

var (
	ErrEmptyBrief   = errors.New("brief text is empty")
	ErrEmptyOutput  = errors.New("model returned no content")
	ErrModelMissing = errors.New("model not specified")
)

// Stage is one agent of the crew: a persona plus the prompt template for its task.
type Stage struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
	Template  string // prompt tag rendered as the user message
}

var crewStages = []Stage{
	{
		Name:      "brand_analyst",
		Role:      "brand strategy analyst",
		Goal:      "analyze brand voice, target audience, and content goals",
		Backstory: "expert in brand positioning and audience research with deep understanding of social media dynamics",
		Template:  "analyze_brand",
	},
	{
		Name:      "trend_researcher",
		Role:      "social media trend researcher",
		Goal:      "identify trending topics, hashtags, and content opportunities",
		Backstory: "social media analyst specializing in viral content patterns and platform algorithms",
		Template:  "research_trends",
	},
	{
		Name:      "content_strategist",
		Role:      "content calendar strategist",
		Goal:      "create strategic content calendar with posting schedule and themes",
		Backstory: "content strategy expert with experience planning social media campaigns for brands",
		Template:  "create_strategy",
	},
	{
		Name:      "copywriter",
		Role:      "social media copywriter",
		Goal:      "write engaging posts optimized for each platform",
		Backstory: "creative copywriter specialized in viral social media content and platform-specific formats",
		Template:  "write_content",
	},
	{
		Name:      "calendar_packager",
		Role:      "content calendar compiler",
		Goal:      "compile the content calendar into a structured document with all posts and scheduling details",
		Backstory: "content operations specialist expert in organizing and presenting content calendars",
		Template:  "package_calendar",
	},
}

// Stages returns the crew stages in execution order.
func Stages() []Stage { return append([]Stage(nil), crewStages...) }

// Crew runs the five agent stages sequentially. Every stage sees the brief
// and the output of all earlier stages; the last stage's output is the result.
type Crew struct {
	invoker  Invoker
	prompts  TemplateProvider
	model    Model
	params   map[string]string
	log      *slog.Logger
	retries  int
	backoff  time.Duration
	timeout  time.Duration
	observer func(stage Stage, index, total int)
}

// CrewOption configures a Crew.
type CrewOption func(*Crew)

// WithCrewLogger sets the logger used for debug output.
func WithCrewLogger(l *slog.Logger) CrewOption {
	return func(c *Crew) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRetry retries a failed stage up to max times, backing off exponentially from backoff.
func WithRetry(max int, backoff time.Duration) CrewOption {
	return func(c *Crew) {
		c.retries = max
		c.backoff = backoff
	}
}

// WithTimeout bounds the whole crew run.
func WithTimeout(d time.Duration) CrewOption {
	return func(c *Crew) { c.timeout = d }
}

// WithStageObserver registers fn to be called before each stage starts.
func WithStageObserver(fn func(stage Stage, index, total int)) CrewOption {
	return func(c *Crew) { c.observer = fn }
}

// WithPrompts replaces the built-in prompt templates.
func WithPrompts(p TemplateProvider) CrewOption {
	return func(c *Crew) {
		if p != nil {
			c.prompts = p
		}
	}
}

// NewCrew creates a crew that sends every stage to invoker using cfg's model and parameters.
func NewCrew(invoker Invoker, cfg ModelConfig, opts ...CrewOption) (*Crew, error) {
	if cfg.Model == "" {
		return nil, ErrModelMissing
	}
	c := &Crew{
		invoker: invoker,
		model:   Model(cfg.Model),
		params:  cfg.Parameters(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prompts == nil {
		p, err := builtinPrompts()
		if err != nil {
			return nil, fmt.Errorf("load prompts: %w", err)
		}
		c.prompts = p
	}
	return c, nil
}

// Run validates b and executes the crew on its rendered text.
func (c *Crew) Run(ctx context.Context, b Brief) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	text, err := b.Text()
	if err != nil {
		return "", err
	}
	return c.Execute(ctx, text)
}

// Execute implements Producer.
func (c *Crew) Execute(ctx context.Context, brief string) (string, error) {
	if strings.TrimSpace(brief) == "" {
		return "", ErrEmptyBrief
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		earlier strings.Builder
		output  string
	)
	for i, stage := range crewStages {
		if c.observer != nil {
			c.observer(stage, i, len(crewStages))
		}
		start := time.Now()

		out, err := c.runStage(ctx, stage, brief, earlier.String())
		if err != nil {
			return "", fmt.Errorf("stage %q: %w", stage.Name, err)
		}
		c.log.Debug("stage finished", "stage", stage.Name, "output_length", len(out), "took", time.Since(start))

		fmt.Fprintf(&earlier, "### %s\n%s\n\n", stage.Role, out)
		output = out
	}
	return output, nil
}

func (c *Crew) runStage(ctx context.Context, stage Stage, brief, earlier string) (string, error) {
	system, err := c.prompts.RenderPrompt("persona", map[string]any{
		"role":      stage.Role,
		"goal":      stage.Goal,
		"backstory": stage.Backstory,
	})
	if err != nil {
		return "", err
	}
	if earlier == "" {
		earlier = "(none)"
	}
	task, err := c.prompts.RenderPrompt(stage.Template, map[string]any{
		"brief":     brief,
		"context":   strings.TrimSpace(earlier),
		"min_posts": MinPosts,
	})
	if err != nil {
		return "", err
	}
	messages := []*Message{NewSystemMessage(system), NewUserMessage(task)}

	call := func() (string, error) {
		out, err := c.invoker.Generate(ctx, c.model, messages, c.params)
		if err != nil {
			return "", err
		}
		out = SanitizeResponse(out)
		if out == "" {
			return "", ErrEmptyOutput
		}
		return out, nil
	}
	if c.retries <= 0 {
		return call()
	}

	backoff := c.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	policy := retrypolicy.NewBuilder[string]().
		WithMaxRetries(c.retries).
		WithBackoff(backoff, 8*backoff).
		HandleIf(func(_ string, err error) bool { return err != nil && ctx.Err() == nil }).
		OnRetry(func(e failsafe.ExecutionEvent[string]) {
			c.log.Debug("retrying stage", "stage", stage.Name, "attempt", e.Attempts(), "error", e.LastError())
		}).
		Build()
	return failsafe.With(policy).WithContext(ctx).Get(call)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vivaneiona/contentcal"
	"github.com/vivaneiona/contentcal/internal/tui"
)

type generateOptions struct {
	brief       contentcal.Brief
	platforms   string
	briefFile   string
	interactive bool
	saveText    string
	showReport  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var o generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the agent crew on a brand brief and write the calendar PDF",
		Example: `  contentcal generate --brand "Acme Co" --industry "Developer tools" \
      --audience "Engineers" --goals "Awareness" --platforms linkedin,twitter
  contentcal generate --interactive
  contentcal generate --brief-file brief.yaml --model googleai/gemini-2.0-flash`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.brief.BrandName, "brand", "", "brand name (required)")
	f.StringVar(&o.brief.Industry, "industry", "", "industry (required)")
	f.StringVar(&o.brief.BrandVoice, "voice", "", "brand voice: professional, casual, humorous, inspirational, educational, friendly")
	f.StringVar(&o.brief.TargetAudience, "audience", "", "target audience (required)")
	f.StringVar(&o.brief.ContentGoals, "goals", "", "content goals (required)")
	f.StringVar(&o.platforms, "platforms", "", "comma separated platforms (default tiktok,twitter,instagram)")
	f.IntVar(&o.brief.PostsPerWeek, "posts-per-week", 0, "posting frequency, 1-5 (default 3)")
	f.StringVar(&o.brief.ContentThemes, "themes", "", "content themes")
	f.StringVar(&o.brief.BrandValues, "values", "", "brand values")
	f.StringVar(&o.brief.Competitors, "competitors", "", "competitors")
	f.StringVar(&o.brief.UpcomingEvents, "events", "", "upcoming events")
	f.StringVar(&o.brief.AvoidTopics, "avoid", "", "topics to avoid")
	f.StringVar(&o.briefFile, "brief-file", "", "YAML or JSON file with the brief; flags override its fields")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "fill in the brief with an interactive form")
	f.StringVar(&o.saveText, "save-text", "", "also write the raw model output to this file")
	f.BoolVar(&o.showReport, "report", false, "print the extraction report")
	f.StringP("output", "o", "", "PDF path (default <brand>_content_calendar.pdf, env CONTENTCAL_OUTPUT)")
	return cmd
}

func (a *app) generate(ctx context.Context, stdout, stderr io.Writer, o generateOptions) error {
	brief, err := o.resolveBrief()
	if err != nil {
		return err
	}
	if o.interactive {
		brief, err = tui.Run(brief)
		if err != nil {
			return err
		}
	}
	if err := brief.Validate(); err != nil {
		return err
	}

	cfg, err := a.settings.modelConfig()
	if err != nil {
		return err
	}
	inv, err := contentcal.NewInvoker(ctx, cfg, a.log)
	if err != nil {
		return err
	}

	progress := color.New(color.FgCyan)
	crewOpts := []contentcal.CrewOption{
		contentcal.WithCrewLogger(a.log),
		contentcal.WithRetry(a.settings.Retries, time.Second),
		contentcal.WithStageObserver(func(s contentcal.Stage, i, n int) {
			progress.Fprintf(stderr, "[%d/%d] %s working...\n", i+1, n, s.Role)
		}),
	}
	if a.settings.Timeout > 0 {
		crewOpts = append(crewOpts, contentcal.WithTimeout(a.settings.Timeout))
	}
	crew, err := contentcal.NewCrew(inv, cfg, crewOpts...)
	if err != nil {
		return err
	}

	path := a.settings.Output
	if path == "" {
		path = contentcal.SuggestedFileName(brief.BrandName)
	}

	fmt.Fprintf(stderr, "Generating content calendar for %s with %s\n", color.New(color.Bold).Sprint(brief.BrandName), cfg.String())
	gen := contentcal.NewGenerator(crew,
		contentcal.WithGeneratorLogger(a.log),
		contentcal.WithRenderer(contentcal.NewRenderer(
			contentcal.WithFooterText(brief.BrandName+" Content Calendar"),
			contentcal.WithRenderLogger(a.log),
		)),
	)
	res, err := gen.Generate(ctx, brief, path)
	if res != nil && o.saveText != "" {
		if werr := os.WriteFile(o.saveText, []byte(res.RawText), 0o644); werr != nil {
			a.log.Warn("could not save model output", "path", o.saveText, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	if o.showReport {
		out, err := res.Report.Format(contentcal.FormatText)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
	}
	printSummary(stdout, res)
	return nil
}

func (o generateOptions) resolveBrief() (contentcal.Brief, error) {
	var b contentcal.Brief
	if o.briefFile != "" {
		data, err := os.ReadFile(o.briefFile)
		if err != nil {
			return b, fmt.Errorf("read brief: %w", err)
		}
		// yaml.v3 also accepts JSON documents
		if err := yaml.Unmarshal(data, &b); err != nil {
			return b, fmt.Errorf("parse brief %s: %w", o.briefFile, err)
		}
	}
	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&b.BrandName, o.brief.BrandName)
	overlay(&b.Industry, o.brief.Industry)
	overlay(&b.BrandVoice, o.brief.BrandVoice)
	overlay(&b.TargetAudience, o.brief.TargetAudience)
	overlay(&b.ContentGoals, o.brief.ContentGoals)
	overlay(&b.ContentThemes, o.brief.ContentThemes)
	overlay(&b.BrandValues, o.brief.BrandValues)
	overlay(&b.Competitors, o.brief.Competitors)
	overlay(&b.UpcomingEvents, o.brief.UpcomingEvents)
	overlay(&b.AvoidTopics, o.brief.AvoidTopics)
	if o.platforms != "" {
		b.Platforms = contentcal.ParsePlatforms(o.platforms)
	}
	if o.brief.PostsPerWeek != 0 {
		b.PostsPerWeek = o.brief.PostsPerWeek
	}
	return b, nil
}

func printSummary(w io.Writer, res *contentcal.Result) {
	ok := color.New(color.FgGreen, color.Bold)
	abs, err := filepath.Abs(res.Path)
	if err != nil {
		abs = res.Path
	}
	ok.Fprint(w, "✓ ")
	fmt.Fprintf(w, "Content calendar written to %s\n", abs)
	fmt.Fprintf(w, "  %d posts, %d content pillars, %d hashtags in the bank\n",
		len(res.Document.Posts), len(res.Document.ContentPillars), len(res.Document.HashtagBank))
	if d := res.Report.Defaulted(); len(d) > 0 {
		color.New(color.FgYellow).Fprintf(w, "  filled with defaults: %v\n", d)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Next steps:"))
	for _, step := range nextSteps {
		fmt.Fprintf(w, "  • %s\n", step)
	}
}

var nextSteps = []string{
	"Review and customize the posts for your brand voice",
	"Schedule posts in your social media management tool",
	"Prepare the visual assets for each post",
	"Track engagement against the KPI targets",
	"Adjust the strategy based on performance data",
}

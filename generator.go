package contentcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNilProducer is returned by Generate when no Producer is configured.
var ErrNilProducer = errors.New("producer is nil")

// Generator runs the whole pipeline: brief, producer, extraction and PDF.
type Generator struct {
	producer    Producer
	extractor   *Extractor
	renderer    *Renderer
	log         *slog.Logger
	concurrency int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithExtractor replaces the default Extractor.
func WithExtractor(x *Extractor) GeneratorOption {
	return func(g *Generator) {
		if x != nil {
			g.extractor = x
		}
	}
}

// WithRenderer replaces the default Renderer.
func WithRenderer(r *Renderer) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.renderer = r
		}
	}
}

// WithGeneratorLogger sets the pipeline logger.
func WithGeneratorLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithConcurrency bounds how many briefs GenerateBatch runs at once.
// Zero means one per CPU.
func WithConcurrency(n int) GeneratorOption {
	return func(g *Generator) { g.concurrency = n }
}

// NewGenerator creates a Generator that gets calendar text from p.
func NewGenerator(p Producer, opts ...GeneratorOption) *Generator {
	g := &Generator{producer: p, log: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	if g.extractor == nil {
		g.extractor = NewExtractor(WithLogger(g.log))
	}
	if g.renderer == nil {
		g.renderer = NewRenderer(WithRenderLogger(g.log))
	}
	return g
}

// Result is everything one pipeline run produced.
type Result struct {
	Brief    Brief
	RawText  string
	Document *CalendarDocument
	Report   *Report
	Path     string // empty when no PDF was written
}

// Generate validates b, asks the producer for calendar text, extracts the
// document and, when path is not empty, renders it to path.
func (g *Generator) Generate(ctx context.Context, b Brief, path string) (*Result, error) {
	if g.producer == nil {
		return nil, ErrNilProducer
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b = b.WithDefaults()
	text, err := b.Text()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := g.producer.Execute(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("produce calendar for %q: %w", b.BrandName, err)
	}
	g.log.Debug("calendar text produced", "brand", b.BrandName, "length", len(raw), "took", time.Since(start))

	doc, rep := g.extractor.ExtractWithReport(raw)
	if defaulted := rep.Defaulted(); len(defaulted) > 0 {
		g.log.Info("extraction fell back to defaults", "brand", b.BrandName, "rules", defaulted)
	}

	res := &Result{Brief: b, RawText: raw, Document: doc, Report: rep}
	if path == "" {
		return res, nil
	}
	if err := g.renderer.RenderFile(path, doc); err != nil {
		return res, err
	}
	res.Path = path
	g.log.Info("calendar written", "brand", b.BrandName, "path", path, "posts", len(doc.Posts))
	return res, nil
}

// Job is one brief of a batch and where its PDF goes.
type Job struct {
	Brief Brief
	Path  string
}

// GenerateBatch runs Generate for every job concurrently. Results keep the
// order of jobs. Jobs that have not started when one fails are skipped.
func (g *Generator) GenerateBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	runner := DefaultRunner(ctx)
	if g.concurrency > 0 {
		runner = NewLimitedRunner(ctx, g.concurrency)
	}

	results := make([]*Result, len(jobs))
	for i, job := range jobs {
		runner.Go(func() error {
			res, err := g.Generate(ctx, job.Brief, job.Path)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Brief.BrandName, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := runner.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

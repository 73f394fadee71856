// Package contentcal turns the free-form output of a language model into a
// structured monthly social media content calendar and renders it as a
// branded, paginated PDF.
//
// # Problem Statement
//
// Models asked for "a content calendar" answer with loosely formatted
// markdown: headings come and go, posts are numbered "Post 1:" or "#1 -",
// hashtags are scattered through captions. Downstream tools need a document
// with a fixed shape: a brand name, four to six content pillars, at least
// thirty posts, a hashtag bank and a posting schedule.
//
// The package solves this in three steps:
//
//   - Production: a Crew of five prompted model stages writes the calendar text
//   - Extraction: an Extractor reads that text with tolerant pattern rules and
//     fills every gap with deterministic defaults
//   - Rendering: a Renderer lays the CalendarDocument out as a PDF
//
// # Basic Usage
//
// Extraction and rendering need no model at all:
//
//	doc := contentcal.Extract(modelOutput)
//	r := contentcal.NewRenderer(contentcal.WithFooterText(doc.BrandName))
//	if err := r.RenderFile("Acme_content_calendar.pdf", doc); err != nil {
//	    return err
//	}
//
// ExtractWithReport also returns a Report describing which rules matched and
// which fell back to defaults:
//
//	doc, rep := contentcal.NewExtractor().ExtractWithReport(modelOutput)
//	out, _ := rep.Format(contentcal.FormatText)
//	fmt.Println(out)
//
// # Generating From a Brief
//
// A Brief holds the brand information. The Generator validates it, runs the
// crew, extracts the document and writes the PDF:
//
//	cfg, _ := contentcal.ParseModelSpec("ollama/llama3.2:3b?temperature=0.9")
//	inv, _ := contentcal.NewInvoker(ctx, cfg, slog.Default())
//	crew, _ := contentcal.NewCrew(inv, cfg, contentcal.WithRetry(2, time.Second))
//
//	g := contentcal.NewGenerator(crew)
//	res, err := g.Generate(ctx, brief, contentcal.SuggestedFileName(brief.BrandName))
//
// # Model Specs
//
// Models are selected with "provider/model?key=value" strings:
//
//   - "llama3.2:3b" uses the default provider (local Ollama)
//   - "openai/gpt-4o-mini?maxTokens=4096" uses the OpenAI chat completions API
//   - "googleai/gemini-2.0-flash?topP=0.9" uses the Gemini API through genai
//   - "vertex/gemini-1.5-pro" uses Vertex AI through genai
//
// # Prompts
//
// Stage prompts are Stick (Twig) templates embedded in the package. Replace
// any of them with WithPrompts and DefaultPrompts(WithTemplates(...)).
//
// # Guarantees
//
// Extraction never fails. For the same input text and clock it returns the
// same document, and rendering the same document produces the same bytes.
package contentcal

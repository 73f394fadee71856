package contentcal

import (
	"fmt"
	"unicode/utf8"
)

// Outcome describes how a rule produced its value.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"   // taken from the input text
	OutcomePartial   Outcome = "partial"   // some items from the text, topped up with defaults
	OutcomeDefaulted Outcome = "defaulted" // nothing usable found, default applied
	OutcomeFixed     Outcome = "fixed"     // catalog value, never extracted
)

// RuleResult records what one extraction rule did.
type RuleResult struct {
	Rule     string             `json:"rule"`
	Outcome  Outcome            `json:"outcome"`
	Found    int                `json:"found"`            // items recovered from the text
	Used     int                `json:"used"`             // items in the final document
	Value    string             `json:"value,omitempty"`  // scalar rules only
	Fields   map[string]Outcome `json:"fields,omitempty"` // per-field outcomes for a post
	Children []*RuleResult      `json:"children,omitempty"`
}

// FormatType selects the output format of Report.Format.
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
)

// Report explains, rule by rule, which parts of a CalendarDocument came from
// the input text and which were filled from defaults.
// Warning: Rules is exported for inspection; do not modify it after extraction.
type Report struct {
	InputRunes int           `json:"inputRunes"`
	Rules      []*RuleResult `json:"rules"`
}

func newReport(text string) *Report {
	return &Report{InputRunes: utf8.RuneCountInString(text)}
}

func (r *Report) add(res *RuleResult) *RuleResult {
	r.Rules = append(r.Rules, res)
	return res
}

// Rule returns the result for the named rule, or nil.
func (r *Report) Rule(name string) *RuleResult {
	for _, res := range r.Rules {
		if res.Rule == name {
			return res
		}
	}
	return nil
}

// Defaulted lists the rules that fell back to their default entirely.
func (r *Report) Defaulted() []string {
	var out []string
	for _, res := range r.Rules {
		if res.Outcome == OutcomeDefaulted {
			out = append(out, res.Rule)
		}
	}
	return out
}

// Format renders the report as text (an ASCII tree) or JSON.
func (r *Report) Format(format FormatType) (string, error) {
	switch format {
	case FormatText, "":
		return r.formatAsText(), nil
	case FormatJSON:
		return r.formatAsJSON()
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
}

package contentcal

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The patterns below are heuristics over free text produced by a generative
// pipeline. Only the fallback guarantees are contractual.
var (
	brandPattern = regexp.MustCompile(`(?im)brand[ \t]+name[ \t]*:?[ \t]*(.+)$`)

	pillarSectionStart = regexp.MustCompile(`(?i)content\s+pillars?[^:\n]*:?`)
	pillarSectionEnd   = regexp.MustCompile(`(?i)posts?\s*:|social\s+media`)
	pillarEntry        = regexp.MustCompile(`(?im)(?:pillar|theme)\s*\d*\s*[:\-]\s*(.+)$`)
	inlineDescription  = regexp.MustCompile(`(?i)\bdescription\s*[:\-]?\s*`)
	nextLineDesc       = regexp.MustCompile(`(?i)^\s*[-*]*\s*description\s*[:\-]\s*(.+)`)

	postMarker    = regexp.MustCompile(`(?i)(?:\bpost|#)\s*(\d+)[:\-\s]+`)
	postTerminal  = regexp.MustCompile(`(?i)hashtag\s+bank|posting\s+schedule|kpi`)
	platformName  = regexp.MustCompile(`(?i)linkedin|twitter|instagram|facebook|tiktok`)
	titlePattern  = regexp.MustCompile(`(?i)title\s*[:\-]\s*(.+?)(?:\n|content|$)`)
	bodyPattern   = regexp.MustCompile(`(?is)(?:content|caption|\bpost)\s*[:\-]\s*(.+?)(?:\n\s*\n|hashtag|#|$)`)
	hashtagToken  = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	bankStart     = regexp.MustCompile(`(?i)hashtag\s+bank[^:\n]*:?`)
	bankEnd       = regexp.MustCompile(`(?i)posting\s+schedule|kpi`)
	spaceSequence = regexp.MustCompile(`\s+`)
)

// extractBrandName finds a "brand name: <value>" line.
func extractBrandName(text string) (string, bool) {
	m := brandPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := cleanValue(m[1])
	return name, name != ""
}

// sectionBetween returns the text after the first start match up to the first
// end match that follows it, or to the end of text.
func sectionBetween(text string, start, end *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if stop := end.FindStringIndex(rest); stop != nil {
		rest = rest[:stop[0]]
	}
	return rest, true
}

// extractPillars reads labeled pillar/theme entries from the content pillars section.
func extractPillars(text string) ([]Pillar, bool) {
	section, ok := sectionBetween(text, pillarSectionStart, pillarSectionEnd)
	if !ok {
		return nil, false
	}

	var out []Pillar
	seen := map[string]bool{}
	for _, loc := range pillarEntry.FindAllStringSubmatchIndex(section, -1) {
		if len(out) == MaxPillars {
			break
		}
		line := section[loc[2]:loc[3]]
		title, desc := line, ""
		if d := inlineDescription.FindStringIndex(line); d != nil {
			title, desc = line[:d[0]], line[d[1]:]
		}
		title = cleanValue(title)
		if title == "" || seen[strings.ToLower(title)] {
			continue
		}
		if desc = cleanValue(desc); desc == "" {
			desc = descriptionOnNextLine(section[loc[1]:])
		}
		if desc == "" {
			desc = "Strategic content focused on " + strings.ToLower(title)
		}
		seen[strings.ToLower(title)] = true
		out = append(out, Pillar{Title: title, Description: desc})
	}
	return out, len(out) > 0
}

func descriptionOnNextLine(rest string) string {
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")
	line, _, _ := strings.Cut(rest, "\n")
	if m := nextLineDesc.FindStringSubmatch(line); m != nil {
		return cleanValue(m[1])
	}
	return ""
}

// splitPostBlocks returns the text of each numbered post block, at most limit.
// A block ends at the next post marker or at a terminal section marker.
func splitPostBlocks(text string, limit int) []string {
	markers := postMarker.FindAllStringIndex(text, -1)
	var blocks []string
	for i, m := range markers {
		if len(blocks) == limit {
			break
		}
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		block := text[m[1]:end]
		if stop := postTerminal.FindStringIndex(block); stop != nil {
			block = block[:stop[0]]
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func extractPlatform(block string) (Platform, bool) {
	name := platformName.FindString(block)
	if name == "" {
		return "", false
	}
	return Platform(strings.ToLower(name)), true
}

func extractTitle(block string) (string, bool) {
	m := titlePattern.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	title := cleanValue(m[1])
	return title, title != ""
}

func extractBody(block string) (string, bool) {
	m := bodyPattern.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	body := collapseSpace(m[1])
	return body, body != ""
}

// extractHashtags returns unique #word tokens in order of appearance, at most limit.
func extractHashtags(text string, limit int) ([]string, bool) {
	var out []string
	seen := map[string]bool{}
	for _, m := range hashtagToken.FindAllStringSubmatch(text, -1) {
		if len(out) == limit {
			break
		}
		key := strings.ToLower(m[1])
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m[1])
	}
	return out, len(out) > 0
}

func extractHashtagBank(text string) ([]string, bool) {
	section, ok := sectionBetween(text, bankStart, bankEnd)
	if !ok {
		return nil, false
	}
	return extractHashtags(section, MaxHashtagBank)
}

// cleanValue trims whitespace, markdown emphasis and stray label punctuation.
func cleanValue(s string) string {
	s = collapseSpace(s)
	s = strings.TrimLeft(s, ":*-_#\"' ")
	s = strings.TrimRight(s, ":-*_\"' ")
	return strings.TrimSpace(s)
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceSequence.ReplaceAllString(s, " "))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

package contentcal

import (
	"fmt"
	"strings"
)

var postFieldOrder = []string{"platform", "title", "content", "hashtags"}

// formatAsText formats the report as an ASCII tree.
func (r *Report) formatAsText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extraction Report (input %d chars)\n", r.InputRunes))
	for i, res := range r.Rules {
		formatResultAsText(res, "", i == len(r.Rules)-1, &sb)
	}
	return sb.String()
}

// formatResultAsText recursively formats a result and its children.
func formatResultAsText(res *RuleResult, prefix string, isLast bool, sb *strings.Builder) {
	connector := "├─ "
	if isLast {
		connector = "└─ "
	}
	sb.WriteString(fmt.Sprintf("%s%s%s\n", prefix, connector, formatResultInfo(res)))

	childPrefix := prefix + "│  "
	if isLast {
		childPrefix = prefix + "   "
	}
	for i, child := range res.Children {
		formatResultAsText(child, childPrefix, i == len(res.Children)-1, sb)
	}
}

func formatResultInfo(res *RuleResult) string {
	parts := []string{res.Rule, string(res.Outcome)}

	var details []string
	if res.Value != "" {
		details = append(details, fmt.Sprintf("value=%q", res.Value))
	}
	if res.Found > 0 || res.Used > 0 {
		details = append(details, fmt.Sprintf("found=%d", res.Found), fmt.Sprintf("used=%d", res.Used))
	}
	for _, name := range postFieldOrder {
		if o, ok := res.Fields[name]; ok {
			details = append(details, fmt.Sprintf("%s=%s", name, o))
		}
	}

	if len(details) > 0 {
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(details, ", ")))
	}
	return strings.Join(parts, " ")
}

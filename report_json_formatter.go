package contentcal

import (
	"encoding/json"
)

// formatAsJSON formats the report as indented JSON.
func (r *Report) formatAsJSON() (string, error) {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Severity is the triage level of an alert
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Level returns the numeric order of the severity (Low=0 .. Critical=3).
// Unknown severities order below Low.
func (s Severity) Level() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	return s.Level() >= 0
}

// ParseSeverity converts a case-insensitive name to a Severity
func ParseSeverity(s string) (Severity, bool) {
	for _, sev := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if strings.EqualFold(s, string(sev)) {
			return sev, true
		}
	}
	return "", false
}

// Alert is the metadata record of a single alert
type Alert struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Machine     string   `json:"machine" yaml:"machine"`
	Program     string   `json:"program" yaml:"program"`
	OccurredOn  string   `json:"occurred_on" yaml:"occurred_on"`
}

// UnmarshalJSON decodes an alert whose id may be published as a number
func (a *Alert) UnmarshalJSON(data []byte) error {
	type alias Alert
	var wire struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*a = Alert(wire.alias)
	a.ID = ""
	raw := bytes.TrimSpace(wire.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		return json.Unmarshal(raw, &a.ID)
	}
	a.ID = string(raw)
	return nil
}

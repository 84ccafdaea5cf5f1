package domain

import (
	"sort"
	"strings"
	"time"
)

// VariedOccurrence marks an alert that fired at several times
const VariedOccurrence = "Varied"

// AlertQuery selects alerts from a listing. Empty lists match everything.
type AlertQuery struct {
	Machines      []string
	Severities    []Severity
	Programs      []string
	From          time.Time // Zero means unbounded
	To            time.Time // Zero means unbounded
	IncludeVaried bool
	// ParseTime reads OccurredOn; required when From or To is set
	ParseTime func(string) (time.Time, error)
}

// Match reports whether the alert satisfies the query. Alerts whose
// occurrence cannot be parsed only match unbounded time ranges.
func (q *AlertQuery) Match(a *Alert) bool {
	if a.OccurredOn == VariedOccurrence {
		if !q.IncludeVaried {
			return false
		}
	} else if !q.From.IsZero() || !q.To.IsZero() {
		if q.ParseTime == nil {
			return false
		}
		at, err := q.ParseTime(a.OccurredOn)
		if err != nil {
			return false
		}
		if !q.From.IsZero() && at.Before(q.From) {
			return false
		}
		if !q.To.IsZero() && at.After(q.To) {
			return false
		}
	}

	if len(q.Machines) > 0 && !contains(q.Machines, a.Machine) {
		return false
	}
	if len(q.Programs) > 0 && !contains(q.Programs, a.Program) {
		return false
	}
	if len(q.Severities) > 0 {
		found := false
		for _, s := range q.Severities {
			if s == a.Severity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Filter returns the alerts matching the query, in input order
func (q *AlertQuery) Filter(alerts []Alert) []Alert {
	out := make([]Alert, 0, len(alerts))
	for i := range alerts {
		if q.Match(&alerts[i]) {
			out = append(out, alerts[i])
		}
	}
	return out
}

// Alert sort keys
const (
	SortByID         = "id"
	SortByName       = "name"
	SortBySeverity   = "severity"
	SortByMachine    = "machine"
	SortByProgram    = "program"
	SortByOccurredOn = "occurred_on"
)

// SortAlerts orders alerts in place by key. Severity sorts by level; ids that
// are both numeric sort numerically. Unknown keys sort by id.
func SortAlerts(alerts []Alert, key string, ascending bool) {
	less := func(a, b *Alert) bool {
		switch key {
		case SortByName:
			return a.Name < b.Name
		case SortBySeverity:
			if a.Severity.Level() != b.Severity.Level() {
				return a.Severity.Level() < b.Severity.Level()
			}
			return lessID(a.ID, b.ID)
		case SortByMachine:
			return a.Machine < b.Machine
		case SortByProgram:
			return a.Program < b.Program
		case SortByOccurredOn:
			return a.OccurredOn < b.OccurredOn
		default:
			return lessID(a.ID, b.ID)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if ascending {
			return less(&alerts[i], &alerts[j])
		}
		return less(&alerts[j], &alerts[i])
	})
}

// lessID compares numerically when both ids are decimal numbers
func lessID(a, b string) bool {
	if isDigits(a) && isDigits(b) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return len(a) < len(b)
		}
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

package layout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"alertgraph/internal/domain"
)

// ErrUnparseableTime is returned by ParseTimestamp for values it cannot read
var ErrUnparseableTime = errors.New("unparseable timestamp")

// TimeParser converts an edge timestamp into an instant. Implementations must
// not depend on the process locale or time zone.
type TimeParser func(string) (time.Time, error)

// TimeParseError records an edge whose timestamp could not be ordered
type TimeParseError struct {
	Index int            // Position of the edge in the input list
	Key   domain.EdgeKey // Pair identity of the edge
	Value string         // Raw timestamp
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("edge %s (input %d): time %q: %v", e.Key, e.Index, e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}

// timestampLayouts are tried in order; zone-less values are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp formats emitted by the alert data service
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseableTime)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, value)
}

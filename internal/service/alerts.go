package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alertgraph/internal/domain"
	"alertgraph/internal/layout"
)

// ErrInvalidFilter wraps validation failures of an AlertFilter
var ErrInvalidFilter = errors.New("invalid alert filter")

// Lister retrieves the alert listing. *client.Client satisfies it.
type Lister interface {
	ListAlerts(ctx context.Context) ([]domain.Alert, error)
}

// AlertFilter is an alert listing request in textual form, as it arrives
// from query strings and command line flags
type AlertFilter struct {
	Machines      []string
	Severities    []string
	Programs      []string
	From          string
	To            string
	IncludeVaried bool
	SortBy        string
	Descending    bool
}

// Query validates the filter and converts it to a domain query
func (f AlertFilter) Query() (*domain.AlertQuery, error) {
	q := &domain.AlertQuery{
		Machines:      compact(f.Machines),
		Programs:      compact(f.Programs),
		IncludeVaried: f.IncludeVaried,
		ParseTime:     layout.ParseTimestamp,
	}

	for _, s := range compact(f.Severities) {
		sev, ok := domain.ParseSeverity(s)
		if !ok {
			return nil, fmt.Errorf("unknown severity %q", s)
		}
		q.Severities = append(q.Severities, sev)
	}

	var err error
	if q.From, err = parseBound("from", f.From); err != nil {
		return nil, err
	}
	if q.To, err = parseBound("to", f.To); err != nil {
		return nil, err
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, fmt.Errorf("time range ends before it starts")
	}

	switch f.SortBy {
	case "", domain.SortByID, domain.SortByName, domain.SortBySeverity,
		domain.SortByMachine, domain.SortByProgram, domain.SortByOccurredOn:
	default:
		return nil, fmt.Errorf("unknown sort key %q", f.SortBy)
	}
	return q, nil
}

func parseBound(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := layout.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s time: %w", name, err)
	}
	return t, nil
}

// compact splits comma separated values and drops blanks
func compact(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// AlertService serves the filtered alert listing
type AlertService struct {
	lister Lister
	logger *zap.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(lister Lister, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{lister: lister, logger: logger}
}

// List fetches the listing, then filters and sorts it
func (s *AlertService) List(ctx context.Context, filter AlertFilter) ([]domain.Alert, error) {
	query, err := filter.Query()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	alerts, err := s.lister.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	matched := query.Filter(alerts)
	domain.SortAlerts(matched, filter.SortBy, !filter.Descending)
	s.logger.Debug("alerts listed", zap.Int("total", len(alerts)), zap.Int("matched", len(matched)))
	return matched, nil
}

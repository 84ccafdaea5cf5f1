package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alertgraph/internal/domain"
)

type fakeLister struct {
	alerts []domain.Alert
	err    error
}

func (f *fakeLister) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	return append([]domain.Alert(nil), f.alerts...), f.err
}

func alertIDs(alerts []domain.Alert) []string {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}

func TestAlertFilterQuery(t *testing.T) {
	t.Run("comma separated values", func(t *testing.T) {
		q, err := AlertFilter{Machines: []string{"ws-01, ws-02", ""}, Severities: []string{"high,critical"}}.Query()
		require.NoError(t, err)
		assert.Equal(t, []string{"ws-01", "ws-02"}, q.Machines)
		assert.Equal(t, []domain.Severity{domain.SeverityHigh, domain.SeverityCritical}, q.Severities)
	})

	tests := []struct {
		name   string
		filter AlertFilter
	}{
		{"unknown severity", AlertFilter{Severities: []string{"urgent"}}},
		{"bad from", AlertFilter{From: "last tuesday"}},
		{"inverted range", AlertFilter{From: "2024-02-01 00:00:00", To: "2024-01-01 00:00:00"}},
		{"unknown sort", AlertFilter{SortBy: "colour"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.filter.Query()
			assert.Error(t, err)
		})
	}
}

func TestAlertServiceList(t *testing.T) {
	lister := &fakeLister{alerts: []domain.Alert{
		{ID: "10", Severity: domain.SeverityLow, Machine: "ws-01", OccurredOn: "2024-01-05 10:00:00"},
		{ID: "2", Severity: domain.SeverityCritical, Machine: "ws-02", OccurredOn: "2024-01-02 10:00:00"},
		{ID: "3", Severity: domain.SeverityHigh, Machine: "ws-01", OccurredOn: domain.VariedOccurrence},
		{ID: "4", Severity: domain.SeverityHigh, Machine: "ws-01", OccurredOn: "2024-03-01 10:00:00"},
	}}
	svc := NewAlertService(lister, nil)
	ctx := context.Background()

	t.Run("default sort by numeric id", func(t *testing.T) {
		alerts, err := svc.List(ctx, AlertFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "4", "10"}, alertIDs(alerts))
	})

	t.Run("varied included", func(t *testing.T) {
		alerts, err := svc.List(ctx, AlertFilter{IncludeVaried: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "3", "4", "10"}, alertIDs(alerts))
	})

	t.Run("machine and time range", func(t *testing.T) {
		alerts, err := svc.List(ctx, AlertFilter{
			Machines: []string{"ws-01"},
			From:     "2024-01-01 00:00:00",
			To:       "2024-02-01 00:00:00",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"10"}, alertIDs(alerts))
	})

	t.Run("severity descending", func(t *testing.T) {
		alerts, err := svc.List(ctx, AlertFilter{SortBy: domain.SortBySeverity, Descending: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "4", "10"}, alertIDs(alerts))
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := svc.List(ctx, AlertFilter{Severities: []string{"urgent"}})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("upstream failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewAlertService(&fakeLister{err: boom}, nil).List(ctx, AlertFilter{})
		assert.ErrorIs(t, err, boom)
	})
}

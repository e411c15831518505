package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdesk/status-admin/internal/model"
)

func seedLogs(t *testing.T, svc *StatusLogService, entries ...*model.StatusLog) {
	t.Helper()
	for _, e := range entries {
		require.NoError(t, svc.store.AppendStatusLog(context.Background(), e))
	}
}

func TestStatusLogQuery(t *testing.T) {
	_, store := newTestService(t, nil)
	svc := NewStatusLogService(store)

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedLogs(t, svc,
		&model.StatusLog{StatusID: "a", Action: model.StatusActionAdd, Operator: "admin", CreatedAt: day},
		&model.StatusLog{StatusID: "a", Action: model.StatusActionUpdate, Operator: "ops", CreatedAt: day.Add(time.Hour)},
		&model.StatusLog{StatusID: "b", Action: model.StatusActionAdd, Operator: "admin", CreatedAt: day.AddDate(0, 0, 1)},
		&model.StatusLog{StatusID: "b", Action: model.StatusActionDelete, Operator: "admin", CreatedAt: day.AddDate(0, 1, 0)},
	)

	ctx := context.Background()

	all, err := svc.Query(ctx, model.StatusLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, model.StatusActionDelete, all.Data[0].Action, "newest first")

	byStatus, err := svc.Query(ctx, model.StatusLogFilter{StatusID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, byStatus.Total)

	byAction, err := svc.Query(ctx, model.StatusLogFilter{Action: "add", Operator: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, 2, byAction.Total)

	end := day.AddDate(0, 0, 2)
	ranged, err := svc.Query(ctx, model.StatusLogFilter{BeginTime: &day, EndTime: &end, PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, ranged.Total)
	assert.Equal(t, 2, ranged.Pages)
	require.Len(t, ranged.Data, 1)
	assert.Equal(t, model.StatusActionAdd, ranged.Data[0].Action)

	beyond, err := svc.Query(ctx, model.StatusLogFilter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
}

func TestStatusLogCounts(t *testing.T) {
	_, store := newTestService(t, nil)
	svc := NewStatusLogService(store)

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedLogs(t, svc,
		&model.StatusLog{StatusID: "a", Action: model.StatusActionAdd, CreatedAt: day},
		&model.StatusLog{StatusID: "a", Action: model.StatusActionDeactivate, CreatedAt: day},
		&model.StatusLog{StatusID: "b", Action: model.StatusActionAdd, CreatedAt: day.AddDate(0, 1, 0)},
	)
	ctx := context.Background()

	byAction, err := svc.CountByAction(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"action": model.StatusActionAdd, "count": 2},
		{"action": model.StatusActionDeactivate, "count": 1},
	}, byAction)

	byDay, err := svc.CountByDate(ctx, "day", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"date": "2026-03-10", "count": 2},
		{"date": "2026-04-10", "count": 1},
	}, byDay)

	byYear, err := svc.CountByDate(ctx, "YEAR", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"date": "2026", "count": 3}}, byYear)

	until := day.Add(time.Hour)
	byMonth, err := svc.CountByDate(ctx, "month", nil, &until)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"date": "2026-03", "count": 2}}, byMonth)
}

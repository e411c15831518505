package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/statusdesk/status-admin/internal/model"
)

func TestSortByStart(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	statuses := []*model.Status{
		{ID: "late", StartTime: ptrTime(base.Add(2 * time.Hour)), CreateTime: base},
		{ID: "tie-newer", StartTime: ptrTime(base.Add(time.Hour)), CreateTime: base.Add(time.Minute)},
		{ID: "unscheduled", CreateTime: base.Add(time.Hour)},
		{ID: "tie-older", StartTime: ptrTime(base.Add(time.Hour)), CreateTime: base},
		{ID: "unscheduled-old", CreateTime: base},
	}
	SortByStart(statuses)

	var got []string
	for _, s := range statuses {
		got = append(got, s.ID)
	}
	assert.Equal(t, []string{"unscheduled-old", "unscheduled", "tie-older", "tie-newer", "late"}, got)
}

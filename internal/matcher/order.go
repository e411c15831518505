package matcher

import (
	"sort"

	"github.com/statusdesk/status-admin/internal/model"
)

// StartsBefore orders by start time ascending with unscheduled statuses
// first, then by create time, then by id.
func StartsBefore(a, b *model.Status) bool {
	switch {
	case a.StartTime == nil && b.StartTime != nil:
		return true
	case a.StartTime != nil && b.StartTime == nil:
		return false
	case a.StartTime != nil && !a.StartTime.Equal(*b.StartTime):
		return a.StartTime.Before(*b.StartTime)
	}
	if !a.CreateTime.Equal(b.CreateTime) {
		return a.CreateTime.Before(b.CreateTime)
	}
	return a.ID < b.ID
}

// SortByStart sorts statuses in place using StartsBefore.
func SortByStart(statuses []*model.Status) {
	sort.SliceStable(statuses, func(i, j int) bool {
		return StartsBefore(statuses[i], statuses[j])
	})
}

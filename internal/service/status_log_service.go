package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/storage"
)

// StatusLogService provides filtering and statistics over the audit trail.
type StatusLogService struct {
	store storage.Store
}

// NewStatusLogService builds the status log service.
func NewStatusLogService(store storage.Store) *StatusLogService {
	return &StatusLogService{store: store}
}

// Query returns paginated logs, newest first.
func (s *StatusLogService) Query(ctx context.Context, filter model.StatusLogFilter) (*model.Page[*model.StatusLog], error) {
	logs, err := s.filteredLogs(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := len(logs)
	filter.Page, filter.PageSize = normalizeStatusPagination(filter.Page, filter.PageSize)

	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return &model.Page[*model.StatusLog]{
		Data:     logs[start:end],
		Total:    total,
		Pages:    (total + filter.PageSize - 1) / filter.PageSize,
		PageNum:  filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// CountByDate aggregates logs per day/month/year.
func (s *StatusLogService) CountByDate(ctx context.Context, dateType string, begin, end *time.Time) ([]map[string]any, error) {
	logs, err := s.filteredLogs(ctx, model.StatusLogFilter{BeginTime: begin, EndTime: end})
	if err != nil {
		return nil, err
	}

	layout := "2006-01-02"
	switch strings.ToLower(dateType) {
	case "year":
		layout = "2006"
	case "month":
		layout = "2006-01"
	}

	counter := make(map[string]int)
	for _, log := range logs {
		counter[log.CreatedAt.Format(layout)]++
	}
	return mapToKV(counter, "date"), nil
}

// CountByAction aggregates by write action.
func (s *StatusLogService) CountByAction(ctx context.Context, begin, end *time.Time) ([]map[string]any, error) {
	logs, err := s.filteredLogs(ctx, model.StatusLogFilter{BeginTime: begin, EndTime: end})
	if err != nil {
		return nil, err
	}
	counter := make(map[string]int)
	for _, log := range logs {
		action := log.Action
		if action == "" {
			action = "UNKNOWN"
		}
		counter[action]++
	}
	return mapToKV(counter, "action"), nil
}

func (s *StatusLogService) filteredLogs(ctx context.Context, filter model.StatusLogFilter) ([]*model.StatusLog, error) {
	all, err := s.store.ListStatusLogs(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*model.StatusLog, 0, len(all))
	for _, log := range all {
		if filter.StatusID != "" && log.StatusID != filter.StatusID {
			continue
		}
		if filter.Action != "" && !strings.EqualFold(log.Action, filter.Action) {
			continue
		}
		if filter.Operator != "" && !strings.EqualFold(log.Operator, filter.Operator) {
			continue
		}
		if filter.BeginTime != nil && log.CreatedAt.Before(filter.BeginTime.UTC()) {
			continue
		}
		if filter.EndTime != nil && log.CreatedAt.After(filter.EndTime.UTC()) {
			continue
		}
		matches = append(matches, log)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches, nil
}

func mapToKV(counter map[string]int, key string) []map[string]any {
	result := make([]map[string]any, 0, len(counter))
	for k, v := range counter {
		result = append(result, map[string]any{
			key:     k,
			"count": v,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i][key].(string) < result[j][key].(string)
	})
	return result
}

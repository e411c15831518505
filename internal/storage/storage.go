package storage

import (
	"context"
	"time"

	"github.com/statusdesk/status-admin/internal/matcher"
	"github.com/statusdesk/status-admin/internal/model"
)

// StatusFilter narrows FindStatuses/CountStatuses. Zero values match all.
type StatusFilter struct {
	Activated *bool
	Window    matcher.Window
	Now       time.Time
	Type      string
	Keyword   string
	// SortBy is FieldCreateTime (newest first, the default) or FieldStartTime
	// (earliest first, unscheduled first).
	SortBy model.StatusField
}

// Store abstracts status persistence.
type Store interface {
	FindStatuses(ctx context.Context, filter StatusFilter, skip, limit int) ([]*model.Status, error)
	CountStatuses(ctx context.Context, filter StatusFilter) (int, error)
	GetStatus(ctx context.Context, id string) (*model.Status, error)
	InsertStatus(ctx context.Context, status *model.Status) (*model.Status, error)
	// UpdateStatus applies patch and, when check is non-nil, runs it against
	// the patched document before committing. A check error aborts the write
	// and is returned unchanged.
	UpdateStatus(ctx context.Context, id string, patch model.StatusPatch, check func(*model.Status) error) (*model.Status, error)
	DeleteStatus(ctx context.Context, id string) error
	AppendStatusLog(ctx context.Context, log *model.StatusLog) error
	ListStatusLogs(ctx context.Context) ([]*model.StatusLog, error)
	Close() error
}

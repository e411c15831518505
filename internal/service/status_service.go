package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/matcher"
	"github.com/statusdesk/status-admin/internal/metrics"
	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/storage"
)

const (
	statusListDefaultPage = 1
	statusListDefaultSize = 10
	statusListMaxPageSize = 100
)

var (
	ErrStatusNotFound = errors.New("status not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidQuery   = errors.New("invalid query")
)

// CreateStatusRequest is the payload for adding a status.
type CreateStatusRequest struct {
	DeviceTypes      []string   `json:"device_types" validate:"required,min=1,dive,devicetype"`
	DeviceSemVersion string     `json:"device_sem_version" validate:"required"`
	AppSemVersion    string     `json:"app_sem_version" validate:"required"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	IsActivated      *bool      `json:"is_activated,omitempty"`
	Title            string     `json:"title" validate:"required,max=200"`
	Contents         string     `json:"contents" validate:"max=10000"`
	URL              string     `json:"url" validate:"omitempty,url"`
	Type             string     `json:"type" validate:"max=64"`
}

// UpdateStatusRequest replaces only the fields that are present. Unset
// lists wire field names to clear; only start_time and end_time together
// are accepted.
type UpdateStatusRequest struct {
	DeviceTypes      []string   `json:"device_types,omitempty" validate:"omitempty,dive,devicetype"`
	DeviceSemVersion *string    `json:"device_sem_version,omitempty"`
	AppSemVersion    *string    `json:"app_sem_version,omitempty"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	IsActivated      *bool      `json:"is_activated,omitempty"`
	Title            *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Contents         *string    `json:"contents,omitempty" validate:"omitempty,max=10000"`
	URL              *string    `json:"url,omitempty" validate:"omitempty,url"`
	Type             *string    `json:"type,omitempty" validate:"omitempty,max=64"`
	Unset            []string   `json:"unset,omitempty"`
}

// StatusQuery drives the admin list endpoint.
type StatusQuery struct {
	Page      int
	PageSize  int
	Window    matcher.Window
	Type      string
	Keyword   string
	Activated *bool
	SortBy    model.StatusField
}

// StatusService implements status lookup and the admin write path.
type StatusService struct {
	store   storage.Store
	matcher *matcher.Matcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatusService builds StatusService.
func NewStatusService(store storage.Store, m *matcher.Matcher, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = matcher.New(nil, logger)
	}
	return &StatusService{
		store:   store,
		matcher: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// LookupCheck answers the public check query at the current time.
func (s *StatusService) LookupCheck(ctx context.Context, deviceType, deviceVersion, appVersion string) ([]*model.Status, error) {
	return s.Check(ctx, deviceType, deviceVersion, appVersion, s.now())
}

// Check returns the activated, current statuses targeting the triple,
// earliest start first. Store errors are returned unchanged.
func (s *StatusService) Check(ctx context.Context, deviceType, deviceVersion, appVersion string, now time.Time) ([]*model.Status, error) {
	started := time.Now()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(started).Seconds())
	}()

	query, err := matcher.NewQuery(deviceType, deviceVersion, appVersion)
	if err != nil {
		metrics.CheckRequests.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	activated := true
	candidates, err := s.store.FindStatuses(ctx, storage.StatusFilter{
		Activated: &activated,
		Window:    matcher.WindowCurrent,
		Now:       now,
	}, 0, 0)
	if err != nil {
		metrics.CheckRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	result := make([]*model.Status, 0, len(candidates))
	for _, status := range candidates {
		if !status.IsActivated || !matcher.IsCurrent(status, now) {
			continue
		}
		if s.matcher.Matches(status, query) {
			result = append(result, status)
		}
	}
	matcher.SortByStart(result)

	metrics.CheckRequests.WithLabelValues("ok").Inc()
	metrics.CheckMatches.Observe(float64(len(result)))
	return result, nil
}

// Add validates and persists a new status.
func (s *StatusService) Add(ctx context.Context, operator string, req CreateStatusRequest) (*model.Status, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		metrics.RejectedWrites.Inc()
		return nil, err
	}

	activated := true
	if req.IsActivated != nil {
		activated = *req.IsActivated
	}
	status, err := s.store.InsertStatus(ctx, &model.Status{
		DeviceTypes:      req.DeviceTypes,
		DeviceSemVersion: req.DeviceSemVersion,
		AppSemVersion:    req.AppSemVersion,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		IsActivated:      activated,
		Title:            req.Title,
		Contents:         req.Contents,
		URL:              req.URL,
		Type:             req.Type,
	})
	if err != nil {
		return nil, err
	}

	s.recordWrite(ctx, operator, model.StatusActionAdd, status, "")
	return status, nil
}

// Update applies a partial update. Field rules are checked up front; the
// window ordering is checked by the store against the document it commits,
// so a concurrent update cannot leave start_time after end_time.
func (s *StatusService) Update(ctx context.Context, operator, id string, req UpdateStatusRequest) (*model.Status, error) {
	id = strings.TrimSpace(id)
	req.normalize()
	patch, err := req.patch()
	if err != nil {
		metrics.RejectedWrites.Inc()
		return nil, err
	}
	if err := req.validate(); err != nil {
		metrics.RejectedWrites.Inc()
		return nil, err
	}

	updated, err := s.store.UpdateStatus(ctx, id, patch, checkWindow)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrStatusNotFound
		case errors.Is(err, ErrInvalidStatus):
			metrics.RejectedWrites.Inc()
		}
		return nil, err
	}

	s.recordWrite(ctx, operator, model.StatusActionUpdate, updated, strings.Join(req.changedFields(), ","))
	return updated, nil
}

// SetActivated flips the kill switch.
func (s *StatusService) SetActivated(ctx context.Context, operator, id string, activated bool) (*model.Status, error) {
	updated, err := s.store.UpdateStatus(ctx, strings.TrimSpace(id), model.StatusPatch{IsActivated: &activated}, nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	action := model.StatusActionDeactivate
	if activated {
		action = model.StatusActionActivate
	}
	s.recordWrite(ctx, operator, action, updated, "")
	return updated, nil
}

// Delete removes a status permanently.
func (s *StatusService) Delete(ctx context.Context, operator, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteStatus(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrStatusNotFound
		}
		return err
	}
	s.recordWrite(ctx, operator, model.StatusActionDelete, current, "")
	return nil
}

// Get returns a status by id.
func (s *StatusService) Get(ctx context.Context, id string) (*model.Status, error) {
	status, err := s.store.GetStatus(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

// List returns one page of statuses.
func (s *StatusService) List(ctx context.Context, q StatusQuery) (*model.Page[*model.Status], error) {
	page, pageSize := normalizeStatusPagination(q.Page, q.PageSize)
	filter := storage.StatusFilter{
		Activated: q.Activated,
		Window:    q.Window,
		Now:       s.now(),
		Type:      strings.TrimSpace(q.Type),
		Keyword:   q.Keyword,
		SortBy:    q.SortBy,
	}
	total, err := s.store.CountStatuses(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindStatuses(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Status{}
	}
	return &model.Page[*model.Status]{
		Data:     items,
		Total:    total,
		Pages:    (total + pageSize - 1) / pageSize,
		PageNum:  page,
		PageSize: pageSize,
	}, nil
}

func (s *StatusService) recordWrite(ctx context.Context, operator, action string, status *model.Status, detail string) {
	metrics.StatusWrites.WithLabelValues(action).Inc()
	s.logger.Info("status written",
		zap.String("action", action),
		zap.String("status_id", status.ID),
		zap.String("operator", operator),
	)
	entry := &model.StatusLog{
		StatusID: status.ID,
		Action:   action,
		Operator: operator,
		Title:    status.Title,
		Detail:   detail,
	}
	if err := s.store.AppendStatusLog(ctx, entry); err != nil {
		s.logger.Warn("append status log failed", zap.String("status_id", status.ID), zap.Error(err))
	}
}

func normalizeStatusPagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = statusListDefaultPage
	}
	if pageSize <= 0 {
		pageSize = statusListDefaultSize
	}
	if pageSize > statusListMaxPageSize {
		pageSize = statusListMaxPageSize
	}
	return page, pageSize
}

func (r *CreateStatusRequest) normalize() {
	r.DeviceTypes = trimAll(r.DeviceTypes)
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	r.Type = strings.TrimSpace(r.Type)
}

func (r *CreateStatusRequest) validate() error {
	var p problems
	p.addStruct(r)
	p.addExpression("device_sem_version", r.DeviceSemVersion)
	p.addExpression("app_sem_version", r.AppSemVersion)
	p.addWindow(r.StartTime, r.EndTime)
	return p.err()
}

func (r *UpdateStatusRequest) normalize() {
	if r.DeviceTypes != nil {
		r.DeviceTypes = trimAll(r.DeviceTypes)
	}
	for _, field := range []*string{r.Title, r.URL, r.Type} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// patch converts the request into a store patch, decoding unset names
// through the wire field table.
func (r *UpdateStatusRequest) patch() (model.StatusPatch, error) {
	patch := model.StatusPatch{
		DeviceSemVersion: r.DeviceSemVersion,
		AppSemVersion:    r.AppSemVersion,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		IsActivated:      r.IsActivated,
		Title:            r.Title,
		Contents:         r.Contents,
		URL:              r.URL,
		Type:             r.Type,
	}
	if r.DeviceTypes != nil {
		types := r.DeviceTypes
		patch.DeviceTypes = &types
	}
	if len(r.Unset) == 0 {
		return patch, nil
	}

	var p problems
	seen := make(map[model.StatusField]bool)
	for _, name := range r.Unset {
		field, err := model.ParseStatusField(strings.TrimSpace(name))
		if err != nil {
			p.add(err)
			continue
		}
		if !field.Unsettable() {
			p.add(fmt.Errorf("%s cannot be unset", field.Wire()))
			continue
		}
		seen[field] = true
	}
	if seen[model.FieldStartTime] != seen[model.FieldEndTime] {
		p.add(fmt.Errorf("start_time and end_time must be unset together"))
	}
	if len(seen) > 0 && (r.StartTime != nil || r.EndTime != nil) {
		p.add(fmt.Errorf("start_time/end_time cannot be both set and unset"))
	}
	if err := p.err(); err != nil {
		return model.StatusPatch{}, err
	}
	for _, field := range []model.StatusField{model.FieldStartTime, model.FieldEndTime} {
		if seen[field] {
			patch.Unset = append(patch.Unset, field)
		}
	}
	return patch, nil
}

func (r *UpdateStatusRequest) validate() error {
	var p problems
	p.addStruct(r)
	if r.DeviceTypes != nil && len(r.DeviceTypes) == 0 {
		p.add(fmt.Errorf("device_types must not be empty"))
	}
	if r.DeviceSemVersion != nil {
		p.addExpression("device_sem_version", *r.DeviceSemVersion)
		if *r.DeviceSemVersion == "" {
			p.add(fmt.Errorf("device_sem_version is required"))
		}
	}
	if r.AppSemVersion != nil {
		p.addExpression("app_sem_version", *r.AppSemVersion)
		if *r.AppSemVersion == "" {
			p.add(fmt.Errorf("app_sem_version is required"))
		}
	}
	p.addWindow(r.StartTime, r.EndTime)
	return p.err()
}

func checkWindow(next *model.Status) error {
	var p problems
	p.addWindow(next.StartTime, next.EndTime)
	return p.err()
}

func (r *UpdateStatusRequest) changedFields() []string {
	var fields []string
	add := func(set bool, f model.StatusField) {
		if set {
			fields = append(fields, f.Wire())
		}
	}
	add(r.DeviceTypes != nil, model.FieldDeviceTypes)
	add(r.DeviceSemVersion != nil, model.FieldDeviceSemVersion)
	add(r.AppSemVersion != nil, model.FieldAppSemVersion)
	add(r.StartTime != nil, model.FieldStartTime)
	add(r.EndTime != nil, model.FieldEndTime)
	add(r.IsActivated != nil, model.FieldIsActivated)
	add(r.Title != nil, model.FieldTitle)
	add(r.Contents != nil, model.FieldContents)
	add(r.URL != nil, model.FieldURL)
	add(r.Type != nil, model.FieldType)
	for _, name := range r.Unset {
		fields = append(fields, "-"+name)
	}
	return fields
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

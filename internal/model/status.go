package model

import "time"

// Status is a published announcement targeted at device/app version ranges.
type Status struct {
	ID               string     `json:"id"`
	DeviceTypes      []string   `json:"device_types"`
	DeviceSemVersion string     `json:"device_sem_version"`
	AppSemVersion    string     `json:"app_sem_version"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	IsActivated      bool       `json:"is_activated"`
	Title            string     `json:"title"`
	Contents         string     `json:"contents"`
	URL              string     `json:"url"`
	Type             string     `json:"type"`
	CreateTime       time.Time  `json:"create_time"`
	UpdateTime       time.Time  `json:"update_time"`
}

// AnyDeviceType in DeviceTypes (or a request) matches every device type.
const AnyDeviceType = "*"

// Clone returns a deep copy so callers can mutate freely.
func (s *Status) Clone() *Status {
	if s == nil {
		return nil
	}
	out := *s
	out.DeviceTypes = append([]string(nil), s.DeviceTypes...)
	out.StartTime = cloneTime(s.StartTime)
	out.EndTime = cloneTime(s.EndTime)
	return &out
}

// StatusPatch is a partial update: non-nil fields are set, Unset fields are
// cleared.
type StatusPatch struct {
	DeviceTypes      *[]string
	DeviceSemVersion *string
	AppSemVersion    *string
	StartTime        *time.Time
	EndTime          *time.Time
	IsActivated      *bool
	Title            *string
	Contents         *string
	URL              *string
	Type             *string
	Unset            []StatusField
}

// Apply writes the patch onto s.
func (p StatusPatch) Apply(s *Status) {
	if p.DeviceTypes != nil {
		s.DeviceTypes = append([]string(nil), (*p.DeviceTypes)...)
	}
	if p.DeviceSemVersion != nil {
		s.DeviceSemVersion = *p.DeviceSemVersion
	}
	if p.AppSemVersion != nil {
		s.AppSemVersion = *p.AppSemVersion
	}
	if p.StartTime != nil {
		s.StartTime = cloneTime(p.StartTime)
	}
	if p.EndTime != nil {
		s.EndTime = cloneTime(p.EndTime)
	}
	if p.IsActivated != nil {
		s.IsActivated = *p.IsActivated
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Contents != nil {
		s.Contents = *p.Contents
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	for _, field := range p.Unset {
		field.clear(s)
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

package model

import "fmt"

// StatusField names a Status attribute independently of its wire spelling.
type StatusField int

const (
	FieldID StatusField = iota
	FieldDeviceTypes
	FieldDeviceSemVersion
	FieldAppSemVersion
	FieldStartTime
	FieldEndTime
	FieldIsActivated
	FieldTitle
	FieldContents
	FieldURL
	FieldType
	FieldCreateTime
	FieldUpdateTime
)

// statusFieldTable is the single source for wire <-> field mapping. Keep it
// in sync with the json tags on Status.
var statusFieldTable = []struct {
	field StatusField
	wire  string
	camel string
}{
	{FieldID, "id", "id"},
	{FieldDeviceTypes, "device_types", "deviceTypes"},
	{FieldDeviceSemVersion, "device_sem_version", "deviceSemVersion"},
	{FieldAppSemVersion, "app_sem_version", "appSemVersion"},
	{FieldStartTime, "start_time", "startTime"},
	{FieldEndTime, "end_time", "endTime"},
	{FieldIsActivated, "is_activated", "isActivated"},
	{FieldTitle, "title", "title"},
	{FieldContents, "contents", "contents"},
	{FieldURL, "url", "url"},
	{FieldType, "type", "type"},
	{FieldCreateTime, "create_time", "createTime"},
	{FieldUpdateTime, "update_time", "updateTime"},
}

// ParseStatusField accepts either the snake_case wire key or the camelCase
// spelling used by older admin clients.
func ParseStatusField(name string) (StatusField, error) {
	for _, entry := range statusFieldTable {
		if entry.wire == name || entry.camel == name {
			return entry.field, nil
		}
	}
	return 0, fmt.Errorf("unknown status field %q", name)
}

// Wire returns the snake_case key.
func (f StatusField) Wire() string {
	for _, entry := range statusFieldTable {
		if entry.field == f {
			return entry.wire
		}
	}
	return ""
}

// Camel returns the camelCase key.
func (f StatusField) Camel() string {
	for _, entry := range statusFieldTable {
		if entry.field == f {
			return entry.camel
		}
	}
	return ""
}

func (f StatusField) String() string {
	return f.Wire()
}

// Unsettable reports whether the field may be cleared by an update.
func (f StatusField) Unsettable() bool {
	return f == FieldStartTime || f == FieldEndTime
}

func (f StatusField) clear(s *Status) {
	switch f {
	case FieldStartTime:
		s.StartTime = nil
	case FieldEndTime:
		s.EndTime = nil
	}
}

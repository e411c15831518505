package matcher

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/metrics"
	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/semexpr"
)

// AnyVersion in a query matches every stored expression.
const AnyVersion = "*"

// Query is a parsed client triple. A nil version means "any".
type Query struct {
	DeviceType    string
	DeviceVersion *semexpr.Version
	AppVersion    *semexpr.Version
}

// NewQuery parses the request values once so they can be matched against
// many statuses. Empty values default to "*".
func NewQuery(deviceType, deviceVersion, appVersion string) (Query, error) {
	q := Query{DeviceType: defaultAny(deviceType)}
	var err error
	if q.DeviceVersion, err = parseQueryVersion(deviceVersion); err != nil {
		return Query{}, fmt.Errorf("device version: %w", err)
	}
	if q.AppVersion, err = parseQueryVersion(appVersion); err != nil {
		return Query{}, fmt.Errorf("app version: %w", err)
	}
	return q, nil
}

func parseQueryVersion(raw string) (*semexpr.Version, error) {
	raw = defaultAny(raw)
	if raw == AnyVersion {
		return nil, nil
	}
	v, err := semexpr.ParseVersion(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func defaultAny(v string) string {
	if v == "" {
		return AnyVersion
	}
	return v
}

// Matcher decides whether a stored status targets a query. It holds no
// mutable state of its own and is safe for concurrent use.
type Matcher struct {
	cache  *semexpr.Cache
	logger *zap.Logger
}

// New builds a Matcher. A nil cache parses on every call.
func New(cache *semexpr.Cache, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cache: cache, logger: logger}
}

// Matches is the AND of the device type, device version and app version rules.
func (m *Matcher) Matches(s *model.Status, q Query) bool {
	if s == nil {
		return false
	}
	if !MatchesDeviceType(s.DeviceTypes, q.DeviceType) {
		return false
	}
	if !m.matchesVersion(s, model.FieldDeviceSemVersion, s.DeviceSemVersion, q.DeviceVersion) {
		return false
	}
	return m.matchesVersion(s, model.FieldAppSemVersion, s.AppSemVersion, q.AppVersion)
}

// MatchesDeviceType is true for a "*" request, a "*" entry, or an exact
// case-sensitive entry.
func MatchesDeviceType(deviceTypes []string, requested string) bool {
	if requested == model.AnyDeviceType {
		return true
	}
	for _, t := range deviceTypes {
		if t == model.AnyDeviceType || t == requested {
			return true
		}
	}
	return false
}

func (m *Matcher) matchesVersion(s *model.Status, field model.StatusField, expr string, candidate *semexpr.Version) bool {
	if candidate == nil {
		return true
	}
	parsed, err := m.cache.Parse(expr)
	if err != nil {
		metrics.CorruptExpressions.WithLabelValues(field.Wire()).Inc()
		m.logger.Warn("stored expression failed to parse, treating as no match",
			zap.String("status_id", s.ID),
			zap.String("field", field.Wire()),
			zap.String("expression", expr),
			zap.Error(err),
		)
		return false
	}
	return parsed.Evaluate(*candidate)
}

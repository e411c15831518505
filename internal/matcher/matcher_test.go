package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/semexpr"
)

func TestMatchesDeviceType(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		requested string
		expected  bool
	}{
		{name: "exact", types: []string{"ios", "android"}, requested: "android", expected: true},
		{name: "case sensitive", types: []string{"ios"}, requested: "iOS", expected: false},
		{name: "stored wildcard", types: []string{"*"}, requested: "harmony", expected: true},
		{name: "requested wildcard", types: []string{"ios"}, requested: "*", expected: true},
		{name: "requested wildcard, empty list", types: nil, requested: "*", expected: true},
		{name: "no match", types: []string{"ios"}, requested: "android", expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, MatchesDeviceType(test.types, test.requested))
		})
	}
}

func TestMatcherMatches(t *testing.T) {
	status := &model.Status{
		ID:               "s1",
		DeviceTypes:      []string{"ios"},
		DeviceSemVersion: ">=15.0 <17.0",
		AppSemVersion:    ">=1.0.0 <2.0.0|=3.1.0",
	}
	m := New(semexpr.NewCache(16), nil)

	tests := []struct {
		name          string
		deviceType    string
		deviceVersion string
		appVersion    string
		expected      bool
	}{
		{name: "all defaults", expected: true},
		{name: "all wildcards", deviceType: "*", deviceVersion: "*", appVersion: "*", expected: true},
		{name: "full match", deviceType: "ios", deviceVersion: "16.4", appVersion: "1.5.0", expected: true},
		{name: "second app group", deviceType: "ios", deviceVersion: "15.0", appVersion: "3.1.0", expected: true},
		{name: "app upper bound", deviceType: "ios", deviceVersion: "16", appVersion: "2.0.0", expected: false},
		{name: "app near miss", deviceType: "ios", deviceVersion: "16", appVersion: "3.1.1", expected: false},
		{name: "device upper bound", deviceType: "ios", deviceVersion: "17.0", appVersion: "1.5.0", expected: false},
		{name: "wrong device type", deviceType: "android", deviceVersion: "16", appVersion: "1.5.0", expected: false},
		{name: "any device version", deviceType: "ios", deviceVersion: "*", appVersion: "1.0.0", expected: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			q, err := NewQuery(test.deviceType, test.deviceVersion, test.appVersion)
			require.NoError(t, err)
			assert.Equal(t, test.expected, m.Matches(status, q))
		})
	}
}

func TestNewQueryRejectsMalformedVersion(t *testing.T) {
	_, err := NewQuery("ios", "16,4", "*")
	assert.ErrorIs(t, err, semexpr.ErrMalformedVersion)
	assert.Contains(t, err.Error(), "device version")

	_, err = NewQuery("ios", "*", "1.0 beta")
	assert.ErrorIs(t, err, semexpr.ErrMalformedVersion)
	assert.Contains(t, err.Error(), "app version")
}

func TestMatcherCorruptExpressionIsNoMatch(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := New(nil, zap.New(core))

	corrupt := &model.Status{ID: "bad", DeviceTypes: []string{"*"}, DeviceSemVersion: ">=", AppSemVersion: "*"}
	q, err := NewQuery("ios", "16.0", "1.0")
	require.NoError(t, err)

	assert.False(t, m.Matches(corrupt, q))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "bad", entry.ContextMap()["status_id"])
	assert.Equal(t, "device_sem_version", entry.ContextMap()["field"])

	// a wildcard request never consults the stored expression
	q, err = NewQuery("ios", "*", "*")
	require.NoError(t, err)
	assert.True(t, m.Matches(corrupt, q))
	assert.False(t, m.Matches(nil, q))
}

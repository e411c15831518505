package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdesk/status-admin/internal/app"
	"github.com/statusdesk/status-admin/internal/config"
	"github.com/statusdesk/status-admin/internal/model"
	"github.com/statusdesk/status-admin/internal/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", ">=1.0.0 <2.0.0|=3.1.0", "*")
	require.NoError(t, err)
	assert.Contains(t, out, `OK      ">=1.0.0 <2.0.0|=3.1.0" (2 group(s))`)

	out, err = run(t, "validate", "*", ">=")
	assert.ErrorIs(t, err, errInvalidExpressions)
	assert.Contains(t, out, "INVALID")

	_, err = run(t, "validate")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "status.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  path: "+dbPath+"\nlog:\n  level: error\n"), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	a, err := app.New(cfg, nil)
	require.NoError(t, err)
	_, err = a.Status.Add(context.Background(), "cli", service.CreateStatusRequest{
		DeviceTypes:      []string{"android"},
		DeviceSemVersion: ">=12",
		AppSemVersion:    "<5",
		Title:            "android notice",
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	out, err := run(t, "check", "--config", cfgPath, "--device-type", "android", "--device-version", "13", "--app-version", "4.9")
	require.NoError(t, err)
	var got []model.Status
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "android notice", got[0].Title)

	out, err = run(t, "check", "--config", cfgPath, "--device-type", "ios")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

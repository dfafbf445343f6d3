package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/platform-carbon-estimator/internal/api"
	"github.com/rshade/platform-carbon-estimator/internal/config"
)

const request = `{
	"instances": [{"type": "t3.medium", "count": 1, "region": "eu-west-3"}],
	"connections": [{"country": "FR", "count": 1000}]
}`

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-config", "c.yaml", "-input", "-", "-pretty"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, &Flags{ConfigPath: "c.yaml", Input: "-", Pretty: true}, f)

	_, err = parseFlags([]string{"-unknown"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_OneShotFromFile(t *testing.T) {
	t.Setenv("CARBON_CONFIG", "")
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(request), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", path}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.NotEmpty(t, resp.AnalysisID)
	assert.Less(t, resp.Impact.WithCDNKg, resp.Impact.WithoutCDNKg)
	assert.Equal(t, api.UnitKgCO2e, resp.Unit)
}

func TestRun_OneShotFromStdin(t *testing.T) {
	t.Setenv("CARBON_CONFIG", "")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", "-", "-pretty"}, strings.NewReader(request), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "\n  \"analysisId\"")
}

func TestRun_CoefficientOverrides(t *testing.T) {
	dir := t.TempDir()
	coeffPath := filepath.Join(dir, "coefficients.yaml")
	require.NoError(t, os.WriteFile(coeffPath, []byte("cdn_distance_km: 1000\n"), 0o600))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("coefficients:\n  file: "+coeffPath+"\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-input", "-"}, strings.NewReader(
		`{"instances":[],"connections":[{"country":"FR","count":1000}]}`), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, resp.Network.PerRegion[0].KmWithoutCDN, resp.Network.PerRegion[0].KmWithCDN)
}

func TestRun_Failures(t *testing.T) {
	t.Setenv("CARBON_CONFIG", "")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
	}{
		{name: "bad flag", args: []string{"-nope"}, wantCode: 2},
		{name: "missing config file", args: []string{"-config", "/does/not/exist.yaml", "-input", "-"}, wantCode: 1},
		{name: "missing input file", args: []string{"-input", "/does/not/exist.json"}, wantCode: 1},
		{name: "malformed request", args: []string{"-input", "-"}, stdin: "{", wantCode: 1},
		{name: "invalid request", args: []string{"-input", "-"}, stdin: `{"connections":[]}`, wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	service, err := newService(cfg, zerolog.Nop())
	require.NoError(t, err)

	t.Run("stops when context is cancelled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.ListenAddr = "127.0.0.1:0"

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, serve(ctx, cfg, service, zerolog.Nop()))
	})

	t.Run("reports listen errors", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.ListenAddr = "not-an-address"

		assert.Error(t, serve(context.Background(), cfg, service, zerolog.Nop()))
	})
}

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
	"github.com/tenthirtyam/go-rdpbridge/enginetest"
)

const testProfiles = `
server:
  listen: "127.0.0.1:9000"
engine:
  log_level: DEBUG
profiles:
  default:
    username: alice
    destination: 10.0.0.5:3389
    proxy_address: wss://gateway.example.com/jet/rdp
  lab:
    username: bob
    password: from-file
    destination: lab.example.com:3389
    proxy_address: ws://127.0.0.1:7171/jet/rdp
    domain: LAB
    width: 1920
    height: 1080
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeProfiles(t, testProfiles))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "/input", cfg.Server.InputPath)
	assert.Equal(t, "DEBUG", cfg.Engine.LogLevel)
	assert.Equal(t, rdpbridge.DefaultAuthToken, cfg.Engine.AuthToken)
	assert.Len(t, cfg.Profiles, 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, rdpbridge.IsBridgeError(err, rdpbridge.ErrValidation))

	_, err = Load(writeProfiles(t, "profiles: [not, a, map"))
	require.Error(t, err)
	assert.True(t, rdpbridge.IsBridgeError(err, rdpbridge.ErrValidation))
}

func TestResolve_PasswordNeverFromFile(t *testing.T) {
	cfg, err := Load(writeProfiles(t, testProfiles))
	require.NoError(t, err)

	p, err := cfg.Resolve("lab")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, "LAB", p.Domain)
	assert.Equal(t, 1920, p.Width)
	assert.Empty(t, p.Password)
}

func TestResolve_EnvOverridesWin(t *testing.T) {
	t.Setenv("RDPBRIDGE_LISTEN", ":7000")
	t.Setenv("RDPBRIDGE_AUTH_TOKEN", "override-token")
	t.Setenv("RDPBRIDGE_PASSWORD", "s3cret")
	t.Setenv("RDPBRIDGE_DESTINATION", "override.example.com:3390")
	t.Setenv("RDPBRIDGE_WIDTH", "1024")

	cfg, err := Load(writeProfiles(t, testProfiles))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, ":7000", cfg.Server.Listen)
	assert.Equal(t, "override-token", cfg.Engine.AuthToken)
	assert.Equal(t, "DEBUG", cfg.Engine.LogLevel)

	p, err := cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "s3cret", p.Password)
	assert.Equal(t, "override.example.com:3390", p.Destination)
	assert.Equal(t, 1024, p.Width)
	assert.Equal(t, 0, p.Height)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("RDPBRIDGE_HEIGHT", "tall")

	err := Default().ApplyEnv()
	require.Error(t, err)
	assert.True(t, rdpbridge.IsBridgeError(err, rdpbridge.ErrValidation))
}

func TestResolve_UnknownProfile(t *testing.T) {
	cfg := Default()

	_, err := cfg.Resolve("nope")
	require.Error(t, err)
	assert.True(t, rdpbridge.IsBridgeError(err, rdpbridge.ErrValidation))

	// A missing default profile is empty rather than an error.
	p, err := cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}

func TestProfile_ConnectOptions(t *testing.T) {
	surface := enginetest.NewSurface(800, 600)
	p := Profile{
		Username:     "alice",
		Password:     "pw",
		Destination:  "10.0.0.5:3389",
		ProxyAddress: "wss://gateway.example.com/jet/rdp",
		Domain:       "CORP",
		Width:        800,
		Height:       600,
	}

	opts := p.ConnectOptions(surface)
	assert.Equal(t, rdpbridge.ConnectOptions{
		Username:     "alice",
		Password:     "pw",
		Destination:  "10.0.0.5:3389",
		ProxyAddress: "wss://gateway.example.com/jet/rdp",
		Domain:       "CORP",
		Surface:      surface,
		Width:        800,
		Height:       600,
	}, opts)

	_, err := rdpbridge.FromOptions(opts).Build()
	assert.NoError(t, err)
}

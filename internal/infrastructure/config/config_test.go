package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const (
	code  = "0x00000000000000000000000000000000000000000000000000000000000000cc"
	admin = "0x00000000000000000000000000000000000000000000000000000000000000aa"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "50061", cfg.Server.GRPCPort)
	assert.True(t, cfg.Server.GRPCEnabled)

	assert.Equal(t, uint64(10_000_000_000), cfg.Factory.GasForProgram)
	assert.Equal(t, ModeMemory, cfg.Runtime.Mode)
	assert.Equal(t, 30*time.Second, cfg.Runtime.SpawnTimeout)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                    "9000",
		"GRPC_ENABLED":            "false",
		"FACTORY_CODE_ID":         code,
		"FACTORY_ADMINS":          admin + "," + admin,
		"FACTORY_GAS_FOR_PROGRAM": "100",
		"HOST_MODE":               "remote",
		"HOST_URL":                "http://runtime:9900",
		"HOST_SPAWN_TIMEOUT":      "5s",
		"LOG_LEVEL":               "debug",
		"LOG_COMPONENTS":          "host=warn",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.False(t, cfg.Server.GRPCEnabled)
	assert.Equal(t, ModeRemote, cfg.Runtime.Mode)
	assert.Equal(t, "http://runtime:9900", cfg.Runtime.URL)
	assert.Equal(t, 5*time.Second, cfg.Runtime.SpawnTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "host=warn", cfg.Logging.Components)

	init, err := cfg.InitMessage()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), init.GasForProgram)
	assert.Len(t, init.Admins, 2)
	assert.Equal(t, code, init.CodeID.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"remote without url", func(c *Config) { c.Runtime.Mode = ModeRemote }, false},
		{"remote with url", func(c *Config) { c.Runtime.Mode = ModeRemote; c.Runtime.URL = "http://x" }, true},
		{"unknown mode", func(c *Config) { c.Runtime.Mode = "quantum" }, false},
		{"zero poll interval", func(c *Config) { c.Runtime.PollInterval = 0 }, false},
		{"negative mailbox", func(c *Config) { c.Factory.MailboxSize = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestInitMessageRequiresCode(t *testing.T) {
	_, err := Default().InitMessage()
	assert.Error(t, err)

	cfg := Default()
	cfg.Factory.CodeID = "0xnothex"
	_, err = cfg.InitMessage()
	assert.Error(t, err)
}

func TestInitFiles(t *testing.T) {
	want := types.InitConfigFactory{GasForProgram: 42}
	want.CodeID[31] = 0xcc
	want.Admins = []types.ActorAddress{{31: 0xaa}}

	docs := map[string]string{
		"init.yaml": "code_id: \"" + code + "\"\nfactory_admin_account:\n  - \"" + admin + "\"\ngas_for_program: 42\n",
		"init.toml": "code_id = \"" + code + "\"\nfactory_admin_account = [\"" + admin + "\"]\ngas_for_program = 42\n",
		"init.json": `{"code_id":"` + code + `","factory_admin_account":["` + admin + `"],"gas_for_program":42}`,
	}

	dir := t.TempDir()
	for name, body := range docs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			cfg := Default()
			cfg.Factory.CodeID = "ignored"
			cfg.Factory.InitFile = path

			got, err := cfg.InitMessage()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseInitDocument(".ini", nil)
	assert.Error(t, err)
}

package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fund3/omega-client/config"
)

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := config.New(config.WithServerPublicKey("key"), config.WithIdentity(1, "sender", ""))
	assert.Error(t, err)
}

func TestNewAppliesDefaults(t *testing.T) {
	cfg, err := config.New(
		config.WithEndpoint("tcp://127.0.0.1:9999"),
		config.WithServerPublicKey("key"),
		config.WithIdentity(1, "sender", ""),
	)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, config.DefaultRefreshSafetyFrac, cfg.RefreshSafetyFrac)
}

func TestNewAllowsEmptyServerPublicKey(t *testing.T) {
	cfg, err := config.New(
		config.WithEndpoint("tcp://127.0.0.1:9999"),
		config.WithIdentity(1, "sender", ""),
	)
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerPublicKey)
}

func TestNewRejectsOutOfRangeRefreshFraction(t *testing.T) {
	_, err := config.New(
		config.WithEndpoint("tcp://127.0.0.1:9999"),
		config.WithServerPublicKey("key"),
		config.WithIdentity(1, "sender", ""),
		config.WithRefreshSafetyFraction(1.5),
	)
	assert.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "omega-*.toml")
	require.NoError(t, err)
	_, err = f.WriteString(`
endpoint = "tcp://127.0.0.1:9999"
server_public_key = "key"
client_id = 1
sender_comp_id = "sender"
refresh_safety_fraction = 0.5
`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := config.FromTOML(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:9999", cfg.Endpoint)
	assert.Equal(t, 0.5, cfg.RefreshSafetyFrac)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnt/elwcore/internal/elw"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "elwcore")
	t.Setenv("OPERATOR_ADDRESS", "operator")
	t.Setenv("MULTISIG_ADDRESS", "multisig")
	t.Setenv("PRESALE_START", "1735689600")
	t.Setenv("PRESALE_END", "1743465600")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, []string{"https://hermes.pyth.network"}, cfg.OracleEndpoints)
	assert.Equal(t, elw.PresaleAllocation(), cfg.PresaleTotalAmount)
	assert.Equal(t, elw.DefaultPriceThreeMonths, cfg.PresalePriceThreeMonths)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "9100", cfg.MetricsPort)
}

func TestLoadValidation(t *testing.T) {
	t.Run("requires the database name", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_NAME", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_NAME")
	})

	t.Run("requires the presale window", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PRESALE_END", "")
		_, err := Load()
		assert.ErrorContains(t, err, "PRESALE_START and PRESALE_END")
	})

	t.Run("window must be ordered", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PRESALE_END", "1735689600")
		_, err := Load()
		assert.ErrorContains(t, err, "PRESALE_END must be after")
	})

	t.Run("rejects unknown log levels", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid LOG_LEVEL")
	})
}

func TestTeamMembers(t *testing.T) {
	t.Run("parses the list", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TEAM_MEMBERS", "alice:6000, bob:4000")

		cfg, err := Load()
		require.NoError(t, err)
		require.Len(t, cfg.TeamMembers, 2)
		assert.Equal(t, TeamMember{Address: "alice", ShareBasisPoints: 6000}, cfg.TeamMembers[0])
		assert.Equal(t, TeamMember{Address: "bob", ShareBasisPoints: 4000}, cfg.TeamMembers[1])
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TEAM_MEMBERS", "alice")
		_, err := Load()
		assert.ErrorContains(t, err, "TEAM_MEMBERS")
	})

	t.Run("rejects zero shares", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TEAM_MEMBERS", "alice:0")
		_, err := Load()
		assert.ErrorContains(t, err, "zero share")
	})

	t.Run("shares cannot exceed the whole", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TEAM_MEMBERS", "alice:6000,bob:6000")
		_, err := Load()
		assert.ErrorContains(t, err, "exceed 10000")
	})
}

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxcben/unit-repartition-project/internal/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "TOTAL_RENT", "PARTICIPANTS",
		"SESSION_SECRET", "DISCORD_TOKEN", "DISCORD_CHANNEL_ID",
		"ENABLE_TUNNEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Zero(t, cfg.TotalRent)
	assert.Empty(t, cfg.Participants)
	assert.False(t, cfg.EnableTunnel)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9001")
	t.Setenv("TOTAL_RENT", "3606")
	t.Setenv("PARTICIPANTS", "Karim, Hassan ,Benjamin")
	t.Setenv("ENABLE_TUNNEL", "true")
	t.Setenv("SESSION_SECRET", "hunter2")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9001", cfg.Addr())
	assert.Equal(t, engine.Amount(360600), cfg.TotalRent)
	assert.Equal(t, []string{"Karim", "Hassan", "Benjamin"}, cfg.Participants)
	assert.True(t, cfg.EnableTunnel)
	assert.Equal(t, "hunter2", cfg.SessionSecret)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOTAL_RENT", "1000")
	t.Setenv("PARTICIPANTS", "A,B")
	t.Setenv("PORT", "9001")

	cfg, err := Load([]string{
		"--total", "3606",
		"--names", "Karim,Hassan",
		"--port", "8080",
		"--host", "localhost",
		"--tunnel",
		"--debug",
	})
	require.NoError(t, err)

	assert.Equal(t, engine.Amount(360600), cfg.TotalRent)
	assert.Equal(t, []string{"Karim", "Hassan"}, cfg.Participants)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.True(t, cfg.EnableTunnel)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "eight thousand"},
		{"bad tunnel flag", "ENABLE_TUNNEL", "maybe"},
		{"bad total", "TOTAL_RENT", "a lot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrConfiguration)
		})
	}

	t.Run("unknown flag", func(t *testing.T) {
		clearEnv(t)
		_, err := Load([]string{"--frobnicate"})
		assert.Error(t, err)
	})

	t.Run("bad total flag", func(t *testing.T) {
		clearEnv(t)
		_, err := Load([]string{"--total", "many"})
		assert.ErrorIs(t, err, engine.ErrConfiguration)
	})
}

func TestWizardPromptsUntilValid(t *testing.T) {
	cfg := &Config{}
	in := strings.NewReader("-5\nnot a number\n3606\nKarim\nKarim, Hassan\n")
	var out strings.Builder

	require.NoError(t, cfg.Wizard(in, &out))

	assert.Equal(t, engine.Amount(360600), cfg.TotalRent)
	assert.Equal(t, []string{"Karim", "Hassan"}, cfg.Participants)
	assert.Contains(t, out.String(), "Total must be positive.")
	assert.Contains(t, out.String(), "Please enter a valid number.")
	assert.Contains(t, out.String(), "Please enter at least two names.")
}

func TestWizardPromptsPerName(t *testing.T) {
	cfg := &Config{TotalRent: 360600, nameCount: 3}
	in := strings.NewReader("Alice\n\nBob\nCarol\n")
	var out strings.Builder

	require.NoError(t, cfg.Wizard(in, &out))

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, cfg.Participants)
	assert.Contains(t, out.String(), "Name #3: ")
}

func TestWizardDropsDuplicateNames(t *testing.T) {
	cfg := &Config{
		TotalRent:    100000,
		Participants: []string{"Karim", "karim", "Hassan"},
	}
	var out strings.Builder

	require.NoError(t, cfg.Wizard(strings.NewReader(""), &out))

	assert.Equal(t, []string{"Karim", "Hassan"}, cfg.Participants)
	assert.Contains(t, out.String(), "duplicate names were removed")
}

func TestWizardFailsWhenDedupLeavesOneName(t *testing.T) {
	cfg := &Config{
		TotalRent:    100000,
		Participants: []string{"Karim", "KARIM"},
	}
	var out strings.Builder

	err := cfg.Wizard(strings.NewReader(""), &out)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestWizardSilentWhenConfigComplete(t *testing.T) {
	cfg := &Config{
		TotalRent:    360600,
		Participants: []string{"Karim", "Hassan"},
	}
	var out strings.Builder

	require.NoError(t, cfg.Wizard(strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}

func TestWizardFailsOnClosedInput(t *testing.T) {
	cfg := &Config{}
	var out strings.Builder

	err := cfg.Wizard(strings.NewReader(""), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Karim,Hassan", []string{"Karim", "Hassan"}},
		{" Karim , Hassan ,", []string{"Karim", "Hassan"}},
		{",,,", nil},
		{"", nil},
		{"Benjamin", []string{"Benjamin"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitNames(tt.raw), "splitNames(%q)", tt.raw)
	}
}

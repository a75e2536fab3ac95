package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progression.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), got)
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
[leveling]
base = 50.0
growth = 2.0

[pets]
hatch-duration = "12h"

[streak]
freeze-enabled = false
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50.0, got.XPBase)
	require.Equal(t, 2.0, got.XPGrowth)
	require.Equal(t, 12*time.Hour, got.HatchDuration)
	require.False(t, got.StreakFreezeEnabled)
}

func TestLoadPartialOverrideKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[pets]
hatch-duration = "1h"
`)

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Hour, got.HatchDuration)
	require.Equal(t, Default().XPBase, got.XPBase)
	require.Equal(t, Default().XPGrowth, got.XPGrowth)
	require.Equal(t, Default().StreakFreezeEnabled, got.StreakFreezeEnabled)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	path := writeConfig(t, `
[pets]
hatch-duration = "one day"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidTunables(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero base", "[leveling]\nbase = 0.0\n"},
		{"negative growth", "[leveling]\ngrowth = -1.0\n"},
		{"zero hatch", "[pets]\nhatch-duration = \"0s\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[leveling\nbase = "))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tun := Default()
	tun.XPGrowth = 0
	require.Error(t, tun.Validate())

	tun = Default()
	tun.HatchDuration = -time.Hour
	require.Error(t, tun.Validate())
}

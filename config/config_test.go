package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "Europe/Oslo", cfg.Timezone)
	assert.Equal(t, []string{"Reen", "Kris", "Neeko", "Zela", "Zuju"}, cfg.RosterList())
	assert.Equal(t, 12, cfg.GridFirstHour)
	assert.Equal(t, 24, cfg.GridLastHour)
	assert.False(t, cfg.RolloverTransactional)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("ROSTER", " ann , bob ,,")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("ROLLOVER_TRANSACTIONAL", "true")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, []string{"ann", "bob"}, cfg.RosterList())
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.True(t, cfg.RolloverTransactional)
}

func TestValidate(t *testing.T) {
	base := Config{
		StoreDriver:   "sqlite",
		Timezone:      "Europe/Oslo",
		WeekStart:     "wednesday",
		Roster:        "a,b",
		GridFirstHour: 12,
		GridLastHour:  24,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"driver":   func(c *Config) { c.StoreDriver = "dynamo" },
		"timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
		"week":     func(c *Config) { c.WeekStart = "someday" },
		"hours":    func(c *Config) { c.GridFirstHour = 20; c.GridLastHour = 10 },
		"roster":   func(c *Config) { c.Roster = " , " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Wednesday")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, d)

	d, err = ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)
}

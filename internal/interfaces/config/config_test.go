package config_test

import (
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := config.DefaultConfig()
	result := cfg.CheckValid(base.NewDiscardLogger())
	require.False(t, result.IsFail(), "%v", result.Error())

	assert.Equal(t, fsd.ServerTypeFSDServer, cfg.Client.Server.ServerType)
	assert.Equal(t, "127.0.0.1:6809", cfg.Client.Server.Address)
	assert.Equal(t, fsd.LoginModePilot, cfg.Client.User.Mode)
	assert.Equal(t, 5*time.Second, cfg.Client.Timing.PositionDuration)
	assert.Equal(t, 50*time.Millisecond, cfg.Client.Timing.SendQueueDuration)
}

func TestConfigVersion(t *testing.T) {
	testCases := []struct {
		version string
		valid   bool
	}{
		{config.ConfVersion.String(), true},
		{"0.2.9", true},
		{"0.3.0", false},
		{"1.2.0", false},
		{"0.2", false},
		{"a.b.c", false},
	}
	pass, fail := 0, 0
	for _, tc := range testCases {
		cfg := config.DefaultConfig()
		cfg.ConfigVersion = tc.version
		if got := !cfg.CheckValid(base.NewDiscardLogger()).IsFail(); got != tc.valid {
			fail++
			t.Errorf("config version %s valid = %v; expected %v", tc.version, got, tc.valid)
			continue
		}
		pass++
	}
	t.Logf("TestConfigVersion: %d pass, %d fail", pass, fail)
}

func TestClientConfigValidation(t *testing.T) {
	testCases := []struct {
		name   string
		update func(cfg *config.Config)
		valid  bool
	}{
		{"lower case callsign", func(cfg *config.Config) { cfg.Client.User.Callsign = " ces123 " }, true},
		{"callsign with colon", func(cfg *config.Config) { cfg.Client.User.Callsign = "CES:123" }, false},
		{"empty cid", func(cfg *config.Config) { cfg.Client.User.Cid = "" }, false},
		{"real name with colon", func(cfg *config.Config) { cfg.Client.User.RealName = "a:b" }, false},
		{"observer", func(cfg *config.Config) { cfg.Client.User.LoginMode = "observer" }, true},
		{"unknown login mode", func(cfg *config.Config) { cfg.Client.User.LoginMode = "atc" }, false},
		{"vatsim classic revision", func(cfg *config.Config) { cfg.Client.Server.Ecosystem = "vatsim" }, false},
		{"vatsim auth revision", func(cfg *config.Config) {
			cfg.Client.Server.Ecosystem = "vatsim"
			cfg.Client.Server.Revision = fsd.ProtocolRevisionVatsimAuth
		}, true},
		{"unknown ecosystem", func(cfg *config.Config) { cfg.Client.Server.Ecosystem = "ivao" }, false},
		{"zero port", func(cfg *config.Config) { cfg.Client.Server.Port = 0 }, false},
		{"negative duration", func(cfg *config.Config) { cfg.Client.Timing.PositionInterval = "-5s" }, false},
		{"bad duration", func(cfg *config.Config) { cfg.Client.Timing.InterimInterval = "fast" }, false},
		{"unknown raw log mode", func(cfg *config.Config) { cfg.Client.RawLog.Mode = "rotate" }, false},
		{"unknown text codec", func(cfg *config.Config) { cfg.Client.TextCodec = "gbk" }, false},
		{"missing section", func(cfg *config.Config) { cfg.Notify = nil }, false},
		{"unknown database", func(cfg *config.Config) { cfg.Database.Type = "oracle" }, false},
		{"database disabled", func(cfg *config.Config) {
			cfg.Database.Enabled = false
			cfg.Database.Type = "oracle"
		}, true},
	}
	pass, fail := 0, 0
	for _, tc := range testCases {
		cfg := config.DefaultConfig()
		tc.update(cfg)
		if got := !cfg.CheckValid(base.NewDiscardLogger()).IsFail(); got != tc.valid {
			fail++
			t.Errorf("%s: valid = %v; expected %v", tc.name, got, tc.valid)
			continue
		}
		pass++
	}
	t.Logf("TestClientConfigValidation: %d pass, %d fail", pass, fail)
}

func TestHttpServerConfigValidation(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.HttpServer.Enabled = true
	cfg.HttpServer.AdminPassword = string(hash)
	cfg.HttpServer.JWT.Secret = ""
	require.False(t, cfg.CheckValid(base.NewDiscardLogger()).IsFail())
	assert.Equal(t, "127.0.0.1:6810", cfg.HttpServer.Address)
	assert.Len(t, cfg.HttpServer.JWT.Secret, 64)
	assert.Equal(t, time.Hour, cfg.HttpServer.JWT.ExpiresDuration)
	assert.Equal(t, time.Minute, cfg.HttpServer.Limits.RateLimitDuration)

	cfg = config.DefaultConfig()
	cfg.HttpServer.Enabled = true
	cfg.HttpServer.AdminPassword = "plain-text"
	result := cfg.CheckValid(base.NewDiscardLogger())
	require.True(t, result.IsFail())
	assert.Error(t, result.OriginErr())

	cfg = config.DefaultConfig()
	cfg.HttpServer.Enabled = true
	cfg.HttpServer.SSL.Enable = true
	cfg.HttpServer.SSL.EnableHSTS = true
	require.False(t, cfg.CheckValid(base.NewDiscardLogger()).IsFail())
	assert.False(t, cfg.HttpServer.SSL.Enable, "ssl without cert falls back to http")
	assert.False(t, cfg.HttpServer.SSL.EnableHSTS)
}

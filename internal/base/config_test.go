package base

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, path string, update func(cfg *config.Config)) {
	cfg := config.DefaultConfig()
	cfg.Database.Enabled = false
	if update != nil {
		update(cfg)
	}
	require.NoError(t, saveConfig(path, cfg))
}

func TestManagerCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	manager := NewManagerWithPath(NewDiscardLogger(), path, "")

	_, err := manager.Load()
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "default configuration should be written")

	cfg, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "TEST123", cfg.Client.User.Callsign)
}

func TestManagerFormats(t *testing.T) {
	testCases := []string{"config.json", "config.yaml", "config.yml"}
	pass, fail := 0, 0
	for _, name := range testCases {
		path := filepath.Join(t.TempDir(), name)
		writeTestConfig(t, path, func(cfg *config.Config) { cfg.Client.User.Callsign = "ces123" })
		cfg, err := NewManagerWithPath(NewDiscardLogger(), path, "").Load()
		if err != nil || cfg.Client.User.Callsign != "CES123" {
			fail++
			t.Errorf("Load(%s) = %v, %v; expected callsign CES123", name, cfg, err)
			continue
		}
		pass++
	}
	t.Logf("TestManagerFormats: %d pass, %d fail", pass, fail)
}

func TestManagerEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeTestConfig(t, path, nil)
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(EnvPassword+"=from-env\n"), 0600))
	t.Setenv(EnvCid, "1234567")
	// godotenv不会覆盖已有变量, 测试结束后需要清理
	t.Cleanup(func() { _ = os.Unsetenv(EnvPassword) })

	manager := NewManagerWithPath(NewDiscardLogger(), path, envPath)
	cfg := manager.Config()
	assert.Equal(t, "1234567", cfg.Client.User.Cid)
	assert.Equal(t, "from-env", cfg.Client.User.Password)
}

func TestManagerReloadKeepsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeTestConfig(t, path, nil)
	manager := NewManagerWithPath(NewDiscardLogger(), path, "")
	original := manager.Config()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	assert.Error(t, manager.Reload())
	assert.Same(t, original, manager.Config())

	writeTestConfig(t, path, func(cfg *config.Config) { cfg.Client.User.Callsign = "CES888" })
	require.NoError(t, manager.Reload())
	assert.Equal(t, "CES888", manager.Config().Client.User.Callsign)
	require.NoError(t, manager.SaveConfig())
}

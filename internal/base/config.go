package base

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvCid       = "FSD_CID"
	EnvPassword  = "FSD_PASSWORD"
	EnvAuthKey   = "FSD_AUTH_KEY"
	EnvJwtSecret = "FSD_JWT_SECRET"
)

func isYaml(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshalConfig(path string, data []byte, cfg *config.Config) error {
	if isYaml(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func marshalConfig(path string, cfg *config.Config) ([]byte, error) {
	if isYaml(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "\t")
}

// applyEnvOverrides 敏感字段允许通过环境变量或.env文件覆盖
func applyEnvOverrides(logger log.LoggerInterface, cfg *config.Config) {
	if cfg.Client != nil && cfg.Client.User != nil {
		if value, ok := os.LookupEnv(EnvCid); ok && value != "" {
			logger.DebugF("Override client.user.cid from %s", EnvCid)
			cfg.Client.User.Cid = value
		}
		if value, ok := os.LookupEnv(EnvPassword); ok && value != "" {
			logger.DebugF("Override client.user.password from %s", EnvPassword)
			cfg.Client.User.Password = value
		}
	}
	if cfg.Client != nil && cfg.Client.Identity != nil {
		if value, ok := os.LookupEnv(EnvAuthKey); ok && value != "" {
			logger.DebugF("Override client.identity.client_key from %s", EnvAuthKey)
			cfg.Client.Identity.ClientKey = value
		}
	}
	if cfg.HttpServer != nil && cfg.HttpServer.JWT != nil {
		if value, ok := os.LookupEnv(EnvJwtSecret); ok && value != "" {
			logger.DebugF("Override http_server.jwt.secret from %s", EnvJwtSecret)
			cfg.HttpServer.JWT.Secret = value
		}
	}
}

func loadEnvFile(logger log.LoggerInterface, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.WarnF("Fail to load env file %s: %v", path, err)
		return
	}
	logger.DebugF("Env file %s loaded", path)
}

func readConfig(logger log.LoggerInterface, path string) (*config.Config, *config.ValidResult) {
	cfg := config.DefaultConfig()

	// 读取配置文件
	if bytes, err := os.ReadFile(path); err != nil {
		// 如果配置文件不存在，创建默认配置
		if err := saveConfig(path, cfg); err != nil {
			return nil, config.ValidFailWith(errors.New("fail to save configuration file while creating configuration file"), err)
		}
		return nil, config.ValidFail(errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file"))
	} else if err := unmarshalConfig(path, bytes, cfg); err != nil {
		return nil, config.ValidFailWith(errors.New("the configuration file could not be parsed"), err)
	}
	applyEnvOverrides(logger, cfg)
	if result := cfg.CheckValid(logger); result.IsFail() {
		return nil, result
	}
	return cfg, config.ValidPass()
}

func saveConfig(path string, cfg *config.Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, global.DefaultDirectoryPermission); err != nil {
			return err
		}
	}
	if writer, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, global.DefaultFilePermissions); err != nil {
		return err
	} else if data, err := marshalConfig(path, cfg); err != nil {
		_ = writer.Close()
		return err
	} else if _, err = writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	} else if err := writer.Close(); err != nil {
		return err
	}
	return nil
}

type Manager struct {
	config *utils.CachedValue[config.Config]
	logger log.LoggerInterface
	path   string
}

func NewManager(logger log.LoggerInterface) *Manager {
	return NewManagerWithPath(logger, *global.ConfigFilePath, *global.EnvFilePath)
}

func NewManagerWithPath(logger log.LoggerInterface, path string, envPath string) *Manager {
	loadEnvFile(logger, envPath)
	manager := &Manager{
		logger: logger,
		path:   path,
	}
	manager.config = utils.NewCachedValue(0, manager.getConfig)
	return manager
}

func (manager *Manager) getConfig() *config.Config {
	if cfg, result := readConfig(manager.logger, manager.path); result.IsFail() {
		manager.logger.Fatal(result.Error().Error())
		panic(result.OriginErr())
	} else {
		return cfg
	}
}

// Load 读取并校验配置, 失败时返回错误而不是退出
func (manager *Manager) Load() (*config.Config, error) {
	cfg, result := readConfig(manager.logger, manager.path)
	if result.IsFail() {
		if result.OriginErr() != nil {
			return nil, fmt.Errorf("%w: %v", result.Error(), result.OriginErr())
		}
		return nil, result.Error()
	}
	return cfg, nil
}

func (manager *Manager) Config() *config.Config {
	return manager.config.GetValue()
}

// Reload 校验通过后才替换缓存中的配置
func (manager *Manager) Reload() error {
	if _, err := manager.Load(); err != nil {
		return err
	}
	manager.config.Invalidate()
	manager.logger.Info("Configuration reloaded")
	return nil
}

func (manager *Manager) SaveConfig() error {
	return saveConfig(manager.path, manager.Config())
}

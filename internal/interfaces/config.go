// Package interfaces
package interfaces

import (
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
)

type ConfigManagerInterface interface {
	Config() *Config
	// Reload 重新读取配置文件, 校验失败时保留当前配置
	Reload() error
	SaveConfig() error
}

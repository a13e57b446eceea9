// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
)

type Config struct {
	ConfigVersion string            `json:"config_version" yaml:"config_version"`
	Client        *ClientConfig     `json:"client" yaml:"client"`
	Database      *DatabaseConfig   `json:"database" yaml:"database"`
	HttpServer    *HttpServerConfig `json:"http_server" yaml:"http_server"`
	Notify        *NotifyConfig     `json:"notify" yaml:"notify"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigVersion: ConfVersion.String(),
		Client:        defaultClientConfig(),
		Database:      defaultDatabaseConfig(),
		HttpServer:    defaultHttpServerConfig(),
		Notify:        defaultNotifyConfig(),
	}
}

func (c *Config) CheckValid(logger log.LoggerInterface) *ValidResult {
	if version, err := newVersion(c.ConfigVersion); err != nil {
		return ValidFailWith(errors.New("version string parse fail"), err)
	} else if !ConfVersion.Compatible(version) {
		return ValidFail(fmt.Errorf("config version mismatch, expected %s, got %s", ConfVersion.String(), version.String()))
	}
	if c.Client == nil || c.Database == nil || c.HttpServer == nil || c.Notify == nil {
		return ValidFail(errors.New("configuration file is missing one of client, database, http_server or notify"))
	}
	if result := c.Client.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Database.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.HttpServer.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Notify.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}

// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"golang.org/x/crypto/bcrypt"
	"time"
)

type SSLConfig struct {
	Enable          bool   `json:"enable" yaml:"enable"`
	EnableHSTS      bool   `json:"enable_hsts" yaml:"enable_hsts"`
	HstsExpiredTime int    `json:"hsts_expired_time" yaml:"hsts_expired_time"`
	IncludeDomain   bool   `json:"include_domain" yaml:"include_domain"`
	CertFile        string `json:"cert_file" yaml:"cert_file"`
	KeyFile         string `json:"key_file" yaml:"key_file"`
}

func defaultSSLConfig() *SSLConfig {
	return &SSLConfig{
		Enable:          false,
		EnableHSTS:      false,
		HstsExpiredTime: 5184000,
		IncludeDomain:   false,
	}
}

func (config *SSLConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.Enable && (config.CertFile == "" || config.KeyFile == "") {
		logger.WarnF("HTTPS requires both cert and key files. Cert: %s, Key: %s. Falling back to HTTP", config.CertFile, config.KeyFile)
		config.Enable = false
	}
	if !config.Enable && config.EnableHSTS {
		logger.Warn("You can not enable HSTS when ssl is not enable!")
		config.EnableHSTS = false
		config.HstsExpiredTime = 0
	}
	return ValidPass()
}

type HttpServerConfig struct {
	Enabled         bool             `json:"enabled" yaml:"enabled"`
	Host            string           `json:"host" yaml:"host"`
	Port            uint             `json:"port" yaml:"port"`
	Address         string           `json:"-" yaml:"-"`
	ProxyType       int              `json:"proxy_type" yaml:"proxy_type"` // 0 直连, 1 X-Forwarded-For, 2 X-Real-IP
	BodyLimit       string           `json:"body_limit" yaml:"body_limit"`
	RequestTimeout  string           `json:"request_timeout" yaml:"request_timeout"`
	RequestDuration time.Duration    `json:"-" yaml:"-"`
	AdminPassword   string           `json:"admin_password" yaml:"admin_password"` // bcrypt 哈希
	EnableMetrics   bool             `json:"enable_metrics" yaml:"enable_metrics"`
	Store           *ArchiveStore    `json:"store" yaml:"store"`
	Limits          *HttpServerLimit `json:"limits" yaml:"limits"`
	JWT             *JWTConfig       `json:"jwt" yaml:"jwt"`
	SSL             *SSLConfig       `json:"ssl" yaml:"ssl"`
}

func defaultHttpServerConfig() *HttpServerConfig {
	return &HttpServerConfig{
		Enabled:        false,
		Host:           "127.0.0.1",
		Port:           6810,
		ProxyType:      0,
		BodyLimit:      "1MB",
		RequestTimeout: "30s",
		AdminPassword:  "",
		EnableMetrics:  true,
		Store:          defaultArchiveStore(),
		Limits:         defaultHttpServerLimit(),
		JWT:            defaultJWTConfig(),
		SSL:            defaultSSLConfig(),
	}
}

func (config *HttpServerConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if result := config.Store.checkValid(logger); result.IsFail() {
		return result
	}
	if !config.Enabled {
		return ValidPass()
	}
	if result := checkPort(config.Port); result.IsFail() {
		return result
	}
	config.Address = fmt.Sprintf("%s:%d", config.Host, config.Port)

	if config.BodyLimit == "" {
		logger.WarnF("body_limit is empty, where the length of the request body is not restricted. This is a very dangerous behavior")
	}
	if config.ProxyType < 0 || config.ProxyType > 2 {
		return invalidField("http_server.proxy_type", "only support 0, 1, 2, got %d", config.ProxyType)
	}
	if duration, result := parseDuration("http_server.request_timeout", config.RequestTimeout); result.IsFail() {
		return result
	} else {
		config.RequestDuration = duration
	}
	if config.AdminPassword == "" {
		logger.Warn("http_server.admin_password is empty, control endpoints are disabled")
	} else if _, err := bcrypt.Cost([]byte(config.AdminPassword)); err != nil {
		return ValidFailWith(errors.New("invalid field http_server.admin_password, value must be a bcrypt hash"), err)
	}
	if result := config.SSL.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Limits.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.JWT.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}

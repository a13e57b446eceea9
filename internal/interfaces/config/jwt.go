// Package config
package config

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/thanhpk/randstr"
	"time"
)

type JWTConfig struct {
	Secret          string        `json:"secret" yaml:"secret"`
	Issuer          string        `json:"issuer" yaml:"issuer"`
	ExpiresTime     string        `json:"expires_time" yaml:"expires_time"`
	ExpiresDuration time.Duration `json:"-" yaml:"-"`
}

func defaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:      randstr.String(64),
		Issuer:      "simple-fsd-client",
		ExpiresTime: "1h",
	}
}

func (config *JWTConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if duration, result := parseDuration("http_server.jwt.expires_time", config.ExpiresTime); result.IsFail() {
		return result
	} else {
		config.ExpiresDuration = duration
	}

	if config.Secret == "" {
		config.Secret = randstr.String(64)
		logger.Debug("JWT secret is empty, generated a random one for this run")
	}
	if len(config.Secret) < 32 {
		logger.WarnF("JWT secret is only %d characters long, consider using at least 32", len(config.Secret))
	}

	return ValidPass()
}

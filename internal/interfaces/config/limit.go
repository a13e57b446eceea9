// Package config
package config

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"time"
)

type HttpServerLimit struct {
	RateLimit         int           `json:"rate_limit" yaml:"rate_limit"`
	RateLimitWindow   string        `json:"rate_limit_window" yaml:"rate_limit_window"`
	RateLimitDuration time.Duration `json:"-" yaml:"-"`
	TextLengthMax     int           `json:"text_length_max" yaml:"text_length_max"`
}

func defaultHttpServerLimit() *HttpServerLimit {
	return &HttpServerLimit{
		RateLimit:       60,
		RateLimitWindow: "1m",
		TextLengthMax:   256,
	}
}

func (config *HttpServerLimit) checkValid(_ log.LoggerInterface) *ValidResult {
	if duration, result := parseDuration("http_server.limits.rate_limit_window", config.RateLimitWindow); result.IsFail() {
		return result
	} else {
		config.RateLimitDuration = duration
	}
	if config.RateLimit <= 0 {
		return invalidField("http_server.limits.rate_limit", "value must larger than 0")
	}
	if config.TextLengthMax <= 0 {
		return invalidField("http_server.limits.text_length_max", "value must larger than 0")
	}
	return ValidPass()
}

// Package config
package config

import (
	"errors"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"gopkg.in/gomail.v2"
	"time"
)

// NotifyConfig 被踢出或遇到致命服务器错误时发送告警邮件
type NotifyConfig struct {
	Enabled      bool           `json:"enabled" yaml:"enabled"`
	Host         string         `json:"host" yaml:"host"`
	Port         int            `json:"port" yaml:"port"`
	EmailServer  *gomail.Dialer `json:"-" yaml:"-"`
	Username     string         `json:"username" yaml:"username"`
	Password     string         `json:"password" yaml:"password"`
	From         string         `json:"from" yaml:"from"`
	To           []string       `json:"to" yaml:"to"`
	SendInterval string         `json:"send_interval" yaml:"send_interval"`
	SendDuration time.Duration  `json:"-" yaml:"-"`
	TestDial     bool           `json:"test_dial" yaml:"test_dial"`
}

func defaultNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		Enabled:      false,
		Host:         "smtp.example.com",
		Port:         465,
		Username:     "example@example.com",
		Password:     "123456",
		From:         "example@example.com",
		To:           make([]string, 0),
		SendInterval: "1m",
		TestDial:     true,
	}
}

func (config *NotifyConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	if duration, result := parseDuration("notify.send_interval", config.SendInterval); result.IsFail() {
		return result
	} else {
		config.SendDuration = duration
	}
	if len(config.To) == 0 {
		return ValidFail(errors.New("invalid field notify.to, at least one receiver required"))
	}
	if config.From == "" {
		config.From = config.Username
	}

	config.EmailServer = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if config.TestDial {
		dial, err := config.EmailServer.Dial()
		if err != nil {
			return ValidFailWith(errors.New("connecting to smtp server fail"), err)
		}
		_ = dial.Close()
	}

	return ValidPass()
}

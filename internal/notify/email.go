// Package notify 严重事件的邮件告警
package notify

import (
	"context"
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"gopkg.in/gomail.v2"
	"html/template"
	"strings"
	"sync"
	"time"
)

const pendingMailSize = 16

var (
	ErrEmailSendInterval = errors.New("email send interval")
	ErrNotifierClosed    = errors.New("notifier is closed")
	ErrMailQueueFull     = errors.New("mail queue is full")
)

// mailSender 便于测试替换, *gomail.Dialer 满足该接口
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type alertTemplateData struct {
	Subject string
	Lines   []string
	Time    string
	Version string
}

var alertTemplate = template.Must(template.New("alert").Parse(
	`<h3>{{.Subject}}</h3>{{range .Lines}}<p>{{.}}</p>{{end}}<hr/><small>{{.Time}} simple-fsd-client {{.Version}}</small>`))

// EmailNotifier 按发送间隔节流, 邮件在后台协程中发出
type EmailNotifier struct {
	logger   log.LoggerInterface
	config   *config.NotifyConfig
	sender   mailSender
	lock     sync.Mutex
	lastSend time.Time
	closed   bool
	pending  chan *gomail.Message
	done     chan struct{}
	now      func() time.Time
}

func NewEmailNotifier(logger log.LoggerInterface, config *config.NotifyConfig) *EmailNotifier {
	return newEmailNotifier(logger, config, config.EmailServer)
}

func newEmailNotifier(logger log.LoggerInterface, config *config.NotifyConfig, sender mailSender) *EmailNotifier {
	notifier := &EmailNotifier{
		logger:  logger,
		config:  config,
		sender:  sender,
		pending: make(chan *gomail.Message, pendingMailSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go notifier.run()
	return notifier
}

func (notifier *EmailNotifier) run() {
	defer close(notifier.done)
	for message := range notifier.pending {
		if err := notifier.sender.DialAndSend(message); err != nil {
			notifier.logger.ErrorF("Fail to send alert email %v, %v", message.GetHeader("Subject"), err)
		}
	}
}

func RenderAlert(subject string, body string, now time.Time) (string, error) {
	data := &alertTemplateData{
		Subject: subject,
		Lines:   strings.Split(body, "\n"),
		Time:    now.UTC().Format(time.RFC3339),
		Version: global.AppVersion,
	}
	var sb strings.Builder
	if err := alertTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (notifier *EmailNotifier) Notify(subject string, body string) error {
	notifier.lock.Lock()
	defer notifier.lock.Unlock()
	if notifier.closed {
		return ErrNotifierClosed
	}
	now := notifier.now()
	if !notifier.lastSend.IsZero() && now.Sub(notifier.lastSend) < notifier.config.SendDuration {
		return ErrEmailSendInterval
	}

	content, err := RenderAlert(subject, body, now)
	if err != nil {
		return fmt.Errorf("error rendering alert template: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", notifier.config.From)
	m.SetHeader("To", notifier.config.To...)
	m.SetHeader("Subject", "[FSD] "+subject)
	m.SetBody("text/html", content)

	select {
	case notifier.pending <- m:
	default:
		return ErrMailQueueFull
	}
	notifier.lastSend = now
	notifier.logger.InfoF("Sending alert email \"%s\" to %s", subject, strings.Join(notifier.config.To, ","))
	return nil
}

// Invoke 停止接收新告警并等待已排队的邮件发出
func (notifier *EmailNotifier) Invoke(ctx context.Context) error {
	notifier.lock.Lock()
	if !notifier.closed {
		notifier.closed = true
		close(notifier.pending)
	}
	notifier.lock.Unlock()
	select {
	case <-notifier.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewNotifier 未启用时返回nil
func NewNotifier(logger log.LoggerInterface, notifyConfig *config.NotifyConfig) *EmailNotifier {
	if notifyConfig == nil || !notifyConfig.Enabled || notifyConfig.EmailServer == nil {
		return nil
	}
	return NewEmailNotifier(logger, notifyConfig)
}

var (
	_ fsd.Notifier    = (*EmailNotifier)(nil)
	_ global.Callable = (*EmailNotifier)(nil)
)

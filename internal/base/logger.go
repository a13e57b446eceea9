// Package base
package base

import (
	"context"
	"fmt"
	"github.com/fatih/color"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const LevelFatal = slog.Level(12)

// Logger 基于slog的日志实现, 控制台输出带颜色, 文件输出为纯文本
type Logger struct {
	logger   *slog.Logger
	file     *os.File
	handler  slog.Handler
	exitFunc func(code int)
	mu       sync.Mutex
}

func NewLogger() *Logger {
	return &Logger{exitFunc: os.Exit}
}

// NewLoggerWithHandler 使用外部handler构造日志, 不会打开日志文件
func NewLoggerWithHandler(handler slog.Handler) *Logger {
	return &Logger{
		logger:   slog.New(handler),
		handler:  handler,
		exitFunc: os.Exit,
	}
}

// NewDiscardLogger 丢弃所有输出, Fatal不会退出进程
func NewDiscardLogger() *Logger {
	logger := NewLoggerWithHandler(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.exitFunc = func(int) {}
	return logger
}

func (l *Logger) Init(debug bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handler != nil {
		return
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{newConsoleHandler(os.Stdout, level)}

	if err := os.MkdirAll(filepath.Dir(global.DefaultLogFile), global.DefaultDirectoryPermission); err == nil {
		file, err := os.OpenFile(global.DefaultLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, global.DefaultFilePermissions)
		if err == nil {
			l.file = file
			handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}))
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "fail to open log file %s: %v\n", global.DefaultLogFile, err)
		}
	}

	l.handler = &multiHandler{handlers: handlers}
	l.logger = slog.New(l.handler)
	slog.SetDefault(l.logger)
}

func (l *Logger) Handler() slog.Handler {
	return l.handler
}

type loggerShutdownCallback struct {
	logger *Logger
}

func (c *loggerShutdownCallback) Invoke(_ context.Context) error {
	c.logger.mu.Lock()
	defer c.logger.mu.Unlock()
	if c.logger.file == nil {
		return nil
	}
	if err := c.logger.file.Sync(); err != nil {
		return err
	}
	err := c.logger.file.Close()
	c.logger.file = nil
	return err
}

func (l *Logger) ShutdownCallback() global.Callable {
	return &loggerShutdownCallback{logger: l}
}

func (l *Logger) log(level slog.Level, msg string, v ...interface{}) {
	if l.logger == nil {
		l.Init(false)
	}
	l.logger.Log(context.Background(), level, msg, v...)
}

func (l *Logger) logf(level slog.Level, msg string, v ...interface{}) {
	if l.logger == nil {
		l.Init(false)
	}
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(msg, v...))
}

func (l *Logger) Debug(msg string, v ...interface{})  { l.log(slog.LevelDebug, msg, v...) }
func (l *Logger) DebugF(msg string, v ...interface{}) { l.logf(slog.LevelDebug, msg, v...) }
func (l *Logger) Info(msg string, v ...interface{})   { l.log(slog.LevelInfo, msg, v...) }
func (l *Logger) InfoF(msg string, v ...interface{})  { l.logf(slog.LevelInfo, msg, v...) }
func (l *Logger) Warn(msg string, v ...interface{})   { l.log(slog.LevelWarn, msg, v...) }
func (l *Logger) WarnF(msg string, v ...interface{})  { l.logf(slog.LevelWarn, msg, v...) }
func (l *Logger) Error(msg string, v ...interface{})  { l.log(slog.LevelError, msg, v...) }
func (l *Logger) ErrorF(msg string, v ...interface{}) { l.logf(slog.LevelError, msg, v...) }

func (l *Logger) Fatal(msg string, v ...interface{}) {
	l.log(LevelFatal, msg, v...)
	l.exitFunc(1)
}

func (l *Logger) FatalF(msg string, v ...interface{}) {
	l.logf(LevelFatal, msg, v...)
	l.exitFunc(1)
}

func levelName(level slog.Level) string {
	if level >= LevelFatal {
		return "FATAL"
	}
	return level.String()
}

func replaceLevel(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(level))
		}
	}
	return attr
}

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
	"FATAL": color.New(color.FgHiRed, color.Bold),
}

// consoleHandler 单行彩色输出: 时间 级别 消息 key=value...
type consoleHandler struct {
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
	group  string
	mu     *sync.Mutex
}

func newConsoleHandler(writer io.Writer, level slog.Level) *consoleHandler {
	return &consoleHandler{writer: writer, level: level, mu: &sync.Mutex{}}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	builder := strings.Builder{}
	builder.WriteString(color.HiBlackString(record.Time.Format("2006-01-02 15:04:05.000")))
	builder.WriteByte(' ')
	name := levelName(record.Level)
	if c, ok := levelColors[name]; ok {
		builder.WriteString(c.Sprintf("%-5s", name))
	} else {
		builder.WriteString(name)
	}
	builder.WriteByte(' ')
	builder.WriteString(record.Message)
	appendAttr := func(attr slog.Attr) bool {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		builder.WriteByte(' ')
		builder.WriteString(color.BlueString(key))
		builder.WriteByte('=')
		builder.WriteString(attr.Value.String())
		return true
	}
	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	record.Attrs(appendAttr)
	builder.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, builder.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
		group:  h.group,
		mu:     h.mu,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &consoleHandler{writer: h.writer, level: h.level, attrs: h.attrs, group: group, mu: h.mu}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

package fsd_client

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	rawSentPrefix = "FSD Sent=>"
	rawRecvPrefix = "FSD Recv=>"
)

var loginPasswordRegex = regexp.MustCompile(`^(#AP\w+:SERVER:\d+:)[^:]+(:\d+:\d+:\d+:.+)$`)

// rawTap 原始报文的镜像, 写入日志文件并交给回调
type rawTap struct {
	logger         log.LoggerInterface
	config         *config.RawLogConfig
	file           *os.File
	filterPassword bool
	emit           func(line string)
}

func newRawTap(logger log.LoggerInterface, cfg *config.RawLogConfig, emit func(line string)) *rawTap {
	return &rawTap{
		logger: logger,
		config: cfg,
		emit:   emit,
	}
}

// Open 按模式打开日志文件, 已打开的文件会先关闭
func (t *rawTap) Open(now time.Time) error {
	t.Close()
	if t.config == nil || t.config.Mode == config.RawLogNone || t.config.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(t.config.Directory, global.DefaultDirectoryPermission); err != nil {
		return fmt.Errorf("failed to create raw log directory: %w", err)
	}
	flag := os.O_CREATE | os.O_WRONLY
	filename := "rawfsdmessages.log"
	switch t.config.Mode {
	case config.RawLogTruncate:
		flag |= os.O_TRUNC
	case config.RawLogAppend:
		flag |= os.O_APPEND
	case config.RawLogTimestamped:
		flag |= os.O_TRUNC
		filename = fmt.Sprintf("rawfsdmessages_%s.log", now.UTC().Format("060102150405"))
	}
	file, err := os.OpenFile(filepath.Join(t.config.Directory, filename), flag, global.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open raw log file: %w", err)
	}
	t.file = file
	return nil
}

// Path 当前日志文件路径, 未打开时为空
func (t *rawTap) Path() string {
	if t.file == nil {
		return ""
	}
	return t.file.Name()
}

func (t *rawTap) Close() {
	if t.file == nil {
		return
	}
	if err := t.file.Close(); err != nil {
		t.logger.WarnF("[RawTap] Error while closing raw log file, %v", err)
	}
	t.file = nil
}

// ArmPasswordFilter 下一条#AP报文中的密码会被替换
func (t *rawTap) ArmPasswordFilter() {
	t.filterPassword = true
}

func (t *rawTap) Sent(line string) { t.write(line, true) }

func (t *rawTap) Received(line string) { t.write(line, false) }

func (t *rawTap) write(line string, sent bool) {
	if t.file == nil && (t.config == nil || !t.config.Emit) {
		return
	}
	line = strings.TrimRight(line, "\r\n")
	if t.filterPassword && strings.HasPrefix(line, "#AP") {
		line = loginPasswordRegex.ReplaceAllString(line, "${1}<password>${2}")
		t.filterPassword = false
	}
	prefix := rawRecvPrefix
	if sent {
		prefix = rawSentPrefix
	}
	line = prefix + line
	if t.file != nil {
		if _, err := fmt.Fprintf(t.file, "%s %s\n", time.Now().UTC().Format(time.RFC3339), line); err != nil {
			t.logger.WarnF("[RawTap] Error while writing raw log, %v", err)
		}
	}
	if t.config != nil && t.config.Emit && t.emit != nil {
		t.emit(line)
	}
}

package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"regexp"
	"strings"
	"time"
)

const atisQueryTimeout = 5 * time.Second

// 最后一行是0到4位数字加z的下线时间
var atisLogoffRegex = regexp.MustCompile(`^\d{0,4}z$`)

type pendingAtisQuery struct {
	queryTime time.Time
	lines     []string
}

type atisMessage struct {
	voiceRoom  string
	textLines  []string
	zuluLogoff string
	lineCount  int
}

type atisOutcome int

const (
	atisIncomplete atisOutcome = iota
	// atisTimedOut 超时后作为普通文本消息放出
	atisTimedOut
	atisCompleted
)

type atisResult struct {
	outcome atisOutcome
	zulu    string
	lines   []string
}

// atisRegistry 两种ATIS应答的组装状态
// 非VATSIM服务器以私聊文本回复ATIS, VATSIM服务器使用$CR ATIS
type atisRegistry struct {
	pending  map[string]*pendingAtisQuery
	messages map[string]*atisMessage
}

func newAtisRegistry() *atisRegistry {
	return &atisRegistry{
		pending:  make(map[string]*pendingAtisQuery),
		messages: make(map[string]*atisMessage),
	}
}

func (r *atisRegistry) AddPendingQuery(callsign string, now time.Time) {
	r.pending[callsign] = &pendingAtisQuery{queryTime: now}
}

func (r *atisRegistry) HasPendingQuery(callsign string) bool {
	_, ok := r.pending[callsign]
	return ok
}

// HandlePendingLine 处理一行私聊形式的ATIS
func (r *atisRegistry) HandlePendingLine(sender string, line string, now time.Time) atisResult {
	query, ok := r.pending[sender]
	if !ok {
		return atisResult{outcome: atisIncomplete}
	}
	query.lines = append(query.lines, line)

	if now.Sub(query.queryTime) > atisQueryTimeout {
		delete(r.pending, sender)
		return atisResult{outcome: atisTimedOut, lines: query.lines}
	}
	if atisLogoffRegex.MatchString(line) {
		delete(r.pending, sender)
		return atisResult{outcome: atisCompleted, zulu: line, lines: query.lines}
	}
	return atisResult{outcome: atisIncomplete}
}

// UpdateMap 处理一行$CR ATIS应答, E行到达时返回组装好的内容
func (r *atisRegistry) UpdateMap(callsign string, lineType fsd.AtisLineType, line string) atisResult {
	switch lineType {
	case fsd.AtisLineVoiceRoom:
		message := r.message(callsign)
		message.voiceRoom = line
		message.lineCount++
		return atisResult{outcome: atisIncomplete}
	case fsd.AtisLineText:
		message := r.message(callsign)
		message.textLines = append(message.textLines, line)
		message.lineCount++
		return atisResult{outcome: atisIncomplete}
	case fsd.AtisLineZuluLogoff:
		message := r.message(callsign)
		message.zuluLogoff = line
		message.lineCount++
		return atisResult{outcome: atisIncomplete}
	}

	message, ok := r.messages[callsign]
	if !ok {
		return atisResult{outcome: atisIncomplete}
	}
	delete(r.messages, callsign)

	lines := make([]string, 0, len(message.textLines))
	for _, textLine := range message.textLines {
		fixed := strings.TrimSpace(textLine)
		if fixed == "" || isAtisPlaceholder(fixed) {
			continue
		}
		lines = append(lines, fixed)
	}
	return atisResult{outcome: atisCompleted, zulu: message.zuluLogoff, lines: lines}
}

// isAtisPlaceholder 过滤z, z1, z2之类的占位行
func isAtisPlaceholder(line string) bool {
	test := strings.NewReplacer("\n", "", "\t", "", "\r", "").Replace(strings.ToLower(line))
	if len(test) == 1 {
		return true
	}
	return len(test) == 2 && strings.HasPrefix(test, "z")
}

func (r *atisRegistry) message(callsign string) *atisMessage {
	message, ok := r.messages[callsign]
	if !ok {
		message = &atisMessage{}
		r.messages[callsign] = message
	}
	return message
}

func (r *atisRegistry) Remove(callsign string) {
	delete(r.pending, callsign)
}

func (r *atisRegistry) Clear() {
	clear(r.pending)
	clear(r.messages)
}

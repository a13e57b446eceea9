package fsd_client

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/prometheus/client_golang/prometheus"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const maxTimedCalls = 50

var (
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsd_client_messages_total",
			Help: "FSD messages sent and received, by message kind.",
		},
		[]string{"direction", "kind"},
	)
	connectionStatusGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fsd_client_connection_status",
		Help: "Connection status, 0 disconnected, 1 connecting, 2 connected, 3 disconnecting.",
	})
	sendQueueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fsd_client_send_queue_length",
		Help: "Messages waiting in the send queue.",
	})
	atcStationsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fsd_client_atc_stations",
		Help: "Known ATC stations.",
	})
)

func init() {
	prometheus.MustRegister(messagesTotal)
	prometheus.MustRegister(connectionStatusGauge)
	prometheus.MustRegister(sendQueueGauge)
	prometheus.MustRegister(atcStationsGauge)
}

type timedCall struct {
	timestamp  time.Time
	identifier string
}

// ClientStatistics 按标识统计调用次数, 并保留最近的调用记录
type ClientStatistics struct {
	lock          sync.RWMutex
	enabled       bool
	counts        map[string]int
	callByTime    []timedCall
	totalSent     int
	totalReceived int
}

func NewClientStatistics(enabled bool) *ClientStatistics {
	return &ClientStatistics{
		enabled: enabled,
		counts:  make(map[string]int),
	}
}

func (s *ClientStatistics) Enabled() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.enabled
}

func (s *ClientStatistics) SetEnabled(enabled bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.enabled = enabled
}

// Increase 计数加一, appendix不为空时标识为 identifier.appendix, 未启用时返回-1
func (s *ClientStatistics) Increase(identifier string, appendix string) int {
	if identifier == "" {
		return -1
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.enabled {
		return -1
	}
	if appendix != "" {
		identifier = identifier + "." + appendix
	}
	s.counts[identifier]++
	s.callByTime = append([]timedCall{{timestamp: time.Now(), identifier: identifier}}, s.callByTime...)
	if len(s.callByTime) > maxTimedCalls {
		s.callByTime = s.callByTime[:maxTimedCalls]
	}
	return s.counts[identifier]
}

// CountSent 只计入总数与指标, 具体发送动作由调用方自行Increase
func (s *ClientStatistics) CountSent(kind string) {
	messagesTotal.WithLabelValues("sent", kind).Inc()
	s.lock.Lock()
	s.totalSent++
	s.lock.Unlock()
}

func (s *ClientStatistics) CountReceived(kind string) {
	messagesTotal.WithLabelValues("received", kind).Inc()
	s.lock.Lock()
	s.totalReceived++
	s.lock.Unlock()
	s.Increase("parseMessage", kind)
}

func (s *ClientStatistics) Totals() (sent int, received int) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.totalSent, s.totalReceived
}

func (s *ClientStatistics) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	clear(s.counts)
	s.callByTime = nil
	s.totalSent = 0
	s.totalReceived = 0
}

type countEntry struct {
	identifier string
	count      int
}

// Summary 文本形式的统计, sortByCount为true时按次数降序, 否则按标识排序
// 之后附上最近调用, 时间为相对最新一次调用的毫秒数
func (s *ClientStatistics) Summary(sortByCount bool, separator string) string {
	s.lock.RLock()
	entries := make([]countEntry, 0, len(s.counts))
	for identifier, count := range s.counts {
		entries = append(entries, countEntry{identifier, count})
	}
	calls := append([]timedCall(nil), s.callByTime...)
	s.lock.RUnlock()

	if len(entries) == 0 {
		return ""
	}
	sort.Slice(entries, func(i, j int) bool {
		if sortByCount && entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].identifier < entries[j].identifier
	})

	lines := make([]string, 0, len(entries)+len(calls))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s: %d", entry.identifier, entry.count))
	}
	if len(calls) > 0 {
		last := calls[0].timestamp
		for _, call := range calls {
			lines = append(lines, fmt.Sprintf("%05d: %s", last.Sub(call.timestamp).Milliseconds(), call.identifier))
		}
	}
	return strings.Join(lines, separator)
}

func (s *ClientStatistics) Snapshot() fsd.Statistics {
	s.lock.RLock()
	counts := make(map[string]int, len(s.counts))
	for identifier, count := range s.counts {
		counts[identifier] = count
	}
	sent, received := s.totalSent, s.totalReceived
	s.lock.RUnlock()
	return fsd.Statistics{
		TotalSent:     sent,
		TotalReceived: received,
		Counts:        counts,
		Summary:       s.Summary(true, "\n"),
	}
}

// SaveToFile 写入 networkstatistics_<yyMMddhhmmss>_<server>.log, 没有统计时返回空路径
func (s *ClientStatistics) SaveToFile(directory string, server string, now time.Time) (string, error) {
	summary := s.Summary(true, "\n")
	if summary == "" {
		return "", nil
	}
	if err := os.MkdirAll(directory, global.DefaultDirectoryPermission); err != nil {
		return "", fmt.Errorf("failed to create statistics directory: %w", err)
	}
	filename := fmt.Sprintf("networkstatistics_%s_%s.log", now.UTC().Format("060102150405"), sanitizeFilename(server))
	path := filepath.Join(directory, filename)
	if err := os.WriteFile(path, []byte(summary), global.DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write statistics file: %w", err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

type rangeFloor struct {
	suffix string
	floor  int
}

// atcRangeFloors 按顺序匹配呼号最后一段, 单位海里
var atcRangeFloors = []rangeFloor{
	{"ATIS", 150},
	{"GND", 10},
	{"TWR", 25},
	{"DEP", 150},
	{"APP", 150},
	{"CTR", 300},
	{"FSS", 1500},
}

// FixAtcRange 部分服务器下发的可视范围偏小, 按席位类型给出最低范围
func FixAtcRange(callsign string, reported int) int {
	if reported < 0 {
		reported = 0
	}
	index := strings.LastIndex(callsign, "_")
	if index < 0 {
		return reported
	}
	suffix := strings.ToUpper(callsign[index+1:])
	for _, entry := range atcRangeFloors {
		if strings.Contains(suffix, entry.suffix) {
			return max(reported, entry.floor)
		}
	}
	return reported
}

const (
	channelSpacing833 = 25.0 / 3
	// 发送无线电消息时允许的频率偏差
	frequencyToleranceKHz = 5
)

// RoundToChannelSpacing 将kHz频率对齐到8.33kHz信道
func RoundToChannelSpacing(frequencyKHz int) int {
	channel := math.Round(float64(frequencyKHz) / channelSpacing833)
	return int(math.Round(channel * channelSpacing833))
}

// atcTable 已知管制席位, 只在客户端工作协程中修改, 读取可并发
type atcTable struct {
	lock     sync.RWMutex
	stations map[string]*fsd.AtcStation
}

func newAtcTable() *atcTable {
	return &atcTable{stations: make(map[string]*fsd.AtcStation)}
}

func (t *atcTable) Upsert(station fsd.AtcStation) {
	station.LastUpdate = time.Now()
	t.lock.Lock()
	defer t.lock.Unlock()
	t.stations[station.Callsign] = &station
}

func (t *atcTable) Remove(callsign string) {
	t.lock.Lock()
	defer t.lock.Unlock()
	delete(t.stations, callsign)
}

func (t *atcTable) Get(callsign string) (fsd.AtcStation, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	station, ok := t.stations[callsign]
	if !ok {
		return fsd.AtcStation{}, false
	}
	return *station, true
}

func (t *atcTable) Clear() {
	t.lock.Lock()
	defer t.lock.Unlock()
	clear(t.stations)
}

func (t *atcTable) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.stations)
}

// Snapshot 按呼号排序的副本
func (t *atcTable) Snapshot() []fsd.AtcStation {
	t.lock.RLock()
	stations := make([]fsd.AtcStation, 0, len(t.stations))
	for _, station := range t.stations {
		stations = append(stations, *station)
	}
	t.lock.RUnlock()
	sort.Slice(stations, func(i, j int) bool { return stations[i].Callsign < stations[j].Callsign })
	return stations
}

// Positions 所有席位的位置, 供距离判断使用
func (t *atcTable) Positions() []fsd.Position {
	t.lock.RLock()
	defer t.lock.RUnlock()
	positions := make([]fsd.Position, 0, len(t.stations))
	for _, station := range t.stations {
		positions = append(positions, station.Position)
	}
	return positions
}

// SnapFrequency 若附近有频率相差不超过信道间隔的席位, 使用离本机最近的那个席位的频率
func (t *atcTable) SnapFrequency(frequencyKHz int, ownPosition fsd.Position) int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	best := frequencyKHz
	bestDistance := math.MaxFloat64
	for _, station := range t.stations {
		diff := station.Frequency - frequencyKHz
		if diff < 0 {
			diff = -diff
		}
		if diff > frequencyToleranceKHz {
			continue
		}
		distance := math.MaxFloat64 / 2
		if ownPosition.PositionValid() && station.Position.PositionValid() {
			distance = fsd.DistanceInNauticalMiles(ownPosition, station.Position)
		}
		if distance < bestDistance {
			bestDistance = distance
			best = station.Frequency
		}
	}
	return best
}

package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"sync"
	"time"
)

const (
	// DefaultRemoteRangeNm 未配置时认为该距离内的航空器在范围内
	DefaultRemoteRangeNm = 150.0
	remoteExpireTime     = 5 * time.Minute
)

// StaticOwnAircraft 没有模拟器接入时使用的本机状态, 可以由外部更新
type StaticOwnAircraft struct {
	lock     sync.RWMutex
	aircraft fsd.OwnAircraft
}

func NewStaticOwnAircraft(aircraft fsd.OwnAircraft) *StaticOwnAircraft {
	return &StaticOwnAircraft{aircraft: aircraft}
}

func (s *StaticOwnAircraft) OwnAircraft() fsd.OwnAircraft {
	s.lock.RLock()
	defer s.lock.RUnlock()
	aircraft := s.aircraft
	aircraft.Parts = copyParts(s.aircraft.Parts)
	return aircraft
}

func (s *StaticOwnAircraft) Update(update func(aircraft *fsd.OwnAircraft)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	update(&s.aircraft)
}

type remoteAircraft struct {
	position   fsd.Position
	lastUpdate time.Time
}

// DistanceRangeProvider 根据收到的位置报告判断远端航空器与本机的距离
type DistanceRangeProvider struct {
	lock        sync.RWMutex
	own         fsd.OwnAircraftProvider
	rangeNm     float64
	receiveAll  bool
	aircraft    map[string]*remoteAircraft
	lastCleanup time.Time
}

func NewDistanceRangeProvider(own fsd.OwnAircraftProvider, rangeNm float64, receiveParts bool) *DistanceRangeProvider {
	if rangeNm <= 0 {
		rangeNm = DefaultRemoteRangeNm
	}
	return &DistanceRangeProvider{
		own:        own,
		rangeNm:    rangeNm,
		receiveAll: receiveParts,
		aircraft:   make(map[string]*remoteAircraft),
	}
}

// HandleEvent 作为事件监听注册到客户端
func (p *DistanceRangeProvider) HandleEvent(event fsd.Event) {
	switch e := event.(type) {
	case fsd.PilotSituationUpdated:
		p.update(e.Situation.Callsign, e.Situation.Position)
	case fsd.PilotDeleted:
		p.lock.Lock()
		delete(p.aircraft, e.Callsign)
		p.lock.Unlock()
	case fsd.ConnectionStatusChanged:
		if e.New == fsd.Disconnected {
			p.lock.Lock()
			clear(p.aircraft)
			p.lock.Unlock()
		}
	}
}

func (p *DistanceRangeProvider) update(callsign string, position fsd.Position) {
	now := time.Now()
	p.lock.Lock()
	defer p.lock.Unlock()
	p.aircraft[callsign] = &remoteAircraft{position: position, lastUpdate: now}
	if now.Sub(p.lastCleanup) < remoteExpireTime {
		return
	}
	p.lastCleanup = now
	for key, aircraft := range p.aircraft {
		if now.Sub(aircraft.lastUpdate) > remoteExpireTime {
			delete(p.aircraft, key)
		}
	}
}

func (p *DistanceRangeProvider) IsInRange(callsign string) bool {
	p.lock.RLock()
	aircraft, ok := p.aircraft[callsign]
	p.lock.RUnlock()
	if !ok {
		return false
	}
	own := p.own.OwnAircraft()
	// 本机位置未知时不做距离过滤
	if !own.Position.PositionValid() || !aircraft.position.PositionValid() {
		return true
	}
	return fsd.DistanceInNauticalMiles(own.Position, aircraft.position) <= p.rangeNm
}

func (p *DistanceRangeProvider) ReceivesParts(callsign string) bool {
	return p.receiveAll && p.IsInRange(callsign)
}

var (
	_ fsd.OwnAircraftProvider    = (*StaticOwnAircraft)(nil)
	_ fsd.RemoteAircraftProvider = (*DistanceRangeProvider)(nil)
)

package fsd_client

import (
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"time"
)

const (
	DefaultPositionOffsetMs int64 = 6000
	InterimPositionOffsetMs int64 = 2000
	offsetHistorySize             = 6
	offsetWindow                  = 3
)

type positionTiming struct {
	lastFix time.Time
	// deltas 最新的间隔在最前
	deltas []int64
}

// TimingEstimator 根据远端位置报文的到达间隔估计插值偏移
// 只在客户端工作协程中使用
type TimingEstimator struct {
	additionalOffsetMs int64
	timings            map[string]*positionTiming
}

func NewTimingEstimator(additionalOffsetMs int64) *TimingEstimator {
	return &TimingEstimator{
		additionalOffsetMs: additionalOffsetMs,
		timings:            make(map[string]*positionTiming),
	}
}

// ReceivedPositionFix 记录一次位置到达并返回应使用的偏移
func (e *TimingEstimator) ReceivedPositionFix(callsign string, now time.Time) int64 {
	timing, ok := e.timings[callsign]
	if !ok {
		e.timings[callsign] = &positionTiming{lastFix: now}
		return DefaultPositionOffsetMs
	}
	delta := now.Sub(timing.lastFix).Milliseconds()
	if delta < 0 {
		delta = -delta
	}
	timing.lastFix = now
	timing.deltas = utils.BoundedPushFront(timing.deltas, delta, offsetHistorySize)

	offset := DefaultPositionOffsetMs
	if len(timing.deltas) >= offsetWindow && averageOf(timing.deltas[:offsetWindow]) < InterimPositionOffsetMs {
		offset = InterimPositionOffsetMs
	}
	return e.additionalOffsetMs + offset
}

// CurrentOffset 最近一次测得的间隔, 尚无测量时返回默认偏移
func (e *TimingEstimator) CurrentOffset(callsign string) int64 {
	timing, ok := e.timings[callsign]
	if !ok || len(timing.deltas) == 0 {
		return DefaultPositionOffsetMs
	}
	return timing.deltas[0]
}

func (e *TimingEstimator) Clear(callsign string) {
	delete(e.timings, callsign)
}

func (e *TimingEstimator) ClearAll() {
	clear(e.timings)
}

func (e *TimingEstimator) SetAdditionalOffset(offsetMs int64) {
	e.additionalOffsetMs = offsetMs
}

func averageOf(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum / int64(len(values))
}

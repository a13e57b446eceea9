package packet

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"math"
	"strconv"
)

// FrequencyBaseKHz 线路上的频率省略了开头的1
const FrequencyBaseKHz = 100000

// AtcDataUpdate % 管制员位置与频率
type AtcDataUpdate struct {
	Envelope
	FrequencyKHz int
	Facility     fsd.FacilityType
	VisualRange  int
	Rating       fsd.AtcRating
	Latitude     float64
	Longitude    float64
	Elevation    int
}

func NewAtcDataUpdate(callsign string, frequencyKHz int, facility fsd.FacilityType, visualRange int,
	rating fsd.AtcRating, latitude, longitude float64, elevation int) *AtcDataUpdate {
	return &AtcDataUpdate{
		Envelope:     newEnvelope(callsign, ""),
		FrequencyKHz: frequencyKHz,
		Facility:     facility,
		VisualRange:  visualRange,
		Rating:       rating,
		Latitude:     latitude,
		Longitude:    longitude,
		Elevation:    elevation,
	}
}

func (m *AtcDataUpdate) Kind() MessageKind { return KindAtcDataUpdate }

func (m *AtcDataUpdate) Tokens() []string {
	return []string{m.Sender, strconv.Itoa(m.FrequencyKHz - FrequencyBaseKHz), FormatFacility(m.Facility),
		strconv.Itoa(m.VisualRange), FormatAtcRating(m.Rating), formatFloat(m.Latitude, 5),
		formatFloat(m.Longitude, 5), strconv.Itoa(m.Elevation)}
}

func decodeAtcDataUpdate(tokens []string, codec *Codec) Message {
	return &AtcDataUpdate{
		Envelope:     newEnvelope(tokens[0], ""),
		FrequencyKHz: parseInt(tokens[1]) + FrequencyBaseKHz,
		Facility:     codec.ParseFacility(tokens[2]),
		VisualRange:  parseInt(tokens[3]),
		Rating:       codec.ParseAtcRating(tokens[4]),
		Latitude:     parseFloat(tokens[5]),
		Longitude:    parseFloat(tokens[6]),
		Elevation:    parseInt(tokens[7]),
	}
}

// PilotDataUpdate @ 常规位置报告
type PilotDataUpdate struct {
	Envelope
	TransponderMode  fsd.TransponderMode
	Transponder      int
	Rating           fsd.PilotRating
	Latitude         float64
	Longitude        float64
	AltitudeTrue     float64
	PressureAltitude float64
	GroundSpeed      float64
	Pitch            float64
	Bank             float64
	Heading          float64
	OnGround         bool
}

func (m *PilotDataUpdate) Kind() MessageKind { return KindPilotDataUpdate }

func (m *PilotDataUpdate) Tokens() []string {
	return []string{
		FormatTransponderMode(m.TransponderMode),
		m.Sender,
		fmt.Sprintf("%04d", m.Transponder),
		FormatPilotRating(m.Rating),
		formatFloat(m.Latitude, 5),
		formatFloat(m.Longitude, 5),
		strconv.Itoa(int(m.AltitudeTrue)),
		strconv.Itoa(int(m.GroundSpeed)),
		strconv.FormatUint(uint64(utils.PackPBH(m.Pitch, m.Bank, m.Heading, m.OnGround)), 10),
		strconv.Itoa(int(m.PressureAltitude - m.AltitudeTrue)),
	}
}

// IsValidTransponder 应答机编码必须为4位八进制数
func IsValidTransponder(code int) bool {
	if code < 0 || code > 7777 {
		return false
	}
	for ; code > 0; code /= 10 {
		if code%10 > 7 {
			return false
		}
	}
	return true
}

func decodePilotDataUpdate(tokens []string, codec *Codec) Message {
	mode := codec.ParseTransponderMode(tokens[0])
	squawk, err := strconv.Atoi(tokens[2])
	if err != nil || !IsValidTransponder(squawk) {
		squawk = 2000
		mode = fsd.TransponderStandby
	}
	pitch, bank, heading, onGround := utils.UnpackPBH(parseUint32(tokens[8]))
	altitude := parseFloat(tokens[6])
	return &PilotDataUpdate{
		Envelope:         newEnvelope(tokens[1], ""),
		TransponderMode:  mode,
		Transponder:      squawk,
		Rating:           codec.ParsePilotRating(tokens[3]),
		Latitude:         parseFloat(tokens[4]),
		Longitude:        parseFloat(tokens[5]),
		AltitudeTrue:     altitude,
		PressureAltitude: altitude + parseFloat(tokens[9]),
		GroundSpeed:      parseFloat(tokens[7]),
		Pitch:            pitch,
		Bank:             bank,
		Heading:          heading,
		OnGround:         onGround,
	}
}

func NewPilotDataUpdateFromOwnAircraft(callsign string, rating fsd.PilotRating, aircraft *fsd.OwnAircraft) *PilotDataUpdate {
	return &PilotDataUpdate{
		Envelope:         newEnvelope(callsign, ""),
		TransponderMode:  aircraft.TransponderMode,
		Transponder:      aircraft.Transponder,
		Rating:           rating,
		Latitude:         aircraft.Position.Latitude,
		Longitude:        aircraft.Position.Longitude,
		AltitudeTrue:     aircraft.AltitudeTrue,
		PressureAltitude: aircraft.PressureAltitude,
		GroundSpeed:      aircraft.GroundSpeed,
		Pitch:            aircraft.Pitch,
		Bank:             aircraft.Bank,
		Heading:          aircraft.Heading,
		OnGround:         aircraft.OnGround,
	}
}

// Situation 转换为远端航空器的位置状态
func (m *PilotDataUpdate) Situation() *fsd.AircraftSituation {
	return &fsd.AircraftSituation{
		Callsign:         m.Sender,
		Position:         fsd.Position{Latitude: m.Latitude, Longitude: m.Longitude},
		AltitudeTrue:     m.AltitudeTrue,
		PressureAltitude: m.PressureAltitude,
		GroundSpeed:      m.GroundSpeed,
		Pitch:            m.Pitch,
		Bank:             m.Bank,
		Heading:          m.Heading,
		OnGround:         m.OnGround,
		Transponder:      m.Transponder,
		TransponderMode:  m.TransponderMode,
		Rating:           m.Rating,
	}
}

// InterimPilotDataUpdate #SB VI 只发给指定接收者的快速位置报告
type InterimPilotDataUpdate struct {
	Envelope
	Latitude     float64
	Longitude    float64
	AltitudeTrue float64
	GroundSpeed  float64
	Pitch        float64
	Bank         float64
	Heading      float64
	OnGround     bool
}

func NewInterimPilotDataUpdate(callsign, receiver string, aircraft *fsd.OwnAircraft) *InterimPilotDataUpdate {
	return &InterimPilotDataUpdate{
		Envelope:     newEnvelope(callsign, receiver),
		Latitude:     aircraft.Position.Latitude,
		Longitude:    aircraft.Position.Longitude,
		AltitudeTrue: aircraft.AltitudeTrue,
		GroundSpeed:  aircraft.GroundSpeed,
		Pitch:        aircraft.Pitch,
		Bank:         aircraft.Bank,
		Heading:      aircraft.Heading,
		OnGround:     aircraft.OnGround,
	}
}

func (m *InterimPilotDataUpdate) Kind() MessageKind { return KindInterimPilotDataUpdate }

// SetReceiver 同一份报文逐个发送给多个接收者
func (m *InterimPilotDataUpdate) SetReceiver(receiver string) { m.Receiver = receiver }

func (m *InterimPilotDataUpdate) Tokens() []string {
	return []string{m.Sender, m.Receiver, "VI", formatFloat(m.Latitude, 5), formatFloat(m.Longitude, 5),
		strconv.Itoa(int(m.AltitudeTrue)), strconv.Itoa(int(m.GroundSpeed)),
		strconv.FormatUint(uint64(utils.PackPBH(m.Pitch, m.Bank, m.Heading, m.OnGround)), 10)}
}

func decodeInterimPilotDataUpdate(tokens []string, _ *Codec) Message {
	pitch, bank, heading, onGround := utils.UnpackPBH(parseUint32(tokens[7]))
	return &InterimPilotDataUpdate{
		Envelope:     newEnvelope(tokens[0], tokens[1]),
		Latitude:     parseFloat(tokens[3]),
		Longitude:    parseFloat(tokens[4]),
		AltitudeTrue: parseFloat(tokens[5]),
		GroundSpeed:  parseFloat(tokens[6]),
		Pitch:        pitch,
		Bank:         bank,
		Heading:      heading,
		OnGround:     onGround,
	}
}

func (m *InterimPilotDataUpdate) Situation() *fsd.AircraftSituation {
	return &fsd.AircraftSituation{
		Callsign:     m.Sender,
		Position:     fsd.Position{Latitude: m.Latitude, Longitude: m.Longitude},
		AltitudeTrue: m.AltitudeTrue,
		GroundSpeed:  m.GroundSpeed,
		Pitch:        m.Pitch,
		Bank:         m.Bank,
		Heading:      m.Heading,
		OnGround:     m.OnGround,
	}
}

// VisualPilotDataUpdate ^ #SL #ST 三种视觉位置报文共用同一结构
type VisualPilotDataUpdate struct {
	Envelope
	Variant          fsd.VisualVariant
	Latitude         float64
	Longitude        float64
	AltitudeTrue     float64
	AltitudeAgl      float64
	Pitch            float64
	Bank             float64
	Heading          float64
	OnGround         bool
	XVelocity        float64
	YVelocity        float64
	ZVelocity        float64
	PitchRadPerSec   float64
	HeadingRadPerSec float64
	BankRadPerSec    float64
	NoseGearAngle    float64
}

func NewVisualPilotDataUpdate(callsign string, aircraft *fsd.OwnAircraft) *VisualPilotDataUpdate {
	return &VisualPilotDataUpdate{
		Envelope:         newEnvelope(callsign, ""),
		Variant:          fsd.VisualFull,
		Latitude:         aircraft.Position.Latitude,
		Longitude:        aircraft.Position.Longitude,
		AltitudeTrue:     aircraft.AltitudeTrue,
		AltitudeAgl:      aircraft.AltitudeAgl,
		Pitch:            aircraft.Pitch,
		Bank:             aircraft.Bank,
		Heading:          aircraft.Heading,
		OnGround:         aircraft.OnGround,
		XVelocity:        aircraft.Velocity.Longitudinal,
		YVelocity:        aircraft.Velocity.Altitude,
		ZVelocity:        aircraft.Velocity.Latitudinal,
		PitchRadPerSec:   aircraft.Velocity.PitchRate,
		HeadingRadPerSec: aircraft.Velocity.HeadingRate,
		BankRadPerSec:    aircraft.Velocity.BankRate,
		NoseGearAngle:    aircraft.NoseGearAngle,
	}
}

func (m *VisualPilotDataUpdate) Kind() MessageKind {
	switch m.Variant {
	case fsd.VisualPeriodic:
		return KindVisualPilotDataPeriodic
	case fsd.VisualStopped:
		return KindVisualPilotDataStopped
	default:
		return KindVisualPilotDataUpdate
	}
}

// ToPeriodic 每25次更新发送一次的周期报文
func (m *VisualPilotDataUpdate) ToPeriodic() *VisualPilotDataUpdate {
	copied := *m
	copied.Variant = fsd.VisualPeriodic
	return &copied
}

// ToStopped 停止报文不携带速度
func (m *VisualPilotDataUpdate) ToStopped() *VisualPilotDataUpdate {
	copied := *m
	copied.Variant = fsd.VisualStopped
	copied.XVelocity, copied.YVelocity, copied.ZVelocity = 0, 0, 0
	copied.PitchRadPerSec, copied.HeadingRadPerSec, copied.BankRadPerSec = 0, 0, 0
	return &copied
}

func (m *VisualPilotDataUpdate) Tokens() []string {
	tokens := []string{m.Sender, formatFloat(m.Latitude, 7), formatFloat(m.Longitude, 7),
		formatFloat(m.AltitudeTrue, 2), formatFloat(m.AltitudeAgl, 2),
		strconv.FormatUint(uint64(utils.PackPBH(m.Pitch, m.Bank, m.Heading, m.OnGround)), 10)}
	if m.Variant != fsd.VisualStopped {
		tokens = append(tokens, formatFloat(m.XVelocity, 4), formatFloat(m.YVelocity, 4),
			formatFloat(m.ZVelocity, 4), formatFloat(m.PitchRadPerSec, 4), formatFloat(m.HeadingRadPerSec, 4),
			formatFloat(m.BankRadPerSec, 4))
	}
	return append(tokens, formatFloat(m.NoseGearAngle, 2))
}

func decodeVisualPilotData(tokens []string, variant fsd.VisualVariant) *VisualPilotDataUpdate {
	pitch, bank, heading, onGround := utils.UnpackPBH(parseUint32(tokens[5]))
	m := &VisualPilotDataUpdate{
		Envelope:     newEnvelope(tokens[0], ""),
		Variant:      variant,
		Latitude:     parseFloat(tokens[1]),
		Longitude:    parseFloat(tokens[2]),
		AltitudeTrue: parseFloat(tokens[3]),
		AltitudeAgl:  parseFloat(tokens[4]),
		Pitch:        pitch,
		Bank:         bank,
		Heading:      heading,
		OnGround:     onGround,
	}
	if variant == fsd.VisualStopped {
		m.NoseGearAngle = parseFloat(tokenAt(tokens, 6))
		return m
	}
	m.XVelocity = parseFloat(tokens[6])
	m.YVelocity = parseFloat(tokens[7])
	m.ZVelocity = parseFloat(tokens[8])
	m.PitchRadPerSec = parseFloat(tokens[9])
	m.HeadingRadPerSec = parseFloat(tokens[10])
	m.BankRadPerSec = parseFloat(tokens[11])
	m.NoseGearAngle = parseFloat(tokenAt(tokens, 12))
	return m
}

func decodeVisualPilotDataUpdate(tokens []string, _ *Codec) Message {
	return decodeVisualPilotData(tokens, fsd.VisualFull)
}

func decodeVisualPilotDataPeriodic(tokens []string, _ *Codec) Message {
	return decodeVisualPilotData(tokens, fsd.VisualPeriodic)
}

func decodeVisualPilotDataStopped(tokens []string, _ *Codec) Message {
	return decodeVisualPilotData(tokens, fsd.VisualStopped)
}

func (m *VisualPilotDataUpdate) Situation() *fsd.AircraftSituation {
	return &fsd.AircraftSituation{
		Callsign:     m.Sender,
		Position:     fsd.Position{Latitude: m.Latitude, Longitude: m.Longitude},
		AltitudeTrue: m.AltitudeTrue,
		AltitudeAgl:  m.AltitudeAgl,
		Pitch:        m.Pitch,
		Bank:         m.Bank,
		Heading:      m.Heading,
		OnGround:     m.OnGround,
		Velocity: &fsd.Velocity{
			Longitudinal: m.XVelocity,
			Altitude:     m.YVelocity,
			Latitudinal:  m.ZVelocity,
			PitchRate:    m.PitchRadPerSec,
			HeadingRate:  m.HeadingRadPerSec,
			BankRate:     m.BankRadPerSec,
		},
	}
}

// VisualPilotDataToggle $SF 服务器开关视觉位置发送
type VisualPilotDataToggle struct {
	Envelope
	Active bool
}

func NewVisualPilotDataToggle(sender, receiver string, active bool) *VisualPilotDataToggle {
	return &VisualPilotDataToggle{Envelope: newEnvelope(sender, receiver), Active: active}
}

func (m *VisualPilotDataToggle) Kind() MessageKind { return KindVisualPilotDataToggle }

func (m *VisualPilotDataToggle) Tokens() []string {
	return []string{m.Sender, m.Receiver, formatBool(m.Active)}
}

func decodeVisualPilotDataToggle(tokens []string, _ *Codec) Message {
	return &VisualPilotDataToggle{Envelope: newEnvelope(tokens[0], tokens[1]), Active: parseBool(tokens[2])}
}

// EuroscopeSimData SIMDATA Euroscope扩展, 俯仰与坡度保持线路上的原始符号
type EuroscopeSimData struct {
	Envelope
	Model       string
	Airline     string
	Livery      int
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Heading     float64
	Bank        int
	Pitch       int
	GroundSpeed int
	OnGround    bool
	Gear        int
	Thrust      int
	Lights      int
}

func (m *EuroscopeSimData) Kind() MessageKind { return KindEuroscopeSimData }

func (m *EuroscopeSimData) Tokens() []string {
	return []string{"", m.Sender, m.Model, m.Airline, strconv.Itoa(m.Livery), formatFloat(m.Latitude, 7),
		formatFloat(m.Longitude, 7), formatFloat(m.Altitude, 1), formatFloat(m.Heading, 2),
		strconv.Itoa(m.Bank), strconv.Itoa(m.Pitch), strconv.Itoa(m.GroundSpeed), formatBool(m.OnGround),
		strconv.Itoa(m.Gear), strconv.Itoa(m.Thrust), strconv.Itoa(m.Lights), "0.0", "0"}
}

func decodeEuroscopeSimData(tokens []string, _ *Codec) Message {
	return &EuroscopeSimData{
		Envelope:    newEnvelope(tokens[1], ""),
		Model:       tokens[2],
		Airline:     tokens[3],
		Livery:      parseInt(tokens[4]),
		Latitude:    parseFloat(tokens[5]),
		Longitude:   parseFloat(tokens[6]),
		Altitude:    parseFloat(tokens[7]),
		Heading:     parseFloat(tokens[8]),
		Bank:        parseInt(tokens[9]),
		Pitch:       parseInt(tokens[10]),
		GroundSpeed: parseInt(tokens[11]),
		OnGround:    parseBool(tokenAt(tokens, 12)),
		Gear:        parseInt(tokenAt(tokens, 13)),
		Thrust:      parseInt(tokenAt(tokens, 14)),
		Lights:      parseInt(tokenAt(tokens, 15)),
	}
}

// Parts 起落架开度超过一半视为放下
func (m *EuroscopeSimData) Parts() *fsd.AircraftParts {
	return &fsd.AircraftParts{
		GearDown:      m.Gear > 50,
		GearPercent:   m.Gear,
		ThrustPercent: m.Thrust,
		Lights:        m.Lights,
	}
}

func (m *EuroscopeSimData) Situation() *fsd.AircraftSituation {
	return &fsd.AircraftSituation{
		Callsign:     m.Sender,
		Position:     fsd.Position{Latitude: m.Latitude, Longitude: m.Longitude},
		AltitudeTrue: m.Altitude,
		GroundSpeed:  float64(m.GroundSpeed),
		Pitch:        -float64(m.Pitch),
		Bank:         -float64(m.Bank),
		Heading:      math.Mod(m.Heading, 360),
		OnGround:     m.OnGround,
	}
}

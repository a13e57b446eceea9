// Package fsd
package fsd

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *Position) PositionValid() bool {
	return p.Latitude != 0 && p.Longitude != 0
}

// AircraftSituation 远端航空器的一次位置更新
type AircraftSituation struct {
	Callsign         string          `json:"callsign"`
	Position         Position        `json:"position"`
	AltitudeTrue     float64         `json:"altitude_true"`
	PressureAltitude float64         `json:"pressure_altitude"`
	AltitudeAgl      float64         `json:"altitude_agl"`
	GroundSpeed      float64         `json:"ground_speed"`
	Pitch            float64         `json:"pitch"`
	Bank             float64         `json:"bank"`
	Heading          float64         `json:"heading"`
	OnGround         bool            `json:"on_ground"`
	Transponder      int             `json:"transponder"`
	TransponderMode  TransponderMode `json:"transponder_mode"`
	Rating           PilotRating     `json:"rating"`
	Velocity         *Velocity       `json:"velocity,omitempty"`
	TimestampMs      int64           `json:"timestamp_ms"`
	TimeOffsetMs     int64           `json:"time_offset_ms"`
}

// Velocity 单位为米每秒与弧度每秒
type Velocity struct {
	Longitudinal float64 `json:"longitudinal"`
	Altitude     float64 `json:"altitude"`
	Latitudinal  float64 `json:"latitudinal"`
	PitchRate    float64 `json:"pitch_rate"`
	HeadingRate  float64 `json:"heading_rate"`
	BankRate     float64 `json:"bank_rate"`
}

func (v Velocity) IsStopped(threshold float64) bool {
	return abs(v.Longitudinal) < threshold && abs(v.Altitude) < threshold && abs(v.Latitudinal) < threshold &&
		abs(v.PitchRate) < threshold && abs(v.HeadingRate) < threshold && abs(v.BankRate) < threshold
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// AircraftParts Euroscope SIMDATA 中携带的部件信息
type AircraftParts struct {
	GearDown       bool `json:"gear_down"`
	GearPercent    int  `json:"gear_percent"`
	ThrustPercent  int  `json:"thrust_percent"`
	Lights         int  `json:"lights"`
	FlapsPercent   int  `json:"flaps_percent"`
	SpoilersOut    bool `json:"spoilers_out"`
	EnginesRunning bool `json:"engines_running"`
}

// OwnAircraft 本机状态快照, 由外部适配器提供
type OwnAircraft struct {
	Position         Position        `json:"position"`
	AltitudeTrue     float64         `json:"altitude_true"`
	PressureAltitude float64         `json:"pressure_altitude"`
	AltitudeAgl      float64         `json:"altitude_agl"`
	GroundSpeed      float64         `json:"ground_speed"`
	Pitch            float64         `json:"pitch"`
	Bank             float64         `json:"bank"`
	Heading          float64         `json:"heading"`
	OnGround         bool            `json:"on_ground"`
	Velocity         Velocity        `json:"velocity"`
	NoseGearAngle    float64         `json:"nose_gear_angle"`
	Com1Frequency    int             `json:"com1_frequency"`
	Com2Frequency    int             `json:"com2_frequency"`
	Transponder      int             `json:"transponder"`
	TransponderMode  TransponderMode `json:"transponder_mode"`
	Parts            map[string]any  `json:"parts"`
}

// Package fsd
package fsd

type FacilityType int

const (
	FacilityObserver FacilityType = iota
	FacilityFSS
	FacilityDelivery
	FacilityGround
	FacilityTower
	FacilityApproach
	FacilityCenter
	FacilityUnknown
)

var facilityNames = []string{"OBS", "FSS", "DEL", "GND", "TWR", "APP", "CTR", "UNKNOWN"}

func (f FacilityType) String() string {
	if f < 0 || int(f) >= len(facilityNames) {
		return facilityNames[FacilityUnknown]
	}
	return facilityNames[f]
}

type SimType int

const (
	SimTypeUnknown SimType = iota
	SimTypeMSFS95
	SimTypeMSFS98
	SimTypeMSCFS
	SimTypeMSFS2000
	SimTypeMSCFS2
	SimTypeMSFS2002
	SimTypeMSCFS3
	SimTypeMSFS2004
	SimTypeMSFSX
	SimTypeXPlane8
	SimTypeXPlane9
	SimTypeXPlane10
	SimTypeXPlane11
	SimTypeXPlane12
	SimTypeP3Dv1
	SimTypeP3Dv2
	SimTypeP3Dv3
	SimTypeP3Dv4
	SimTypeP3Dv5
	SimTypeFlightGear
	SimTypeMSFS
	SimTypeMSFS2024
)

var simTypeNames = []string{"Unknown", "MSFS95", "MSFS98", "MSCFS", "MSFS2000", "MSCFS2", "MSFS2002",
	"MSCFS3", "MSFS2004", "MSFSX", "XPLANE8", "XPLANE9", "XPLANE10", "XPLANE11", "XPLANE12", "P3Dv1",
	"P3Dv2", "P3Dv3", "P3Dv4", "P3Dv5", "FlightGear", "MSFS", "MSFS2024"}

func (s SimType) String() string {
	if s < 0 || int(s) >= len(simTypeNames) {
		return simTypeNames[SimTypeUnknown]
	}
	return simTypeNames[s]
}

// ClientQueryType $CQ/$CR 报文的子类型
type ClientQueryType int

const (
	QueryUnknown ClientQueryType = iota
	QueryIsValidATC
	QueryCapabilities
	QueryCom1Freq
	QueryRealName
	QueryServer
	QueryATIS
	QueryPublicIpAddress
	QueryINF
	QueryFP
	QueryAircraftConfig
	QueryEuroscopeSimData
)

var queryTypeNames = []string{"Unknown", "IsValidATC", "Capabilities", "Com1Freq", "RealName", "Server",
	"ATIS", "PublicIpAddress", "INF", "FP", "AircraftConfig", "EuroscopeSimData"}

func (q ClientQueryType) String() string {
	if q < 0 || int(q) >= len(queryTypeNames) {
		return queryTypeNames[QueryUnknown]
	}
	return queryTypeNames[q]
}

type TransponderMode int

const (
	TransponderStandby TransponderMode = iota
	TransponderModeC
	TransponderIdent
)

var transponderModeNames = []string{"Standby", "ModeC", "Ident"}

func (t TransponderMode) String() string {
	if t < 0 || int(t) >= len(transponderModeNames) {
		return transponderModeNames[TransponderStandby]
	}
	return transponderModeNames[t]
}

type AtisLineType int

const (
	AtisLineUnknown AtisLineType = iota
	AtisLineVoiceRoom
	AtisLineText
	AtisLineZuluLogoff
	AtisLineCount
)

type FlightType int

const (
	FlightTypeIFR FlightType = iota
	FlightTypeVFR
	FlightTypeSVFR
	FlightTypeDVFR
)

var flightTypeNames = []string{"IFR", "VFR", "SVFR", "DVFR"}

func (f FlightType) String() string {
	if f < 0 || int(f) >= len(flightTypeNames) {
		return flightTypeNames[FlightTypeIFR]
	}
	return flightTypeNames[f]
}

// Capabilities 客户端能力位集合
type Capabilities uint32

const (
	CapabilityNone        Capabilities = 0
	CapabilityAtcInfo     Capabilities = 1 << iota
	CapabilitySecondaryPos
	CapabilityAircraftInfo
	CapabilityOngoingCoord
	CapabilityInterimPos
	CapabilityFastPos
	CapabilityVisPos
	CapabilityStealth
	CapabilityAircraftConfig
	CapabilityIcaoEquipment
)

// AllCapabilities 按照CAPS应答的标准顺序排列
var AllCapabilities = []Capabilities{CapabilityAtcInfo, CapabilitySecondaryPos, CapabilityAircraftInfo,
	CapabilityOngoingCoord, CapabilityInterimPos, CapabilityFastPos, CapabilityVisPos, CapabilityStealth,
	CapabilityAircraftConfig, CapabilityIcaoEquipment}

func (c Capabilities) Has(flag Capabilities) bool { return c&flag == flag && flag != 0 }

func (c Capabilities) With(flag Capabilities) Capabilities { return c | flag }

type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connecting
	Connected
	Disconnecting
)

var connectionStatusNames = []string{"Disconnected", "Connecting", "Connected", "Disconnecting"}

func (s ConnectionStatus) String() string {
	if s < 0 || int(s) >= len(connectionStatusNames) {
		return "Unknown"
	}
	return connectionStatusNames[s]
}

func (s ConnectionStatus) IsConnected() bool { return s == Connected }

func (s ConnectionStatus) IsDisconnected() bool { return s == Disconnected }

type LoginMode int

const (
	LoginModePilot LoginMode = iota
	LoginModeObserver
)

func (m LoginMode) String() string {
	if m == LoginModeObserver {
		return "observer"
	}
	return "pilot"
}

type ServerType int

const (
	ServerTypeFSDServer ServerType = iota
	ServerTypeVatsim
)

const (
	ProtocolRevisionClassic    = 9
	ProtocolRevisionVatsimAuth = 100
)

// TextMessageGroup 群组文本报文的接收者
type TextMessageGroup string

const (
	GroupAll         TextMessageGroup = "*"
	GroupAtc         TextMessageGroup = "*A"
	GroupPilots      TextMessageGroup = "*P"
	GroupSupervisors TextMessageGroup = "*S"
)

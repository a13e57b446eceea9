// Package fsd
package fsd

import "time"

// Event 客户端发出的事件, 具体类型见下方结构体
type Event interface {
	EventName() string
}

type ConnectionStatusChanged struct {
	Old ConnectionStatus
	New ConnectionStatus
}

type AtcDataUpdated struct {
	Station AtcStation
}

type AtcDeleted struct {
	Callsign string
}

type PilotDeleted struct {
	Callsign string
}

type PilotSituationUpdated struct {
	Situation AircraftSituation
	Parts     *AircraftParts
}

type InterimSituationUpdated struct {
	Situation AircraftSituation
}

type VisualVariant int

const (
	VisualFull VisualVariant = iota
	VisualPeriodic
	VisualStopped
)

type VisualSituationUpdated struct {
	Situation AircraftSituation
	Variant   VisualVariant
}

type TextMessagesReceived struct {
	Messages []TextMessage
}

type TextMessageSent struct {
	Message TextMessage
}

type FlightPlanReceived struct {
	FlightPlan FlightPlan
}

type CapabilitiesReplyReceived struct {
	Callsign     string
	Capabilities Capabilities
}

type Com1FrequencyReplyReceived struct {
	Callsign  string
	Frequency float64
}

type RealNameReplyReceived struct {
	Callsign string
	RealName string
}

type ServerReplyReceived struct {
	Callsign string
	Server   string
}

type AtcReplyReceived struct {
	Callsign string
	Valid    bool
}

type AtisReplyReceived struct {
	Callsign string
	Lines    []string
}

type AtisLogoffTimeReceived struct {
	Callsign string
	Zulu     string
}

type RawFsdMessage struct {
	Line string
}

type KillRequestReceived struct {
	Reason string
}

type MuteRequestReceived struct {
	Mute bool
}

type ServerErrorReceived struct {
	Code        ServerErrorCode
	Parameter   string
	Description string
}

type SevereNetworkError struct {
	Description string
}

type PlaneInformationReceived struct {
	Callsign string
	Aircraft string
	Airline  string
	Livery   string
}

type PlaneInformationFsinnReceived struct {
	Callsign     string
	AirlineIcao  string
	AircraftIcao string
	CombinedType string
	ModelString  string
}

type PlaneInformationRequested struct {
	Callsign string
}

type AircraftConfigReceived struct {
	Callsign     string
	Config       map[string]any
	TimeOffsetMs int64
}

type PongReceived struct {
	Callsign string
	Elapsed  time.Duration
}

type CustomPilotPacketReceived struct {
	Callsign string
	Data     []string
}

func (ConnectionStatusChanged) EventName() string       { return "connection_status_changed" }
func (AtcDataUpdated) EventName() string                { return "atc_data_updated" }
func (AtcDeleted) EventName() string                    { return "atc_deleted" }
func (PilotDeleted) EventName() string                  { return "pilot_deleted" }
func (PilotSituationUpdated) EventName() string         { return "pilot_situation_updated" }
func (InterimSituationUpdated) EventName() string       { return "interim_situation_updated" }
func (VisualSituationUpdated) EventName() string        { return "visual_situation_updated" }
func (TextMessagesReceived) EventName() string          { return "text_messages_received" }
func (TextMessageSent) EventName() string               { return "text_message_sent" }
func (FlightPlanReceived) EventName() string            { return "flight_plan_received" }
func (CapabilitiesReplyReceived) EventName() string     { return "capabilities_reply_received" }
func (Com1FrequencyReplyReceived) EventName() string    { return "com1_frequency_reply_received" }
func (RealNameReplyReceived) EventName() string         { return "real_name_reply_received" }
func (ServerReplyReceived) EventName() string           { return "server_reply_received" }
func (AtcReplyReceived) EventName() string              { return "atc_reply_received" }
func (AtisReplyReceived) EventName() string             { return "atis_reply_received" }
func (AtisLogoffTimeReceived) EventName() string        { return "atis_logoff_time_received" }
func (RawFsdMessage) EventName() string                 { return "raw_fsd_message" }
func (KillRequestReceived) EventName() string           { return "kill_request_received" }
func (MuteRequestReceived) EventName() string           { return "mute_request_received" }
func (ServerErrorReceived) EventName() string           { return "server_error_received" }
func (SevereNetworkError) EventName() string            { return "severe_network_error" }
func (PlaneInformationReceived) EventName() string      { return "plane_information_received" }
func (PlaneInformationFsinnReceived) EventName() string { return "plane_information_fsinn_received" }
func (PlaneInformationRequested) EventName() string     { return "plane_information_requested" }
func (AircraftConfigReceived) EventName() string        { return "aircraft_config_received" }
func (PongReceived) EventName() string                  { return "pong_received" }
func (CustomPilotPacketReceived) EventName() string     { return "custom_pilot_packet_received" }

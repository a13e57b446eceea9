package fsd_client

import (
	"errors"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client/packet"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	"math"
	"net"
	"strconv"
	"strings"
	"time"
)

const revBPartsKey = "revb_parts"

func (c *Client) receiveData(conn net.Conn, data []byte) {
	if conn != c.conn {
		return
	}
	_, _ = c.buffer.Write(data)
	// 没有换行且超过缓冲区大小的数据不可能是合法报文
	if !c.buffer.HasLine() && c.buffer.Pending() > lineBufferSize {
		c.logger.WarnF("[FSD] Dropping %d bytes without line terminator", c.buffer.Pending())
		c.buffer.Reset()
		return
	}
	c.readLines(defaultMaxLines)
}

// readLines 单次最多处理maxLines行, 剩余的行在稍后继续处理
func (c *Client) readLines(maxLines int) {
	conn := c.conn
	if conn == nil {
		return
	}
	lines := 0
	for {
		raw, ok := c.buffer.Next()
		if !ok {
			return
		}
		lines++
		c.parseLine(c.textCodec.Decode([]byte(raw)))
		if c.conn != conn {
			return
		}
		if lines >= maxLines {
			break
		}
	}
	if !c.buffer.HasLine() {
		return
	}
	next := int(math.Round(1.2 * float64(lines)))
	time.AfterFunc(followUpReadDelay, func() {
		c.post(func() {
			if c.conn == conn {
				c.readLines(next)
			}
		})
	})
}

func (c *Client) parseLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	kind, payload, ok := packet.LookupPrefix(line)
	if !ok {
		// 未知报文不进入原始报文记录与统计
		c.logger.DebugF("[FSD] Unknown packet: '%s'", line)
		return
	}
	c.rawTap.Received(line)
	if payload == "" {
		return
	}
	tokens := strings.Split(payload, packet.Separator)
	if kind == packet.KindPilotClientCom {
		kind = packet.PilotClientComKind(tokens)
	}
	c.statistics.CountReceived(kind.String())
	c.dispatch(kind, tokens)
}

func (c *Client) dispatch(kind packet.MessageKind, tokens []string) {
	switch kind {
	case packet.KindAddAtc, packet.KindAddPilot, packet.KindServerHeartbeat, packet.KindProController,
		packet.KindClientIdentification, packet.KindRegistrationInfo, packet.KindRevBPilotDescription:
		return
	case packet.KindPilotClientCom:
		c.handleCustomPilotPacket(tokens)
		return
	}

	message, err := packet.FromTokens(kind, tokens, c.codec)
	if err != nil {
		return
	}
	switch m := message.(type) {
	case *packet.AtcDataUpdate:
		c.handleAtcDataUpdate(m)
	case *packet.DeleteAtc:
		c.emit(fsd.AtcDeleted{Callsign: m.Sender})
		c.atc.Remove(m.Sender)
		atcStationsGauge.Set(float64(c.atc.Len()))
	case *packet.DeletePilot:
		c.clearCallsignState(m.Sender)
		c.dropFlightPlan(m.Sender)
		c.emit(fsd.PilotDeleted{Callsign: m.Sender})
	case *packet.PilotDataUpdate:
		c.handlePilotDataUpdate(m)
	case *packet.InterimPilotDataUpdate:
		c.handleInterimPilotDataUpdate(m)
	case *packet.VisualPilotDataUpdate:
		c.handleVisualPilotDataUpdate(m)
	case *packet.VisualPilotDataToggle:
		c.serverWantsVisual = m.Active
	case *packet.EuroscopeSimData:
		c.handleEuroscopeSimData(m)
	case *packet.TextMessage:
		c.handleTextMessage(m)
	case *packet.ClientQuery:
		c.handleClientQuery(m)
	case *packet.ClientResponse:
		c.handleClientResponse(m)
	case *packet.FlightPlan:
		c.handleFlightPlan(m)
	case *packet.FsdIdentification:
		c.handleFsdIdentification(m)
	case *packet.AuthChallenge:
		c.handleAuthChallenge(m)
	case *packet.AuthResponse:
		c.handleAuthResponse(m)
	case *packet.Ping:
		c.queueMessage(packet.NewPong(c.callsign(), m.Sender, m.Timestamp))
	case *packet.Pong:
		c.handlePong(m)
	case *packet.KillRequest:
		c.handleKillRequest(m)
	case *packet.ServerError:
		c.handleServerError(m)
	case *packet.Rehost:
		c.handleRehost(m)
	case *packet.Mute:
		if m.Receiver == c.callsign() {
			c.emit(fsd.MuteRequestReceived{Mute: m.Mute})
		}
	case *packet.RevBClientParts:
		c.handleRevBClientParts(m)
	case *packet.PlaneInfoRequest:
		c.handlePlaneInfoRequest(m)
	case *packet.PlaneInformation:
		c.emit(fsd.PlaneInformationReceived{Callsign: m.Sender, Aircraft: m.AircraftType, Airline: m.Airline, Livery: m.Livery})
	case *packet.PlaneInformationFsinn:
		c.emit(fsd.PlaneInformationFsinnReceived{Callsign: m.Sender, AirlineIcao: m.AirlineIcao,
			AircraftIcao: m.AircraftIcao, CombinedType: m.AircraftCombinedType, ModelString: m.ModelString})
	case *packet.PlaneInfoRequestFsinn:
		c.handlePlaneInfoRequestFsinn(m)
	default:
		c.logger.DebugF("[FSD] No handler for %s", kind)
	}
}

func isObserverCallsign(callsign string) bool {
	return strings.HasSuffix(strings.ToUpper(callsign), "_OBS")
}

func (c *Client) handleAtcDataUpdate(message *packet.AtcDataUpdate) {
	callsign := message.Sender
	if message.Facility == fsd.FacilityUnknown && !isObserverCallsign(callsign) {
		return
	}
	// 没有后缀的OBS呼号不是管制席位
	if message.Facility == fsd.FacilityObserver && !strings.Contains(callsign, "_") {
		return
	}
	station := fsd.AtcStation{
		Callsign:    callsign,
		Frequency:   message.FrequencyKHz,
		Facility:    message.Facility,
		VisualRange: FixAtcRange(callsign, message.VisualRange),
		Rating:      message.Rating,
		Position:    fsd.Position{Latitude: message.Latitude, Longitude: message.Longitude},
		Elevation:   message.Elevation,
		LastUpdate:  time.Now(),
	}
	c.emit(fsd.AtcDataUpdated{Station: station})
	c.atc.Upsert(station)
	atcStationsGauge.Set(float64(c.atc.Len()))
}

func (c *Client) handlePilotDataUpdate(message *packet.PilotDataUpdate) {
	now := time.Now()
	situation := message.Situation()
	if !packet.IsValidTransponder(situation.Transponder) {
		situation.Transponder = 2000
		situation.TransponderMode = fsd.TransponderStandby
	}
	situation.TimestampMs = now.UnixMilli()
	situation.TimeOffsetMs = c.timing.ReceivedPositionFix(situation.Callsign, now)
	c.emit(fsd.PilotSituationUpdated{Situation: *situation})
}

func (c *Client) handleInterimPilotDataUpdate(message *packet.InterimPilotDataUpdate) {
	if !c.settings().features.ReceiveInterimPositions {
		return
	}
	now := time.Now()
	situation := message.Situation()
	situation.TimestampMs = now.UnixMilli()
	situation.TimeOffsetMs = c.timing.ReceivedPositionFix(situation.Callsign, now)
	c.emit(fsd.InterimSituationUpdated{Situation: *situation})
}

func (c *Client) handleVisualPilotDataUpdate(message *packet.VisualPilotDataUpdate) {
	if !c.settings().features.ReceiveVisualPositions {
		return
	}
	now := time.Now()
	situation := message.Situation()
	situation.TimestampMs = now.UnixMilli()
	situation.TimeOffsetMs = c.timing.CurrentOffset(situation.Callsign)
	c.emit(fsd.VisualSituationUpdated{Situation: *situation, Variant: message.Variant})
}

func (c *Client) handleEuroscopeSimData(message *packet.EuroscopeSimData) {
	now := time.Now()
	situation := message.Situation()
	situation.TimestampMs = now.UnixMilli()
	situation.TimeOffsetMs = c.timing.ReceivedPositionFix(situation.Callsign, now)
	parts := message.Parts()
	c.emit(fsd.PilotSituationUpdated{Situation: *situation, Parts: parts})
}

func (c *Client) handleTextMessage(message *packet.TextMessage) {
	now := time.Now()
	if message.IsRadioMessage() {
		own := c.ownAircraft.OwnAircraft()
		com1 := RoundToChannelSpacing(own.Com1Frequency)
		com2 := RoundToChannelSpacing(own.Com2Frequency)
		matched := make([]int, 0, 2)
		for _, frequency := range message.Frequencies() {
			rounded := RoundToChannelSpacing(frequency)
			if rounded == com1 || rounded == com2 {
				matched = append(matched, rounded)
			}
		}
		if len(matched) == 0 {
			return
		}
		model := message.ToModel(now)
		model.Frequencies = matched
		c.emit(fsd.TextMessagesReceived{Messages: []fsd.TextMessage{*model}})
		return
	}

	s := c.settings()
	if message.IsPrivate() && !s.isVatsim() && message.Receiver == s.user.Callsign &&
		c.atis.HasPendingQuery(message.Sender) {
		c.handleAtisLine(message.Sender, message.Receiver, message.Message, now)
		return
	}
	c.texts.Add(*message.ToModel(now))
}

// handleAtisLine 非VATSIM服务器以私聊文本逐行回复ATIS
func (c *Client) handleAtisLine(sender string, receiver string, line string, now time.Time) {
	result := c.atis.HandlePendingLine(sender, line, now)
	switch result.outcome {
	case atisTimedOut:
		c.texts.Add(fsd.TextMessage{
			Sender:   sender,
			Receiver: receiver,
			Message:  strings.Join(result.lines, "\n"),
			Private:  true,
			Received: now,
		})
	case atisCompleted:
		c.emit(fsd.AtisLogoffTimeReceived{Callsign: sender, Zulu: result.zulu})
		c.emit(fsd.AtisReplyReceived{Callsign: sender, Lines: result.lines})
	}
}

func (c *Client) emitTextMessages(messages []fsd.TextMessage) {
	c.emit(fsd.TextMessagesReceived{Messages: messages})
}

func (c *Client) handleClientQuery(message *packet.ClientQuery) {
	switch message.QueryType {
	case fsd.QueryCapabilities, fsd.QueryCom1Freq, fsd.QueryRealName, fsd.QueryServer, fsd.QueryINF:
		c.sendClientResponse(message.QueryType, message.Sender)
	case fsd.QueryAircraftConfig:
		c.handleAircraftConfigQuery(message)
	default:
		// ATC, ATIS, IP, FP 以及协调类查询由管制客户端处理
	}
}

func (c *Client) handleAircraftConfigQuery(message *packet.ClientQuery) {
	body := strings.Join(message.Payload, packet.Separator)
	config, err := decodeAircraftConfig(body)
	if err != nil {
		c.logger.WarnF("[FSD] Failed to parse aircraft config packet: %v, packet: %s", err, body)
		return
	}
	if config.Request == "full" && config.Config == nil {
		c.sendFullAircraftConfig(message.Sender)
		return
	}
	if !c.remoteAircraft.IsInRange(message.Sender) {
		return
	}
	if !c.settings().features.ReceiveAircraftParts || len(config.Config) == 0 {
		return
	}
	c.emit(fsd.AircraftConfigReceived{
		Callsign:     message.Sender,
		Config:       config.Config,
		TimeOffsetMs: c.timing.CurrentOffset(message.Sender),
	})
}

func (c *Client) handleClientResponse(message *packet.ClientResponse) {
	data1 := ""
	data2 := ""
	if len(message.Payload) > 0 {
		data1 = message.Payload[0]
	}
	if len(message.Payload) > 1 {
		data2 = message.Payload[1]
	}
	switch message.QueryType {
	case fsd.QueryIsValidATC:
		c.emit(fsd.AtcReplyReceived{Callsign: data2, Valid: data1 == "Y"})
	case fsd.QueryCapabilities:
		c.emit(fsd.CapabilitiesReplyReceived{Callsign: message.Sender, Capabilities: c.codec.ParseCapabilities(message.Payload)})
	case fsd.QueryCom1Freq:
		frequency, err := strconv.ParseFloat(data1, 64)
		if err != nil {
			return
		}
		c.emit(fsd.Com1FrequencyReplyReceived{Callsign: message.Sender, Frequency: frequency})
	case fsd.QueryRealName:
		c.emit(fsd.RealNameReplyReceived{Callsign: message.Sender, RealName: data1})
	case fsd.QueryServer:
		c.emit(fsd.ServerReplyReceived{Callsign: message.Sender, Server: data1})
	case fsd.QueryATIS:
		result := c.atis.UpdateMap(message.Sender, c.codec.ParseAtisLineType(data1), data2)
		if result.outcome == atisCompleted {
			if result.zulu != "" {
				c.emit(fsd.AtisLogoffTimeReceived{Callsign: message.Sender, Zulu: result.zulu})
			}
			c.emit(fsd.AtisReplyReceived{Callsign: message.Sender, Lines: result.lines})
		}
	default:
	}
}

func (c *Client) handleFlightPlan(message *packet.FlightPlan) {
	flightPlan := message.ToModel()
	c.emit(fsd.FlightPlanReceived{FlightPlan: *flightPlan})
	if c.operations == nil || c.operations.FlightPlanOperation() == nil {
		return
	}
	if err := c.operations.FlightPlanOperation().UpsertFlightPlan(flightPlanRecord(flightPlan)); err != nil {
		c.logger.WarnF("[FSD] Fail to save flight plan of %s, %v", flightPlan.Callsign, err)
	}
}

// dropFlightPlan 机组下线后不再保留其飞行计划
func (c *Client) dropFlightPlan(callsign string) {
	if c.operations == nil || c.operations.FlightPlanOperation() == nil {
		return
	}
	err := c.operations.FlightPlanOperation().DeleteFlightPlan(callsign)
	if err != nil && !errors.Is(err, operation.ErrFlightPlanNotFound) {
		c.logger.WarnF("[FSD] Fail to delete flight plan of %s, %v", callsign, err)
	}
}

func flightPlanRecord(flightPlan *fsd.FlightPlan) *operation.FlightPlan {
	return &operation.FlightPlan{
		Callsign:         flightPlan.Callsign,
		FlightType:       flightPlan.FlightType.String(),
		AircraftType:     flightPlan.AircraftType,
		Tas:              flightPlan.TrueCruisingSpeed,
		DepartureAirport: flightPlan.DepartureAirport,
		DepartureTime:    flightPlan.EstimatedDepTime,
		AtcDepartureTime: flightPlan.ActualDepTime,
		CruiseAltitude:   flightPlan.CruiseAltitude,
		ArrivalAirport:   flightPlan.DestinationAirport,
		RouteTimeHour:    flightPlan.HoursEnroute,
		RouteTimeMinute:  flightPlan.MinutesEnroute,
		FuelTimeHour:     flightPlan.FuelAvailHours,
		FuelTimeMinute:   flightPlan.FuelAvailMinutes,
		AlternateAirport: flightPlan.AlternateAirport,
		Remarks:          flightPlan.Remarks,
		Route:            flightPlan.Route,
	}
}

func (c *Client) handlePong(message *packet.Pong) {
	timestamp, err := strconv.ParseInt(message.Timestamp, 10, 64)
	if err != nil {
		c.logger.DebugF("[FSD] Invalid pong timestamp %s from %s", message.Timestamp, message.Sender)
		return
	}
	elapsed := time.Duration(time.Now().UnixMilli()-timestamp) * time.Millisecond
	c.emit(fsd.PongReceived{Callsign: message.Sender, Elapsed: elapsed})
}

func (c *Client) handleKillRequest(message *packet.KillRequest) {
	c.logger.ErrorF("[FSD] Kill request from %s: %s", message.Sender, message.Reason)
	c.emit(fsd.KillRequestReceived{Reason: message.Reason})
	s := c.settings()
	c.notify("Kicked from "+s.server.Name,
		"Callsign "+s.user.Callsign+" was disconnected by "+message.Sender+": "+message.Reason)
	c.disconnectReason = "kill request: " + message.Reason
	c.disconnect()
}

func (c *Client) handleServerError(message *packet.ServerError) {
	switch message.Code {
	case fsd.ServerErrorCallsignInUse:
		c.logger.Error("[FSD] The requested callsign is already taken")
	case fsd.ServerErrorInvalidCallsign:
		c.logger.Error("[FSD] The requested callsign is not valid")
	case fsd.ServerErrorInvalidCidPassword:
		c.logger.Error("[FSD] Wrong user ID or password, inactive account")
	case fsd.ServerErrorInvalidRevision:
		c.logger.Error("[FSD] This server does not support our protocol version")
	case fsd.ServerErrorServerFull:
		c.logger.Error("[FSD] The server is full")
	case fsd.ServerErrorCidSuspended:
		c.logger.Error("[FSD] Your user account is suspended")
	case fsd.ServerErrorRatingTooLow:
		c.logger.Error("[FSD] You are not authorized to use the requested rating")
	case fsd.ServerErrorInvalidClient:
		c.logger.Error("[FSD] This software is not authorized for use on this network")
	case fsd.ServerErrorRequestedLevelTooHigh:
		c.logger.Error("[FSD] You are not authorized to use the requested pilot rating")
	case fsd.ServerErrorNone:
		c.logger.Info("[FSD] OK")
	case fsd.ServerErrorSyntax:
		c.logger.ErrorF("[FSD] Malformed packet, syntax error: '%s'. This can also occur if an OBS sends frequency text messages.",
			message.CausingParameter)
	case fsd.ServerErrorInvalidSrcCallsign:
		c.logger.InfoF("[FSD] FSD message was using an invalid callsign: %s (%s)", message.CausingParameter, message.Description)
	case fsd.ServerErrorNoSuchCallsign:
		c.logger.InfoF("[FSD] FSD Server: no such callsign: %s %s", message.CausingParameter, message.Description)
	case fsd.ServerErrorNoFlightPlan:
		c.logger.Info("[FSD] FSD Server: no flight plan")
	case fsd.ServerErrorNoWeatherProfile:
		c.logger.Info("[FSD] FSD Server: requested weather profile does not exist")
	case fsd.ServerErrorAlreadyRegistered:
		c.logger.WarnF("[FSD] Server says already registered: %s", message.Description)
	case fsd.ServerErrorInvalidCtrl:
		c.logger.WarnF("[FSD] Server invalid control: %s", message.Description)
	case fsd.ServerErrorAuthTimeout:
		c.logger.Warn("[FSD] Client did not authenticate in time")
	default:
		c.logger.WarnF("[FSD] Server sent unknown error code: %s (%s)", message.CausingParameter, message.Description)
	}
	if !message.IsFatal() {
		return
	}
	c.emit(fsd.ServerErrorReceived{Code: message.Code, Parameter: message.CausingParameter, Description: message.Description})
	s := c.settings()
	c.notify("Fatal server error from "+s.server.Name,
		"Callsign "+s.user.Callsign+" was disconnected: "+message.Code.String()+" "+message.Description)
	c.disconnectReason = "server error: " + message.Code.String()
	c.disconnect()
}

func (c *Client) handleRevBClientParts(message *packet.RevBClientParts) {
	if !c.remoteAircraft.IsInRange(message.Sender) {
		return
	}
	if !c.settings().features.ReceiveAircraftParts {
		return
	}
	c.emit(fsd.AircraftConfigReceived{
		Callsign:     message.Sender,
		Config:       map[string]any{revBPartsKey: message.Parts},
		TimeOffsetMs: c.timing.CurrentOffset(message.Sender),
	})
}

// handleCustomPilotPacket 未单独建模的#SB子类型
func (c *Client) handleCustomPilotPacket(tokens []string) {
	if len(tokens) < 3 {
		return
	}
	switch tokens[2] {
	case "PI", "I":
		// PI X 为旧版请求, I 为精度不足的旧版快速位置, 均忽略
		return
	}
	c.emit(fsd.CustomPilotPacketReceived{Callsign: tokens[0], Data: append([]string(nil), tokens[3:]...)})
}

func (c *Client) handlePlaneInfoRequest(message *packet.PlaneInfoRequest) {
	c.emit(fsd.PlaneInformationRequested{Callsign: message.Sender})
	s := c.settings()
	c.queueMessage(packet.NewPlaneInformation(s.user.Callsign, message.Sender, s.aircraft.AircraftIcao,
		airlineDesignator(s), s.aircraft.Livery))
}

func (c *Client) handlePlaneInfoRequestFsinn(message *packet.PlaneInfoRequestFsinn) {
	s := c.settings()
	c.queueMessage(packet.NewPlaneInformationFsinn(s.user.Callsign, message.Sender, airlineDesignator(s),
		s.aircraft.AircraftIcao, combinedType(s), s.aircraft.Model))
	c.emit(fsd.PlaneInformationFsinnReceived{Callsign: message.Sender, AirlineIcao: message.AirlineIcao,
		AircraftIcao: message.AircraftIcao, CombinedType: message.AircraftCombinedType, ModelString: message.ModelString})
}

func airlineDesignator(s settings) string {
	airline := s.aircraft.AirlineIcao
	if s.features.Force3LetterAirline && len(airline) > 3 {
		airline = airline[:3]
	}
	return airline
}

// combinedType 例如 L2J, 由设备代码的机型部分给出, 缺失时为空
func combinedType(s settings) string {
	equipment := s.aircraft.Equipment
	if _, after, found := strings.Cut(equipment, "/"); found && len(after) >= 3 {
		return after[:3]
	}
	return ""
}

package fsd_client

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/fsd_client/packet"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"strconv"
	"strings"
	"time"
)

const (
	observerVisualRange = 300
	observerFacility    = fsd.FacilityObserver
)

// queueMessage 报文进入发送队列, 由队列定时器按节奏发出
func (c *Client) queueMessage(message packet.Message) {
	line, err := packet.Serialize(message)
	if err != nil {
		c.logger.WarnF("[FSD] Drop %s message, %v", message.Kind(), err)
		return
	}
	c.queue.Push(line)
	sendQueueGauge.Set(float64(c.queue.Len()))
}

// sendDirect 绕过发送队列立即写出, 用于认证与下线报文
func (c *Client) sendDirect(message packet.Message) {
	line, err := packet.Serialize(message)
	if err != nil {
		c.logger.WarnF("[FSD] Drop %s message, %v", message.Kind(), err)
		return
	}
	c.writeLine(line)
}

func (c *Client) writeLine(line string) {
	if c.conn == nil {
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if _, err := c.conn.Write(c.textCodec.Encode(line)); err != nil {
		// 读协程会发现同一个错误并处理断线
		c.logger.DebugF("[FSD] Write failed, %v", err)
		return
	}
	c.statistics.CountSent(kindOfLine(trimmed).String())
	c.rawTap.Sent(trimmed)
}

func kindOfLine(line string) packet.MessageKind {
	kind, payload, ok := packet.LookupPrefix(line)
	if !ok {
		return packet.KindUnknown
	}
	if kind == packet.KindPilotClientCom {
		return packet.PilotClientComKind(strings.Split(payload, packet.Separator))
	}
	return kind
}

func (c *Client) sendQueuedMessages() {
	for _, line := range c.queue.Tick() {
		c.writeLine(line)
		if c.conn == nil {
			break
		}
	}
	sendQueueGauge.Set(float64(c.queue.Len()))
}

func (c *Client) sendPositionUpdate() {
	if c.ConnectionStatus().IsDisconnected() {
		return
	}
	s := c.settings()
	own := c.ownAircraft.OwnAircraft()
	if s.isObserver() {
		c.queueMessage(packet.NewAtcDataUpdate(s.user.Callsign, global.ObserverFrequency, observerFacility,
			observerVisualRange, fsd.AtcRatingObserver, own.Position.Latitude, own.Position.Longitude, 0))
		return
	}
	// 慢速视觉位置必须先于普通位置报告发送
	if s.features.SendVisualPositions {
		c.sendVisualPilotDataUpdate(true)
	}
	c.queueMessage(packet.NewPilotDataUpdateFromOwnAircraft(s.user.Callsign, fsd.PilotRating(s.user.PilotRating), &own))
}

func (c *Client) sendInterimPilotDataUpdate() {
	if c.ConnectionStatus().IsDisconnected() || len(c.interimReceivers) == 0 {
		return
	}
	own := c.ownAircraft.OwnAircraft()
	message := packet.NewInterimPilotDataUpdate(c.callsign(), "", &own)
	for receiver := range c.interimReceivers {
		message.SetReceiver(receiver)
		c.queueMessage(message)
	}
}

// sendVisualPilotDataUpdate slowUpdate为true时随位置报告发送, 不受停止状态与服务器开关影响
func (c *Client) sendVisualPilotDataUpdate(slowUpdate bool) {
	if c.ConnectionStatus().IsDisconnected() {
		return
	}
	s := c.settings()
	if s.isObserver() || !s.features.SendVisualPositions {
		return
	}
	own := c.ownAircraft.OwnAircraft()
	if !slowUpdate {
		if own.Velocity.IsStopped(visualStopThreshold) {
			if c.stoppedVisual {
				return
			}
			c.stoppedVisual = true
			c.visualTrigger.Reset()
			c.visualPeriodic = true
		} else {
			c.stoppedVisual = false
		}
		if !c.serverWantsVisual {
			return
		}
	}

	message := packet.NewVisualPilotDataUpdate(s.user.Callsign, &own)
	switch {
	case c.stoppedVisual:
		c.queueMessage(message.ToStopped())
		return
	case c.visualPeriodic:
		c.visualPeriodic = false
		c.queueMessage(message.ToPeriodic())
	default:
		c.queueMessage(message)
	}
	c.visualTrigger.Tick()
}

func (c *Client) sendIncrementalAircraftConfig() {
	if !c.IsConnected() || !c.settings().features.SendAircraftParts {
		return
	}
	current := c.ownAircraft.OwnAircraft().Parts
	if current == nil {
		return
	}
	incremental := IncrementalObject(c.sentParts, current)
	if len(incremental) == 0 {
		return
	}
	if !c.partsLimiter.Allow() {
		return
	}
	c.sendAircraftConfiguration(global.AircraftConfigReceiver, incremental)
	c.sentParts = copyParts(current)
}

// sendFullAircraftConfig 对方请求完整部件数据时回复, 不要求对方在范围内
func (c *Client) sendFullAircraftConfig(receiver string) {
	config := copyParts(c.ownAircraft.OwnAircraft().Parts)
	if config == nil {
		config = make(map[string]any)
	}
	config[isFullDataKey] = true
	c.sendAircraftConfiguration(receiver, config)
}

func (c *Client) sendAircraftConfiguration(receiver string, config map[string]any) {
	body, err := encodeAircraftConfig(config)
	if err != nil {
		c.logger.WarnF("[FSD] %v", err)
		return
	}
	c.queueMessage(packet.NewClientQuery(c.callsign(), receiver, fsd.QueryAircraftConfig, body))
}

func (c *Client) sendClientResponse(queryType fsd.ClientQueryType, receiver string) {
	s := c.settings()
	callsign := s.user.Callsign
	switch queryType {
	case fsd.QueryCapabilities:
		c.queueMessage(packet.NewClientResponse(callsign, receiver, queryType, packet.FormatCapabilities(s.capabilities)...))
	case fsd.QueryCom1Freq:
		frequency := float64(c.ownAircraft.OwnAircraft().Com1Frequency) / 1000
		c.queueMessage(packet.NewClientResponse(callsign, receiver, queryType, fmt.Sprintf("%.3f", frequency)))
	case fsd.QueryRealName:
		rating := fsd.PilotRating(s.user.PilotRating).String()
		if s.isObserver() {
			rating = fsd.AtcRating(s.user.AtcRating).String()
		}
		name := strings.TrimSpace(s.user.RealName + " " + s.user.HomeBase)
		c.queueMessage(packet.NewClientResponse(callsign, receiver, queryType, name, "", rating))
	case fsd.QueryServer:
		c.queueMessage(packet.NewClientResponse(callsign, receiver, queryType, c.ServerInfo().Address))
	case fsd.QueryINF:
		own := c.ownAircraft.OwnAircraft()
		info := fmt.Sprintf("CID=%s %s IP=%s SYS_UID=%s FSVER=%s LT=%v LO=%v AL=%d %s",
			s.user.Cid, s.identity.ClientName, localIp(c.conn), s.identity.SystemUid, s.identity.HostApp,
			own.Position.Latitude, own.Position.Longitude, int(own.AltitudeTrue), s.user.RealName)
		c.queueMessage(packet.NewTextMessage(callsign, receiver, info))
	default:
		c.logger.WarnF("[FSD] Pilot client does not answer %s queries", queryType)
		return
	}
	c.statistics.Increase("sendClientResponse", queryType.String())
}

// submit 检查连接状态后将发送任务投递到工作协程
func (c *Client) submit(task func()) error {
	if !c.IsConnected() {
		return fsd.ErrNotConnected
	}
	if !c.post(task) {
		return fsd.ErrClientClosed
	}
	return nil
}

func (c *Client) SendPrivateTextMessage(callsign string, message string) error {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if callsign == "" || message == "" {
		return fsd.ErrEmptyMessage
	}
	return c.submit(func() {
		sender := c.callsign()
		c.queueMessage(packet.NewTextMessage(sender, callsign, message))
		c.statistics.Increase("sendTextMessages", "PM")
		c.emit(fsd.TextMessageSent{Message: fsd.TextMessage{
			Sender:   sender,
			Receiver: callsign,
			Message:  message,
			Private:  true,
			Received: time.Now(),
		}})
	})
}

// SendRadioTextMessage 频率与附近席位相差不超过信道间隔时使用该席位的频率
func (c *Client) SendRadioTextMessage(frequenciesKHz []int, message string) error {
	if len(frequenciesKHz) == 0 || message == "" {
		return fsd.ErrEmptyMessage
	}
	frequencies := append([]int(nil), frequenciesKHz...)
	return c.submit(func() {
		position := c.ownAircraft.OwnAircraft().Position
		snapped := make([]int, 0, len(frequencies))
		for _, frequency := range frequencies {
			snapped = append(snapped, c.atc.SnapFrequency(frequency, position))
		}
		sender := c.callsign()
		radio := packet.NewRadioTextMessage(sender, snapped, message)
		c.queueMessage(radio)
		c.statistics.Increase("sendTextMessages", "FREQ")
		c.emit(fsd.TextMessageSent{Message: fsd.TextMessage{
			Sender:      sender,
			Receiver:    radio.Receiver,
			Message:     message,
			Frequencies: snapped,
			Received:    time.Now(),
		}})
	})
}

func (c *Client) SendGroupTextMessage(group fsd.TextMessageGroup, message string) error {
	if message == "" {
		return fsd.ErrEmptyMessage
	}
	switch group {
	case fsd.GroupAll, fsd.GroupAtc, fsd.GroupPilots, fsd.GroupSupervisors:
	default:
		return fmt.Errorf("unknown text message group %q", group)
	}
	return c.submit(func() {
		sender := c.callsign()
		c.queueMessage(packet.NewTextMessage(sender, string(group), message))
		c.statistics.Increase("sendTextMessages", "")
		if group == fsd.GroupSupervisors {
			c.emit(fsd.TextMessageSent{Message: fsd.TextMessage{
				Sender:     sender,
				Receiver:   string(group),
				Message:    message,
				Supervisor: true,
				Broadcast:  true,
				Received:   time.Now(),
			}})
		}
	})
}

func (c *Client) SendFlightPlan(flightPlan *fsd.FlightPlan) error {
	if flightPlan == nil {
		return fmt.Errorf("%w: flight plan is nil", packet.ErrInvalidMessage)
	}
	copied := *flightPlan
	return c.submit(func() {
		c.queueMessage(packet.NewFlightPlan(c.callsign(), global.FSDServerName, &copied))
		c.statistics.Increase("sendFlightPlan", "")
	})
}

// SendClientQuery IsValidATC与FP发往服务器, ACC必须携带数据
func (c *Client) SendClientQuery(queryType fsd.ClientQueryType, receiver string, data ...string) error {
	receiver = strings.ToUpper(strings.TrimSpace(receiver))
	switch queryType {
	case fsd.QueryUnknown:
		return fmt.Errorf("%w: unknown query type", packet.ErrInvalidMessage)
	case fsd.QueryIsValidATC, fsd.QueryFP, fsd.QueryAircraftConfig:
		if len(data) == 0 {
			return fsd.ErrMissingData
		}
	}
	payload := append([]string(nil), data...)
	return c.submit(func() { c.sendClientQuery(queryType, receiver, payload) })
}

func (c *Client) sendClientQuery(queryType fsd.ClientQueryType, receiver string, payload []string) {
	s := c.settings()
	callsign := s.user.Callsign
	switch queryType {
	case fsd.QueryIsValidATC, fsd.QueryFP:
		c.queueMessage(packet.NewClientQuery(callsign, global.FSDServerName, queryType, payload...))
	case fsd.QueryATIS:
		c.queueMessage(packet.NewClientQuery(callsign, receiver, queryType))
		if !s.isVatsim() {
			c.atis.AddPendingQuery(receiver, time.Now())
		}
	case fsd.QueryAircraftConfig:
		c.queueMessage(packet.NewClientQuery(callsign, receiver, queryType, payload...))
	case fsd.QueryEuroscopeSimData:
		c.queueMessage(packet.NewClientQuery(callsign, global.EuroscopeSimDataReceiver, queryType, "1"))
	default:
		c.queueMessage(packet.NewClientQuery(callsign, receiver, queryType))
	}
	c.statistics.Increase("sendClientQuery", queryType.String())
}

func (c *Client) SendClientQueryCapabilities(callsign string) error {
	return c.SendClientQuery(fsd.QueryCapabilities, callsign)
}

func (c *Client) SendClientQueryCom1Freq(callsign string) error {
	return c.SendClientQuery(fsd.QueryCom1Freq, callsign)
}

func (c *Client) SendClientQueryRealName(callsign string) error {
	return c.SendClientQuery(fsd.QueryRealName, callsign)
}

func (c *Client) SendClientQueryServer(callsign string) error {
	return c.SendClientQuery(fsd.QueryServer, callsign)
}

func (c *Client) SendClientQueryAtis(callsign string) error {
	return c.SendClientQuery(fsd.QueryATIS, callsign)
}

func (c *Client) SendClientQueryIsValidAtc(callsign string) error {
	return c.SendClientQuery(fsd.QueryIsValidATC, "", strings.ToUpper(callsign))
}

func (c *Client) SendClientQueryFlightPlan(callsign string) error {
	return c.SendClientQuery(fsd.QueryFP, "", strings.ToUpper(callsign))
}

// SendClientQueryAircraftConfig 请求对方发送完整的部件数据
func (c *Client) SendClientQueryAircraftConfig(callsign string) error {
	return c.SendClientQuery(fsd.QueryAircraftConfig, callsign, aircraftConfigRequest)
}

func (c *Client) SendPlaneInfoRequest(receiver string) error {
	receiver = strings.ToUpper(strings.TrimSpace(receiver))
	return c.submit(func() {
		c.queueMessage(packet.NewPlaneInfoRequest(c.callsign(), receiver))
		c.statistics.Increase("sendPlaneInfoRequest", "")
	})
}

func (c *Client) SendPlaneInfoRequestFsinn(receiver string) error {
	receiver = strings.ToUpper(strings.TrimSpace(receiver))
	return c.submit(func() {
		s := c.settings()
		c.queueMessage(packet.NewPlaneInfoRequestFsinn(s.user.Callsign, receiver, s.aircraft.AirlineIcao,
			s.aircraft.AircraftIcao, combinedType(s), s.aircraft.Model))
		c.statistics.Increase("sendPlaneInfoRequestFsinn", "")
	})
}

func (c *Client) SendPing(receiver string) error {
	receiver = strings.ToUpper(strings.TrimSpace(receiver))
	if receiver == "" {
		receiver = global.FSDServerName
	}
	return c.submit(func() {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		c.queueMessage(packet.NewPing(c.callsign(), receiver, timestamp))
		c.statistics.Increase("sendPing", "")
	})
}

// SendIncrementalAircraftConfig 立即尝试发送部件增量, 仍受令牌桶限制
func (c *Client) SendIncrementalAircraftConfig() error {
	if !c.settings().features.SendAircraftParts {
		return fmt.Errorf("sending aircraft parts is disabled")
	}
	return c.submit(c.sendIncrementalAircraftConfig)
}

func (c *Client) AddInterimPositionReceiver(callsign string) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if callsign == "" {
		return
	}
	c.post(func() { c.interimReceivers[callsign] = struct{}{} })
}

func (c *Client) RemoveInterimPositionReceiver(callsign string) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	c.post(func() { delete(c.interimReceivers, callsign) })
}

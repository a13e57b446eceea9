package packet

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"strconv"
	"strings"
	"time"
)

// ClientQuery $CQ 客户端之间或客户端与服务器之间的查询
type ClientQuery struct {
	Envelope
	QueryType fsd.ClientQueryType
	// RawType 线路上的查询类型字段, 用于识别被忽略的协调报文
	RawType string
	Payload []string
}

func NewClientQuery(sender, receiver string, queryType fsd.ClientQueryType, payload ...string) *ClientQuery {
	return &ClientQuery{
		Envelope:  newEnvelope(sender, receiver),
		QueryType: queryType,
		RawType:   FormatClientQueryType(queryType),
		Payload:   payload,
	}
}

func (m *ClientQuery) Kind() MessageKind { return KindClientQuery }

func (m *ClientQuery) Tokens() []string {
	return append([]string{m.Sender, m.Receiver, m.RawType}, m.Payload...)
}

func decodeClientQuery(tokens []string, codec *Codec) Message {
	return &ClientQuery{
		Envelope:  newEnvelope(tokens[0], tokens[1]),
		QueryType: codec.ParseClientQueryType(tokens[2]),
		RawType:   tokens[2],
		Payload:   append([]string(nil), tokens[3:]...),
	}
}

// ClientResponse $CR 对$CQ的应答
type ClientResponse struct {
	Envelope
	QueryType fsd.ClientQueryType
	RawType   string
	Payload   []string
}

func NewClientResponse(sender, receiver string, queryType fsd.ClientQueryType, payload ...string) *ClientResponse {
	return &ClientResponse{
		Envelope:  newEnvelope(sender, receiver),
		QueryType: queryType,
		RawType:   FormatClientQueryType(queryType),
		Payload:   payload,
	}
}

func (m *ClientResponse) Kind() MessageKind { return KindClientResponse }

func (m *ClientResponse) Tokens() []string {
	return append([]string{m.Sender, m.Receiver, m.RawType}, m.Payload...)
}

func decodeClientResponse(tokens []string, codec *Codec) Message {
	return &ClientResponse{
		Envelope:  newEnvelope(tokens[0], tokens[1]),
		QueryType: codec.ParseClientQueryType(tokens[2]),
		RawType:   tokens[2],
		Payload:   append([]string(nil), tokens[3:]...),
	}
}

// TextMessage #TM 私聊, 无线电频率或群组消息
type TextMessage struct {
	Envelope
	Message string
}

func NewTextMessage(sender, receiver, message string) *TextMessage {
	return &TextMessage{Envelope: newEnvelope(sender, receiver), Message: message}
}

// NewRadioTextMessage 频率以kHz给出, 多个频率用&连接
func NewRadioTextMessage(sender string, frequenciesKHz []int, message string) *TextMessage {
	receivers := make([]string, 0, len(frequenciesKHz))
	for _, frequency := range frequenciesKHz {
		receivers = append(receivers, fmt.Sprintf("@%d", frequency-FrequencyBaseKHz))
	}
	return NewTextMessage(sender, strings.Join(receivers, "&"), message)
}

func (m *TextMessage) Kind() MessageKind { return KindTextMessage }

func (m *TextMessage) Tokens() []string { return []string{m.Sender, m.Receiver, m.Message} }

func decodeTextMessage(tokens []string, _ *Codec) Message {
	return &TextMessage{Envelope: newEnvelope(tokens[0], tokens[1]), Message: joinFrom(tokens, 2)}
}

func (m *TextMessage) IsRadioMessage() bool { return strings.HasPrefix(m.Receiver, "@") }

func (m *TextMessage) IsBroadcast() bool {
	switch fsd.TextMessageGroup(m.Receiver) {
	case fsd.GroupAll, fsd.GroupAtc, fsd.GroupPilots, fsd.GroupSupervisors:
		return true
	default:
		return false
	}
}

func (m *TextMessage) IsPrivate() bool { return !m.IsRadioMessage() && !m.IsBroadcast() }

// IsSupervisor 发送者以SUP结尾或发往监管组
func (m *TextMessage) IsSupervisor() bool {
	return strings.HasSuffix(strings.ToUpper(m.Sender), "SUP") || fsd.TextMessageGroup(m.Receiver) == fsd.GroupSupervisors
}

// Frequencies 解析无线电消息的接收频率, 单位kHz
func (m *TextMessage) Frequencies() []int {
	if !m.IsRadioMessage() {
		return nil
	}
	parts := strings.Split(m.Receiver, "&")
	frequencies := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimPrefix(part, "@"))
		if err != nil {
			continue
		}
		frequencies = append(frequencies, value+FrequencyBaseKHz)
	}
	return frequencies
}

func (m *TextMessage) ToModel(received time.Time) *fsd.TextMessage {
	return &fsd.TextMessage{
		Sender:      m.Sender,
		Receiver:    m.Receiver,
		Message:     m.Message,
		Frequencies: m.Frequencies(),
		Private:     m.IsPrivate(),
		Supervisor:  m.IsSupervisor(),
		Broadcast:   m.IsBroadcast(),
		Received:    received,
	}
}

// FlightPlan $FP 飞行计划
type FlightPlan struct {
	Envelope
	FlightType         fsd.FlightType
	AircraftType       string
	TrueCruisingSpeed  int
	DepartureAirport   string
	EstimatedDepTime   int
	ActualDepTime      int
	CruiseAltitude     string
	DestinationAirport string
	HoursEnroute       int
	MinutesEnroute     int
	FuelAvailHours     int
	FuelAvailMinutes   int
	AlternateAirport   string
	Remarks            string
	Route              string
}

// NewFlightPlan 航路与备注中的冒号会被移除
func NewFlightPlan(sender, receiver string, plan *fsd.FlightPlan) *FlightPlan {
	return &FlightPlan{
		Envelope:           newEnvelope(sender, receiver),
		FlightType:         plan.FlightType,
		AircraftType:       plan.AircraftType,
		TrueCruisingSpeed:  plan.TrueCruisingSpeed,
		DepartureAirport:   plan.DepartureAirport,
		EstimatedDepTime:   parseInt(plan.EstimatedDepTime),
		ActualDepTime:      parseInt(plan.ActualDepTime),
		CruiseAltitude:     plan.CruiseAltitude,
		DestinationAirport: plan.DestinationAirport,
		HoursEnroute:       plan.HoursEnroute,
		MinutesEnroute:     plan.MinutesEnroute,
		FuelAvailHours:     plan.FuelAvailHours,
		FuelAvailMinutes:   plan.FuelAvailMinutes,
		AlternateAirport:   plan.AlternateAirport,
		Remarks:            StripColons(plan.Remarks),
		Route:              StripColons(plan.Route),
	}
}

func (m *FlightPlan) Kind() MessageKind { return KindFlightPlan }

func (m *FlightPlan) Tokens() []string {
	return []string{m.Sender, m.Receiver, FormatFlightType(m.FlightType), m.AircraftType,
		strconv.Itoa(m.TrueCruisingSpeed), m.DepartureAirport, strconv.Itoa(m.EstimatedDepTime),
		strconv.Itoa(m.ActualDepTime), m.CruiseAltitude, m.DestinationAirport, strconv.Itoa(m.HoursEnroute),
		strconv.Itoa(m.MinutesEnroute), strconv.Itoa(m.FuelAvailHours), strconv.Itoa(m.FuelAvailMinutes),
		m.AlternateAirport, m.Remarks, m.Route}
}

func decodeFlightPlan(tokens []string, codec *Codec) Message {
	return &FlightPlan{
		Envelope:           newEnvelope(tokens[0], tokens[1]),
		FlightType:         codec.ParseFlightType(tokens[2]),
		AircraftType:       tokens[3],
		TrueCruisingSpeed:  parseInt(tokens[4]),
		DepartureAirport:   tokens[5],
		EstimatedDepTime:   parseInt(tokens[6]),
		ActualDepTime:      parseInt(tokens[7]),
		CruiseAltitude:     tokens[8],
		DestinationAirport: tokens[9],
		HoursEnroute:       parseInt(tokens[10]),
		MinutesEnroute:     parseInt(tokens[11]),
		FuelAvailHours:     parseInt(tokens[12]),
		FuelAvailMinutes:   parseInt(tokens[13]),
		AlternateAirport:   tokens[14],
		Remarks:            tokens[15],
		Route:              joinFrom(tokens, 16),
	}
}

// ToModel 起飞时间补零到4位, 巡航高度按飞行规则归一化
func (m *FlightPlan) ToModel() *fsd.FlightPlan {
	return &fsd.FlightPlan{
		Callsign:           m.Sender,
		FlightType:         m.FlightType,
		AircraftType:       m.AircraftType,
		TrueCruisingSpeed:  m.TrueCruisingSpeed,
		DepartureAirport:   m.DepartureAirport,
		EstimatedDepTime:   fmt.Sprintf("%04d", m.EstimatedDepTime),
		ActualDepTime:      fmt.Sprintf("%04d", m.ActualDepTime),
		CruiseAltitude:     NormalizeCruiseAltitude(m.FlightType, m.CruiseAltitude),
		DestinationAirport: m.DestinationAirport,
		HoursEnroute:       m.HoursEnroute,
		MinutesEnroute:     m.MinutesEnroute,
		FuelAvailHours:     m.FuelAvailHours,
		FuelAvailMinutes:   m.FuelAvailMinutes,
		AlternateAirport:   m.AlternateAirport,
		Remarks:            m.Remarks,
		Route:              m.Route,
	}
}

// NormalizeCruiseAltitude 只处理纯数字的高度
// IFR: >=1000 视为英尺并换算为高度层, 否则本身就是高度层
// 其他规则: >=5000 换算为高度层, 否则为英尺
func NormalizeCruiseAltitude(flightType fsd.FlightType, altitude string) string {
	altitude = strings.TrimSpace(altitude)
	if altitude == "" || strings.TrimLeft(altitude, "0123456789") != "" {
		return altitude
	}
	value, err := strconv.Atoi(altitude)
	if err != nil {
		return altitude
	}
	if flightType == fsd.FlightTypeIFR {
		if value >= 1000 {
			return "FL" + strconv.Itoa(value/100)
		}
		return "FL" + altitude
	}
	if value >= 5000 {
		return "FL" + strconv.Itoa(value/100)
	}
	return altitude + "ft"
}

// PlaneInfoRequest #SB PIR 请求对方的机型信息
type PlaneInfoRequest struct {
	Envelope
}

func NewPlaneInfoRequest(sender, receiver string) *PlaneInfoRequest {
	return &PlaneInfoRequest{Envelope: newEnvelope(sender, receiver)}
}

func (m *PlaneInfoRequest) Kind() MessageKind { return KindPlaneInfoRequest }

func (m *PlaneInfoRequest) Tokens() []string { return []string{m.Sender, m.Receiver, "PIR"} }

func decodePlaneInfoRequest(tokens []string, _ *Codec) Message {
	return &PlaneInfoRequest{Envelope: newEnvelope(tokens[0], tokens[1])}
}

// PlaneInformation #SB PI GEN 机型, 航司与涂装, 后两者可选
type PlaneInformation struct {
	Envelope
	AircraftType string
	Airline      string
	Livery       string
}

func NewPlaneInformation(sender, receiver, aircraftType, airline, livery string) *PlaneInformation {
	return &PlaneInformation{
		Envelope:     newEnvelope(sender, receiver),
		AircraftType: aircraftType,
		Airline:      airline,
		Livery:       livery,
	}
}

func (m *PlaneInformation) Kind() MessageKind { return KindPlaneInformation }

func (m *PlaneInformation) Tokens() []string {
	tokens := []string{m.Sender, m.Receiver, "PI", "GEN", "EQUIPMENT=" + m.AircraftType}
	if m.Airline != "" {
		tokens = append(tokens, "AIRLINE="+m.Airline)
	}
	if m.Livery != "" {
		tokens = append(tokens, "LIVERY="+m.Livery)
	}
	return tokens
}

func decodePlaneInformation(tokens []string, _ *Codec) Message {
	m := &PlaneInformation{Envelope: newEnvelope(tokens[0], tokens[1])}
	for _, token := range tokens[4:] {
		key, value, found := strings.Cut(token, "=")
		if !found {
			continue
		}
		switch key {
		case "EQUIPMENT":
			m.AircraftType = value
		case "AIRLINE":
			m.Airline = value
		case "LIVERY":
			m.Livery = value
		}
	}
	return m
}

// fsinnPlaneInfo FSIPIR与FSIPI共用的字段布局
type fsinnPlaneInfo struct {
	Envelope
	AirlineIcao          string
	AircraftIcao         string
	AircraftCombinedType string
	ModelString          string
}

func (m *fsinnPlaneInfo) tokens(opcode string) []string {
	return []string{m.Sender, m.Receiver, opcode, "0", m.AirlineIcao, m.AircraftIcao, "", "", "", "",
		m.AircraftCombinedType, m.ModelString}
}

func decodeFsinnPlaneInfo(tokens []string) fsinnPlaneInfo {
	return fsinnPlaneInfo{
		Envelope:             newEnvelope(tokens[0], tokens[1]),
		AirlineIcao:          tokens[4],
		AircraftIcao:         tokens[5],
		AircraftCombinedType: tokens[10],
		ModelString:          tokens[11],
	}
}

type PlaneInfoRequestFsinn struct {
	fsinnPlaneInfo
}

func NewPlaneInfoRequestFsinn(sender, receiver, airlineIcao, aircraftIcao, combinedType, modelString string) *PlaneInfoRequestFsinn {
	return &PlaneInfoRequestFsinn{fsinnPlaneInfo{
		Envelope:             newEnvelope(sender, receiver),
		AirlineIcao:          airlineIcao,
		AircraftIcao:         aircraftIcao,
		AircraftCombinedType: combinedType,
		ModelString:          modelString,
	}}
}

func (m *PlaneInfoRequestFsinn) Kind() MessageKind { return KindPlaneInfoRequestFsinn }

func (m *PlaneInfoRequestFsinn) Tokens() []string { return m.tokens("FSIPIR") }

func decodePlaneInfoRequestFsinn(tokens []string, _ *Codec) Message {
	return &PlaneInfoRequestFsinn{decodeFsinnPlaneInfo(tokens)}
}

type PlaneInformationFsinn struct {
	fsinnPlaneInfo
}

func NewPlaneInformationFsinn(sender, receiver, airlineIcao, aircraftIcao, combinedType, modelString string) *PlaneInformationFsinn {
	return &PlaneInformationFsinn{fsinnPlaneInfo{
		Envelope:             newEnvelope(sender, receiver),
		AirlineIcao:          airlineIcao,
		AircraftIcao:         aircraftIcao,
		AircraftCombinedType: combinedType,
		ModelString:          modelString,
	}}
}

func (m *PlaneInformationFsinn) Kind() MessageKind { return KindPlaneInformationFsinn }

func (m *PlaneInformationFsinn) Tokens() []string { return m.tokens("FSIPI") }

func decodePlaneInformationFsinn(tokens []string, _ *Codec) Message {
	return &PlaneInformationFsinn{decodeFsinnPlaneInfo(tokens)}
}

// RevBClientParts -MD IVAO风格的部件广播, 负载原样保留
type RevBClientParts struct {
	Envelope
	Parts string
}

func NewRevBClientParts(sender, receiver, parts string) *RevBClientParts {
	return &RevBClientParts{Envelope: newEnvelope(sender, receiver), Parts: parts}
}

func (m *RevBClientParts) Kind() MessageKind { return KindRevBClientParts }

func (m *RevBClientParts) Tokens() []string { return []string{m.Sender, m.Receiver, m.Parts} }

func decodeRevBClientParts(tokens []string, _ *Codec) Message {
	return &RevBClientParts{Envelope: newEnvelope(tokens[0], tokens[1]), Parts: joinFrom(tokens, 2)}
}

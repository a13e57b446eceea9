package packet

import (
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/utils"
	"strconv"
	"strings"
)

var (
	ErrInvalidMessage  = errors.New("invalid fsd message")
	ErrUnsupportedKind = errors.New("message kind has no decoder")
)

const (
	Separator         = ":"
	LineEnd           = "\r\n"
	FsdServerReceiver = "SERVER"
)

// Envelope 所有报文共有的发送者与接收者
type Envelope struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	valid    bool
}

func newEnvelope(sender string, receiver string) Envelope {
	return Envelope{Sender: sender, Receiver: receiver, valid: true}
}

func (e Envelope) IsValid() bool { return e.valid }

type Message interface {
	Kind() MessageKind
	// Tokens 不含前缀的字段列表
	Tokens() []string
	IsValid() bool
}

// MinTokens 各类报文解码所需的最少字段数
var MinTokens = map[MessageKind]int{
	KindAddAtc:                  7,
	KindAddPilot:                8,
	KindAtcDataUpdate:           8,
	KindAuthChallenge:           3,
	KindAuthResponse:            3,
	KindClientIdentification:    9,
	KindClientQuery:             3,
	KindClientResponse:          3,
	KindDeleteAtc:               1,
	KindDeletePilot:             1,
	KindEuroscopeSimData:        12,
	KindFlightPlan:              17,
	KindFsdIdentification:       4,
	KindInterimPilotDataUpdate:  8,
	KindKillRequest:             2,
	KindPilotDataUpdate:         10,
	KindVisualPilotDataUpdate:   12,
	KindVisualPilotDataPeriodic: 12,
	KindVisualPilotDataStopped:  6,
	KindVisualPilotDataToggle:   3,
	KindPing:                    3,
	KindPong:                    3,
	KindPlaneInfoRequest:        3,
	KindPlaneInformation:        5,
	KindPlaneInfoRequestFsinn:   12,
	KindPlaneInformationFsinn:   12,
	KindRehost:                  3,
	KindServerError:             5,
	KindTextMessage:             3,
	KindMute:                    3,
	KindRevBClientParts:         3,
}

type messageSpec struct {
	empty  func() Message
	decode func(tokens []string, codec *Codec) Message
}

var messageSpecs = map[MessageKind]*messageSpec{
	KindAddAtc:                  {func() Message { return &AddAtc{} }, decodeAddAtc},
	KindAddPilot:                {func() Message { return &AddPilot{} }, decodeAddPilot},
	KindAtcDataUpdate:           {func() Message { return &AtcDataUpdate{} }, decodeAtcDataUpdate},
	KindAuthChallenge:           {func() Message { return &AuthChallenge{} }, decodeAuthChallenge},
	KindAuthResponse:            {func() Message { return &AuthResponse{} }, decodeAuthResponse},
	KindClientIdentification:    {func() Message { return &ClientIdentification{} }, decodeClientIdentification},
	KindClientQuery:             {func() Message { return &ClientQuery{} }, decodeClientQuery},
	KindClientResponse:          {func() Message { return &ClientResponse{} }, decodeClientResponse},
	KindDeleteAtc:               {func() Message { return &DeleteAtc{} }, decodeDeleteAtc},
	KindDeletePilot:             {func() Message { return &DeletePilot{} }, decodeDeletePilot},
	KindEuroscopeSimData:        {func() Message { return &EuroscopeSimData{} }, decodeEuroscopeSimData},
	KindFlightPlan:              {func() Message { return &FlightPlan{} }, decodeFlightPlan},
	KindFsdIdentification:       {func() Message { return &FsdIdentification{} }, decodeFsdIdentification},
	KindInterimPilotDataUpdate:  {func() Message { return &InterimPilotDataUpdate{} }, decodeInterimPilotDataUpdate},
	KindKillRequest:             {func() Message { return &KillRequest{} }, decodeKillRequest},
	KindPilotDataUpdate:         {func() Message { return &PilotDataUpdate{} }, decodePilotDataUpdate},
	KindVisualPilotDataUpdate:   {func() Message { return &VisualPilotDataUpdate{} }, decodeVisualPilotDataUpdate},
	KindVisualPilotDataPeriodic: {func() Message { return &VisualPilotDataUpdate{Variant: fsd.VisualPeriodic} }, decodeVisualPilotDataPeriodic},
	KindVisualPilotDataStopped:  {func() Message { return &VisualPilotDataUpdate{Variant: fsd.VisualStopped} }, decodeVisualPilotDataStopped},
	KindVisualPilotDataToggle:   {func() Message { return &VisualPilotDataToggle{} }, decodeVisualPilotDataToggle},
	KindPing:                    {func() Message { return &Ping{} }, decodePing},
	KindPong:                    {func() Message { return &Pong{} }, decodePong},
	KindPlaneInfoRequest:        {func() Message { return &PlaneInfoRequest{} }, decodePlaneInfoRequest},
	KindPlaneInformation:        {func() Message { return &PlaneInformation{} }, decodePlaneInformation},
	KindPlaneInfoRequestFsinn:   {func() Message { return &PlaneInfoRequestFsinn{} }, decodePlaneInfoRequestFsinn},
	KindPlaneInformationFsinn:   {func() Message { return &PlaneInformationFsinn{} }, decodePlaneInformationFsinn},
	KindRehost:                  {func() Message { return &Rehost{} }, decodeRehost},
	KindServerError:             {func() Message { return &ServerError{} }, decodeServerError},
	KindTextMessage:             {func() Message { return &TextMessage{} }, decodeTextMessage},
	KindMute:                    {func() Message { return &Mute{} }, decodeMute},
	KindRevBClientParts:         {func() Message { return &RevBClientParts{} }, decodeRevBClientParts},
}

// FromTokens 将字段列表解码为具体报文
// 字段不足时返回该类型的零值(IsValid为false), 同一类型只记录一次日志
func FromTokens(kind MessageKind, tokens []string, codec *Codec) (Message, error) {
	if codec == nil {
		codec = DefaultCodec()
	}
	spec, ok := messageSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if require := MinTokens[kind]; len(tokens) < require {
		codec.diagnostics.Report("tokens|"+kind.String(),
			"[Codec] %s message too short, require %d tokens but got %d", kind, require, len(tokens))
		return spec.empty(), fmt.Errorf("%w: %s require %d tokens but got %d", ErrInvalidMessage, kind, require, len(tokens))
	}
	return spec.decode(tokens, codec), nil
}

// PilotClientComKind 根据#SB报文的第三个字段确定子类型, 无法识别时返回KindPilotClientCom
func PilotClientComKind(tokens []string) MessageKind {
	switch tokenAt(tokens, 2) {
	case "VI":
		return KindInterimPilotDataUpdate
	case "PIR":
		return KindPlaneInfoRequest
	case "PI":
		if len(tokens) > 4 && tokens[3] == "GEN" {
			return KindPlaneInformation
		}
		return KindPilotClientCom
	case "FSIPI":
		return KindPlaneInformationFsinn
	case "FSIPIR":
		return KindPlaneInfoRequestFsinn
	default:
		return KindPilotClientCom
	}
}

// Serialize 生成完整的一行报文, 包括前缀与行尾
func Serialize(message Message) (string, error) {
	if message == nil || !message.IsValid() {
		return "", ErrInvalidMessage
	}
	prefix := PrefixOf(message.Kind())
	if prefix == "" {
		return "", fmt.Errorf("%w: kind %s has no prefix", ErrInvalidMessage, message.Kind())
	}
	return prefix + strings.Join(message.Tokens(), Separator) + LineEnd, nil
}

// StripColons 自由文本中的冒号会破坏分隔, 发送前移除
func StripColons(text string) string {
	return strings.ReplaceAll(text, Separator, "")
}

func tokenAt(tokens []string, index int) string {
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

func joinFrom(tokens []string, index int) string {
	if index >= len(tokens) {
		return ""
	}
	return strings.Join(tokens[index:], Separator)
}

func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func parseInt(token string) int {
	if value, err := strconv.Atoi(token); err == nil {
		return value
	}
	// 部分客户端会发送带小数的高度
	return int(utils.StrToFloat(token, 0))
}

func parseFloat(token string) float64 { return utils.StrToFloat(token, 0) }

func parseUint32(token string) uint32 { return utils.StrToUint32(token, 0) }

func formatBool(value bool) string { return utils.BoolToToken(value) }

func parseBool(token string) bool {
	return token == "1"
}

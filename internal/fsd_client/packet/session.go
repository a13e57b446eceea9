package packet

import (
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"strconv"
)

// AddAtc #AA 管制员/观察者登录
type AddAtc struct {
	Envelope
	RealName string
	Cid      string
	Password string
	Rating   fsd.AtcRating
	Revision int
}

func NewAddAtc(callsign, realName, cid, password string, rating fsd.AtcRating, revision int) *AddAtc {
	return &AddAtc{
		Envelope: newEnvelope(callsign, FsdServerReceiver),
		RealName: realName,
		Cid:      cid,
		Password: password,
		Rating:   rating,
		Revision: revision,
	}
}

func (m *AddAtc) Kind() MessageKind { return KindAddAtc }

func (m *AddAtc) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.RealName, m.Cid, m.Password, FormatAtcRating(m.Rating), strconv.Itoa(m.Revision)}
}

func decodeAddAtc(tokens []string, codec *Codec) Message {
	return &AddAtc{
		Envelope: newEnvelope(tokens[0], tokens[1]),
		RealName: tokens[2],
		Cid:      tokens[3],
		Password: tokens[4],
		Rating:   codec.ParseAtcRating(tokens[5]),
		Revision: parseInt(tokens[6]),
	}
}

// AddPilot #AP 飞行员登录
type AddPilot struct {
	Envelope
	Cid      string
	Password string
	Rating   fsd.PilotRating
	Revision int
	SimType  fsd.SimType
	RealName string
}

func NewAddPilot(callsign, cid, password string, rating fsd.PilotRating, revision int, simType fsd.SimType, realName string) *AddPilot {
	return &AddPilot{
		Envelope: newEnvelope(callsign, FsdServerReceiver),
		Cid:      cid,
		Password: password,
		Rating:   rating,
		Revision: revision,
		SimType:  simType,
		RealName: realName,
	}
}

func (m *AddPilot) Kind() MessageKind { return KindAddPilot }

func (m *AddPilot) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Cid, m.Password, FormatPilotRating(m.Rating), strconv.Itoa(m.Revision),
		FormatSimType(m.SimType), m.RealName}
}

func decodeAddPilot(tokens []string, codec *Codec) Message {
	return &AddPilot{
		Envelope: newEnvelope(tokens[0], tokens[1]),
		Cid:      tokens[2],
		Password: tokens[3],
		Rating:   codec.ParsePilotRating(tokens[4]),
		Revision: parseInt(tokens[5]),
		SimType:  codec.ParseSimType(tokens[6]),
		RealName: tokens[7],
	}
}

// DeleteAtc #DA 管制员下线, 接收者为空
type DeleteAtc struct {
	Envelope
	Cid string
}

func NewDeleteAtc(callsign, cid string) *DeleteAtc {
	return &DeleteAtc{Envelope: newEnvelope(callsign, ""), Cid: cid}
}

func (m *DeleteAtc) Kind() MessageKind { return KindDeleteAtc }

func (m *DeleteAtc) Tokens() []string { return []string{m.Sender, m.Cid} }

func decodeDeleteAtc(tokens []string, _ *Codec) Message {
	return &DeleteAtc{Envelope: newEnvelope(tokens[0], ""), Cid: tokenAt(tokens, 1)}
}

type DeletePilot struct {
	Envelope
	Cid string
}

func NewDeletePilot(callsign, cid string) *DeletePilot {
	return &DeletePilot{Envelope: newEnvelope(callsign, ""), Cid: cid}
}

func (m *DeletePilot) Kind() MessageKind { return KindDeletePilot }

func (m *DeletePilot) Tokens() []string { return []string{m.Sender, m.Cid} }

func decodeDeletePilot(tokens []string, _ *Codec) Message {
	return &DeletePilot{Envelope: newEnvelope(tokens[0], ""), Cid: tokenAt(tokens, 1)}
}

type AuthChallenge struct {
	Envelope
	Challenge string
}

func NewAuthChallenge(sender, receiver, challenge string) *AuthChallenge {
	return &AuthChallenge{Envelope: newEnvelope(sender, receiver), Challenge: challenge}
}

func (m *AuthChallenge) Kind() MessageKind { return KindAuthChallenge }

func (m *AuthChallenge) Tokens() []string { return []string{m.Sender, m.Receiver, m.Challenge} }

func decodeAuthChallenge(tokens []string, _ *Codec) Message {
	return &AuthChallenge{Envelope: newEnvelope(tokens[0], tokens[1]), Challenge: tokens[2]}
}

type AuthResponse struct {
	Envelope
	Response string
}

func NewAuthResponse(sender, receiver, response string) *AuthResponse {
	return &AuthResponse{Envelope: newEnvelope(sender, receiver), Response: response}
}

func (m *AuthResponse) Kind() MessageKind { return KindAuthResponse }

func (m *AuthResponse) Tokens() []string { return []string{m.Sender, m.Receiver, m.Response} }

func decodeAuthResponse(tokens []string, _ *Codec) Message {
	return &AuthResponse{Envelope: newEnvelope(tokens[0], tokens[1]), Response: tokens[2]}
}

// ClientIdentification $ID 客户端身份, 回应服务器的$DI
type ClientIdentification struct {
	Envelope
	ClientId         uint16
	ClientName       string
	VersionMajor     int
	VersionMinor     int
	Cid              string
	SystemUid        string
	InitialChallenge string
}

func NewClientIdentification(sender string, clientId uint16, clientName string, major, minor int,
	cid, systemUid, initialChallenge string) *ClientIdentification {
	return &ClientIdentification{
		Envelope:         newEnvelope(sender, FsdServerReceiver),
		ClientId:         clientId,
		ClientName:       clientName,
		VersionMajor:     major,
		VersionMinor:     minor,
		Cid:              cid,
		SystemUid:        systemUid,
		InitialChallenge: initialChallenge,
	}
}

func (m *ClientIdentification) Kind() MessageKind { return KindClientIdentification }

func (m *ClientIdentification) Tokens() []string {
	return []string{m.Sender, m.Receiver, fmt.Sprintf("%04x", m.ClientId), m.ClientName,
		strconv.Itoa(m.VersionMajor), strconv.Itoa(m.VersionMinor), m.Cid, m.SystemUid, m.InitialChallenge}
}

func decodeClientIdentification(tokens []string, _ *Codec) Message {
	clientId, _ := strconv.ParseUint(tokens[2], 16, 16)
	return &ClientIdentification{
		Envelope:         newEnvelope(tokens[0], tokens[1]),
		ClientId:         uint16(clientId),
		ClientName:       tokens[3],
		VersionMajor:     parseInt(tokens[4]),
		VersionMinor:     parseInt(tokens[5]),
		Cid:              tokens[6],
		SystemUid:        tokens[7],
		InitialChallenge: tokens[8],
	}
}

// FsdIdentification $DI 服务器下发的初始挑战
type FsdIdentification struct {
	Envelope
	ServerVersion    string
	InitialChallenge string
}

func NewFsdIdentification(sender, receiver, serverVersion, initialChallenge string) *FsdIdentification {
	return &FsdIdentification{
		Envelope:         newEnvelope(sender, receiver),
		ServerVersion:    serverVersion,
		InitialChallenge: initialChallenge,
	}
}

func (m *FsdIdentification) Kind() MessageKind { return KindFsdIdentification }

func (m *FsdIdentification) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.ServerVersion, m.InitialChallenge}
}

func decodeFsdIdentification(tokens []string, _ *Codec) Message {
	return &FsdIdentification{
		Envelope:         newEnvelope(tokens[0], tokens[1]),
		ServerVersion:    tokens[2],
		InitialChallenge: tokens[3],
	}
}

// KillRequest $!! 强制断开, 理由可以为空
type KillRequest struct {
	Envelope
	Reason string
}

func NewKillRequest(sender, receiver, reason string) *KillRequest {
	return &KillRequest{Envelope: newEnvelope(sender, receiver), Reason: reason}
}

func (m *KillRequest) Kind() MessageKind { return KindKillRequest }

func (m *KillRequest) Tokens() []string { return []string{m.Sender, m.Receiver, m.Reason} }

func decodeKillRequest(tokens []string, _ *Codec) Message {
	return &KillRequest{Envelope: newEnvelope(tokens[0], tokens[1]), Reason: joinFrom(tokens, 2)}
}

// Rehost $XX 服务器要求客户端切换到另一台主机
type Rehost struct {
	Envelope
	Hostname string
}

func NewRehost(sender, receiver, hostname string) *Rehost {
	return &Rehost{Envelope: newEnvelope(sender, receiver), Hostname: hostname}
}

func (m *Rehost) Kind() MessageKind { return KindRehost }

func (m *Rehost) Tokens() []string { return []string{m.Sender, m.Receiver, m.Hostname} }

func decodeRehost(tokens []string, _ *Codec) Message {
	return &Rehost{Envelope: newEnvelope(tokens[0], tokens[1]), Hostname: tokens[2]}
}

type Mute struct {
	Envelope
	Mute bool
}

func NewMute(sender, receiver string, mute bool) *Mute {
	return &Mute{Envelope: newEnvelope(sender, receiver), Mute: mute}
}

func (m *Mute) Kind() MessageKind { return KindMute }

func (m *Mute) Tokens() []string { return []string{m.Sender, m.Receiver, formatBool(m.Mute)} }

func decodeMute(tokens []string, _ *Codec) Message {
	return &Mute{Envelope: newEnvelope(tokens[0], tokens[1]), Mute: parseBool(tokens[2])}
}

// ServerError $ER 服务器错误, 错误码以普通整数发送
type ServerError struct {
	Envelope
	Code             fsd.ServerErrorCode
	CausingParameter string
	Description      string
}

func NewServerError(sender, receiver string, code fsd.ServerErrorCode, causingParameter, description string) *ServerError {
	return &ServerError{
		Envelope:         newEnvelope(sender, receiver),
		Code:             code,
		CausingParameter: causingParameter,
		Description:      description,
	}
}

func (m *ServerError) Kind() MessageKind { return KindServerError }

func (m *ServerError) Tokens() []string {
	return []string{m.Sender, m.Receiver, FormatServerErrorCode(m.Code), m.CausingParameter, m.Description}
}

func (m *ServerError) IsFatal() bool { return m.Code.IsFatal() }

func decodeServerError(tokens []string, codec *Codec) Message {
	return &ServerError{
		Envelope:         newEnvelope(tokens[0], tokens[1]),
		Code:             codec.ParseServerErrorCode(tokens[2]),
		CausingParameter: tokens[3],
		Description:      joinFrom(tokens, 4),
	}
}

// Ping $PI 时间戳对客户端不透明, 原样返回即可
type Ping struct {
	Envelope
	Timestamp string
}

func NewPing(sender, receiver, timestamp string) *Ping {
	return &Ping{Envelope: newEnvelope(sender, receiver), Timestamp: timestamp}
}

func (m *Ping) Kind() MessageKind { return KindPing }

func (m *Ping) Tokens() []string { return []string{m.Sender, m.Receiver, m.Timestamp} }

func decodePing(tokens []string, _ *Codec) Message {
	return &Ping{Envelope: newEnvelope(tokens[0], tokens[1]), Timestamp: tokens[2]}
}

type Pong struct {
	Envelope
	Timestamp string
}

func NewPong(sender, receiver, timestamp string) *Pong {
	return &Pong{Envelope: newEnvelope(sender, receiver), Timestamp: timestamp}
}

func (m *Pong) Kind() MessageKind { return KindPong }

func (m *Pong) Tokens() []string { return []string{m.Sender, m.Receiver, m.Timestamp} }

func decodePong(tokens []string, _ *Codec) Message {
	return &Pong{Envelope: newEnvelope(tokens[0], tokens[1]), Timestamp: tokens[2]}
}

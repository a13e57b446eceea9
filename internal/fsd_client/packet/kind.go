// Package packet FSD报文的定义, 编解码与分帧
package packet

import (
	"sort"
	"strings"
)

type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindAddAtc
	KindAddPilot
	KindAtcDataUpdate
	KindAuthChallenge
	KindAuthResponse
	KindClientIdentification
	KindClientQuery
	KindClientResponse
	KindDeleteAtc
	KindDeletePilot
	KindEuroscopeSimData
	KindFlightPlan
	KindFsdIdentification
	KindKillRequest
	KindPilotDataUpdate
	KindVisualPilotDataUpdate
	KindVisualPilotDataPeriodic
	KindVisualPilotDataStopped
	KindVisualPilotDataToggle
	KindPing
	KindPong
	KindServerError
	KindServerHeartbeat
	KindTextMessage
	KindPilotClientCom
	KindRehost
	KindMute
	KindProController
	KindRegistrationInfo
	KindRevBClientParts
	KindRevBPilotDescription
	// 以下类型共用#SB前缀, 由第三个字段区分
	KindInterimPilotDataUpdate
	KindPlaneInfoRequest
	KindPlaneInformation
	KindPlaneInfoRequestFsinn
	KindPlaneInformationFsinn
)

var messageKindNames = []string{"Unknown", "AddAtc", "AddPilot", "AtcDataUpdate", "AuthChallenge",
	"AuthResponse", "ClientIdentification", "ClientQuery", "ClientResponse", "DeleteAtc", "DeletePilot",
	"EuroscopeSimData", "FlightPlan", "FsdIdentification", "KillRequest", "PilotDataUpdate",
	"VisualPilotDataUpdate", "VisualPilotDataPeriodic", "VisualPilotDataStopped", "VisualPilotDataToggle",
	"Ping", "Pong", "ServerError", "ServerHeartbeat", "TextMessage", "PilotClientCom", "Rehost", "Mute",
	"ProController", "RegistrationInfo", "RevBClientParts", "RevBPilotDescription", "InterimPilotDataUpdate",
	"PlaneInfoRequest", "PlaneInformation", "PlaneInfoRequestFsinn", "PlaneInformationFsinn"}

func (k MessageKind) String() string {
	if k < 0 || int(k) >= len(messageKindNames) {
		return messageKindNames[KindUnknown]
	}
	return messageKindNames[k]
}

func (k MessageKind) Index() int {
	return int(k)
}

// IsPilotClientCom 该类型是否通过#SB报文承载
func (k MessageKind) IsPilotClientCom() bool {
	return k >= KindInterimPilotDataUpdate || k == KindPilotClientCom
}

type prefixEntry struct {
	prefix string
	kind   MessageKind
}

// MessageTypeTable 前缀与报文类型的对应表, 按前缀长度降序排列, 初始化后只读
var MessageTypeTable = buildMessageTypeTable()

func buildMessageTypeTable() []prefixEntry {
	table := []prefixEntry{
		{"#AA", KindAddAtc},
		{"#AP", KindAddPilot},
		{"%", KindAtcDataUpdate},
		{"$ZC", KindAuthChallenge},
		{"$ZR", KindAuthResponse},
		{"$ID", KindClientIdentification},
		{"$CQ", KindClientQuery},
		{"$CR", KindClientResponse},
		{"#DA", KindDeleteAtc},
		{"#DP", KindDeletePilot},
		{"$FP", KindFlightPlan},
		{"#PC", KindProController},
		{"$DI", KindFsdIdentification},
		{"$!!", KindKillRequest},
		{"@", KindPilotDataUpdate},
		{"^", KindVisualPilotDataUpdate},
		{"#SL", KindVisualPilotDataPeriodic},
		{"#ST", KindVisualPilotDataStopped},
		{"$SF", KindVisualPilotDataToggle},
		{"$PI", KindPing},
		{"$PO", KindPong},
		{"$ER", KindServerError},
		{"#DL", KindServerHeartbeat},
		{"#TM", KindTextMessage},
		{"#SB", KindPilotClientCom},
		{"$XX", KindRehost},
		{"#MU", KindMute},
		{"SIMDATA", KindEuroscopeSimData},
		{"!R", KindRegistrationInfo},
		{"-MD", KindRevBClientParts},
		{"-PD", KindRevBPilotDescription},
	}
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].prefix) > len(table[j].prefix)
	})
	return table
}

// LookupPrefix 匹配报文前缀, 返回类型与去掉前缀后的负载
func LookupPrefix(line string) (MessageKind, string, bool) {
	for _, entry := range MessageTypeTable {
		if strings.HasPrefix(line, entry.prefix) {
			return entry.kind, line[len(entry.prefix):], true
		}
	}
	return KindUnknown, "", false
}

// PrefixOf 返回报文类型在线路上的前缀, #SB子类型统一返回#SB
func PrefixOf(kind MessageKind) string {
	if kind.IsPilotClientCom() {
		return "#SB"
	}
	for _, entry := range MessageTypeTable {
		if entry.kind == kind {
			return entry.prefix
		}
	}
	return ""
}

// Package service
package service

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
)

type ClientServiceInterface interface {
	GetStatus() *ApiResponse[ResponseClientStatus]
	GetAtcStations() *ApiResponse[ResponseAtcStations]
	GetStatistics() *ApiResponse[fsd.Statistics]
	Connect() *ApiResponse[ResponseClientStatus]
	Disconnect() *ApiResponse[ResponseClientStatus]
	SendText(req *RequestSendText) *ApiResponse[bool]
	SendPing(req *RequestSendPing) *ApiResponse[bool]
	SendQuery(req *RequestSendQuery) *ApiResponse[bool]
}

type ResponseClientStatus struct {
	Status         string         `json:"status"`
	Connected      bool           `json:"connected"`
	ConnectedSince string         `json:"connected_since,omitempty"`
	OnlineTime     string         `json:"online_time,omitempty"`
	Server         fsd.ServerInfo `json:"server"`
	AtcCount       int            `json:"atc_count"`
	TotalSent      string         `json:"total_sent"`
	TotalReceived  string         `json:"total_received"`
}

type ResponseAtcStations struct {
	Total    int              `json:"total"`
	Stations []fsd.AtcStation `json:"stations"`
}

type TextType string

const (
	TextPrivate TextType = "private"
	TextRadio   TextType = "radio"
	TextGroup   TextType = "group"
)

type RequestSendText struct {
	Type        TextType `json:"type"`
	To          string   `json:"to"`
	Frequencies []int    `json:"frequencies"`
	Message     string   `json:"message"`
}

type RequestSendPing struct {
	Receiver string `json:"receiver"`
}

type RequestSendQuery struct {
	Type     string   `json:"type"`
	Callsign string   `json:"callsign"`
	Data     []string `json:"data"`
}

var (
	SuccessGetStatus      = ApiStatus{"GET_STATUS", "获取客户端状态成功", Ok}
	SuccessGetAtcStations = ApiStatus{"GET_ATC_STATIONS", "获取管制席位成功", Ok}
	SuccessGetStatistics  = ApiStatus{"GET_STATISTICS", "获取报文统计成功", Ok}
	SuccessConnect        = ApiStatus{"CONNECT", "开始连接", Ok}
	SuccessDisconnect     = ApiStatus{"DISCONNECT", "断开连接", Ok}
	SuccessSendText       = ApiStatus{"SEND_TEXT", "消息已加入发送队列", Ok}
	SuccessSendPing       = ApiStatus{"SEND_PING", "PING已加入发送队列", Ok}
	SuccessSendQuery      = ApiStatus{"SEND_QUERY", "查询已加入发送队列", Ok}
)

type HistoryServiceInterface interface {
	GetRecentSessions(req *RequestRecentSessions) *ApiResponse[[]*operation.History]
	GetSessionStatistics(req *RequestSessionStatistics) *ApiResponse[[]*operation.NetworkStatistic]
	GetFlightPlan(req *RequestFlightPlan) *ApiResponse[operation.FlightPlan]
}

type RequestRecentSessions struct {
	Limit int `query:"limit"`
}

type RequestSessionStatistics struct {
	SessionId string `param:"session"`
}

type RequestFlightPlan struct {
	Callsign string `param:"callsign"`
}

var (
	SuccessGetSessions   = ApiStatus{"GET_SESSIONS", "获取会话记录成功", Ok}
	SuccessGetStatistic  = ApiStatus{"GET_SESSION_STATISTICS", "获取会话统计成功", Ok}
	SuccessGetFlightPlan = ApiStatus{"GET_FLIGHT_PLAN", "获取飞行计划成功", Ok}
)

type AuthServiceInterface interface {
	IssueToken(req *RequestIssueToken) *ApiResponse[ResponseIssueToken]
}

type RequestIssueToken struct {
	Password string `json:"password"`
}

type ResponseIssueToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

var SuccessIssueToken = ApiStatus{"ISSUE_TOKEN", "令牌签发成功", Ok}

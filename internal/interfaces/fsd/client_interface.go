// Package fsd
package fsd

import (
	"errors"
	"time"
)

var (
	ErrNotConnected    = errors.New("client is not connected")
	ErrNotDisconnected = errors.New("client settings can only be changed while disconnected")
	ErrClientClosed    = errors.New("client is closed")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMissingData     = errors.New("query requires data")
)

// Statistics 客户端报文统计快照
type Statistics struct {
	TotalSent     int            `json:"total_sent"`
	TotalReceived int            `json:"total_received"`
	Counts        map[string]int `json:"counts"`
	Summary       string         `json:"summary"`
}

// ClientInterface FSD客户端的对外接口
// 所有修改状态的调用都投递到客户端工作协程执行, 调用方不会阻塞在网络上
type ClientInterface interface {
	Connect()
	Disconnect()

	SendPrivateTextMessage(callsign string, message string) error
	SendRadioTextMessage(frequenciesKHz []int, message string) error
	SendGroupTextMessage(group TextMessageGroup, message string) error
	SendFlightPlan(flightPlan *FlightPlan) error
	SendClientQuery(queryType ClientQueryType, receiver string, data ...string) error
	SendPlaneInfoRequest(receiver string) error
	SendPlaneInfoRequestFsinn(receiver string) error
	SendPing(receiver string) error
	SendIncrementalAircraftConfig() error

	AddInterimPositionReceiver(callsign string)
	RemoveInterimPositionReceiver(callsign string)

	// 以下设置只允许在断开连接时修改
	SetServer(name string, host string, port uint) error
	SetCallsign(callsign string) error
	SetIcaoCodes(aircraftIcao string, airlineIcao string) error
	SetLiveryString(livery string) error
	SetModelString(model string) error
	SetSimType(simType SimType) error
	SetLoginMode(mode LoginMode) error
	SetCapabilities(capabilities Capabilities) error
	SetPilotRating(rating PilotRating) error
	SetAtcRating(rating AtcRating) error
	SetSimulatorInfo(hostApp string) error

	ConnectionStatus() ConnectionStatus
	IsConnected() bool
	ConnectedSince() time.Time
	AtcStations() []AtcStation
	Statistics() Statistics
	ServerInfo() ServerInfo

	// Subscribe 注册事件监听, 返回的函数用于取消注册
	Subscribe(listener EventListener) (unsubscribe func())
}

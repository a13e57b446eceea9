package operation

import (
	"time"
)

// History 一次FSD连接的会话记录
type History struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	SessionId  string    `gorm:"size:36;uniqueIndex;not null" json:"session_id"`
	Cid        string    `gorm:"size:16;index;not null" json:"cid"`
	Callsign   string    `gorm:"size:16;index;not null" json:"callsign"`
	Server     string    `gorm:"size:128;not null" json:"server"`
	IsObserver bool      `gorm:"default:0;not null" json:"is_observer"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	OnlineTime int       `gorm:"default:0;not null" json:"online_time"`
	EndReason  string    `gorm:"size:128" json:"end_reason"`
	Rehosts    int       `gorm:"default:0;not null" json:"rehosts"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// NetworkStatistic 断开连接时保存的报文统计
type NetworkStatistic struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	SessionId     string    `gorm:"size:36;index;not null" json:"session_id"`
	Server        string    `gorm:"size:128;not null" json:"server"`
	Callsign      string    `gorm:"size:16;index;not null" json:"callsign"`
	TotalSent     int       `gorm:"default:0;not null" json:"total_sent"`
	TotalReceived int       `gorm:"default:0;not null" json:"total_received"`
	Summary       string    `gorm:"type:text;not null" json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// FlightPlan 从网络上收到的飞行计划
type FlightPlan struct {
	ID               uint      `gorm:"primarykey" json:"-"`
	Callsign         string    `gorm:"size:16;uniqueIndex;not null" json:"callsign"`
	FlightType       string    `gorm:"size:4;not null" json:"flight_rules"`
	AircraftType     string    `gorm:"size:64;not null" json:"aircraft"`
	Tas              int       `gorm:"not null" json:"cruise_tas"`
	DepartureAirport string    `gorm:"size:8;not null" json:"departure"`
	DepartureTime    string    `gorm:"size:4;not null" json:"departure_time"`
	AtcDepartureTime string    `gorm:"size:4;not null" json:"atc_departure_time"`
	CruiseAltitude   string    `gorm:"size:8;not null" json:"altitude"`
	ArrivalAirport   string    `gorm:"size:8;not null" json:"arrival"`
	RouteTimeHour    int       `gorm:"not null" json:"route_time_hour"`
	RouteTimeMinute  int       `gorm:"not null" json:"route_time_minute"`
	FuelTimeHour     int       `gorm:"not null" json:"fuel_time_hour"`
	FuelTimeMinute   int       `gorm:"not null" json:"fuel_time_minute"`
	AlternateAirport string    `gorm:"size:8;not null" json:"alternate"`
	Remarks          string    `gorm:"type:text;not null" json:"remarks"`
	Route            string    `gorm:"type:text;not null" json:"route"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"updated_at"`
}

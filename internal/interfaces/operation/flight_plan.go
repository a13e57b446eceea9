// Package operation
package operation

import (
	"errors"
)

var (
	ErrFlightPlanNotFound     = errors.New("flight plan not found")
	ErrFlightPlanDataTooShort = errors.New("flight plan data is too short")
)

// FlightPlanOperationInterface 收到的飞行计划操作接口定义
type FlightPlanOperationInterface interface {
	// GetFlightPlanByCallsign 通过呼号获取飞行计划, 当err为nil时返回值flightPlan有效
	GetFlightPlanByCallsign(callsign string) (flightPlan *FlightPlan, err error)
	// UpsertFlightPlan 创建或更新飞行计划, 当err为nil时更新成功
	UpsertFlightPlan(flightPlan *FlightPlan) (err error)
	// DeleteFlightPlan 删除飞行计划, 当err为nil时删除成功
	DeleteFlightPlan(callsign string) (err error)
}

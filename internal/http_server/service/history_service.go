// Package service
package service

import (
	"errors"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/operation"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"strings"
)

const (
	defaultSessionLimit = 20
	maxSessionLimit     = 200
)

// HistoryService 查询数据库中的会话记录, 报文统计与收到的飞行计划
type HistoryService struct {
	logger     log.LoggerInterface
	operations *operation.DatabaseOperations
}

func NewHistoryService(logger log.LoggerInterface, operations *operation.DatabaseOperations) *HistoryService {
	return &HistoryService{
		logger:     logger,
		operations: operations,
	}
}

func (historyService *HistoryService) GetRecentSessions(req *RequestRecentSessions) *ApiResponse[[]*operation.History] {
	if historyService.operations == nil {
		return NewApiResponse[[]*operation.History](&ErrDatabaseDisabled, Unsatisfied, nil)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}
	histories, err := historyService.operations.HistoryOperation().GetRecentHistories(limit)
	if err != nil {
		historyService.logger.ErrorF("Fail to load recent sessions, %v", err)
		return NewApiResponse[[]*operation.History](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetSessions, Unsatisfied, &histories)
}

func (historyService *HistoryService) GetSessionStatistics(req *RequestSessionStatistics) *ApiResponse[[]*operation.NetworkStatistic] {
	if historyService.operations == nil {
		return NewApiResponse[[]*operation.NetworkStatistic](&ErrDatabaseDisabled, Unsatisfied, nil)
	}
	if req.SessionId == "" {
		return NewApiResponse[[]*operation.NetworkStatistic](&ErrLackParam, Unsatisfied, nil)
	}
	statistics, err := historyService.operations.StatisticsOperation().GetStatisticsBySession(req.SessionId)
	if err != nil {
		historyService.logger.ErrorF("Fail to load statistics of session %s, %v", req.SessionId, err)
		return NewApiResponse[[]*operation.NetworkStatistic](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetStatistic, Unsatisfied, &statistics)
}

func (historyService *HistoryService) GetFlightPlan(req *RequestFlightPlan) *ApiResponse[operation.FlightPlan] {
	if historyService.operations == nil {
		return NewApiResponse[operation.FlightPlan](&ErrDatabaseDisabled, Unsatisfied, nil)
	}
	callsign := strings.ToUpper(req.Callsign)
	if callsign == "" {
		return NewApiResponse[operation.FlightPlan](&ErrLackParam, Unsatisfied, nil)
	}
	flightPlan, err := historyService.operations.FlightPlanOperation().GetFlightPlanByCallsign(callsign)
	switch {
	case errors.Is(err, operation.ErrFlightPlanNotFound):
		return NewApiResponse[operation.FlightPlan](&ErrFlightPlanNotFound, Unsatisfied, nil)
	case err != nil:
		historyService.logger.ErrorF("Fail to load flight plan of %s, %v", callsign, err)
		return NewApiResponse[operation.FlightPlan](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetFlightPlan, Unsatisfied, flightPlan)
}

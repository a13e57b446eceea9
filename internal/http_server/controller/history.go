// Package controller
package controller

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type HistoryControllerInterface interface {
	GetRecentSessions(ctx echo.Context) error
	GetSessionStatistics(ctx echo.Context) error
	GetFlightPlan(ctx echo.Context) error
}

type HistoryController struct {
	logger         log.LoggerInterface
	historyService HistoryServiceInterface
}

func NewHistoryController(logger log.LoggerInterface, historyService HistoryServiceInterface) *HistoryController {
	return &HistoryController{
		logger:         logger,
		historyService: historyService,
	}
}

func (controller *HistoryController) GetRecentSessions(ctx echo.Context) error {
	data := &RequestRecentSessions{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("HistoryController.GetRecentSessions bind error: %v", err)
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	return controller.historyService.GetRecentSessions(data).Response(ctx)
}

func (controller *HistoryController) GetSessionStatistics(ctx echo.Context) error {
	data := &RequestSessionStatistics{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("HistoryController.GetSessionStatistics bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.historyService.GetSessionStatistics(data).Response(ctx)
}

func (controller *HistoryController) GetFlightPlan(ctx echo.Context) error {
	data := &RequestFlightPlan{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("HistoryController.GetFlightPlan bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.historyService.GetFlightPlan(data).Response(ctx)
}

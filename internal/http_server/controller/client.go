// Package controller
package controller

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type ClientControllerInterface interface {
	GetStatus(ctx echo.Context) error
	GetAtcStations(ctx echo.Context) error
	GetStatistics(ctx echo.Context) error
	Connect(ctx echo.Context) error
	Disconnect(ctx echo.Context) error
	SendText(ctx echo.Context) error
	SendPing(ctx echo.Context) error
	SendQuery(ctx echo.Context) error
}

type ClientController struct {
	logger        log.LoggerInterface
	clientService ClientServiceInterface
}

func NewClientController(logger log.LoggerInterface, clientService ClientServiceInterface) *ClientController {
	return &ClientController{
		logger:        logger,
		clientService: clientService,
	}
}

func (controller *ClientController) GetStatus(ctx echo.Context) error {
	return controller.clientService.GetStatus().Response(ctx)
}

func (controller *ClientController) GetAtcStations(ctx echo.Context) error {
	return controller.clientService.GetAtcStations().Response(ctx)
}

func (controller *ClientController) GetStatistics(ctx echo.Context) error {
	return controller.clientService.GetStatistics().Response(ctx)
}

func (controller *ClientController) Connect(ctx echo.Context) error {
	return controller.clientService.Connect().Response(ctx)
}

func (controller *ClientController) Disconnect(ctx echo.Context) error {
	return controller.clientService.Disconnect().Response(ctx)
}

func (controller *ClientController) SendText(ctx echo.Context) error {
	data := &RequestSendText{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("ClientController.SendText bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.clientService.SendText(data).Response(ctx)
}

func (controller *ClientController) SendPing(ctx echo.Context) error {
	data := &RequestSendPing{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("ClientController.SendPing bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.clientService.SendPing(data).Response(ctx)
}

func (controller *ClientController) SendQuery(ctx echo.Context) error {
	data := &RequestSendQuery{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("ClientController.SendQuery bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.clientService.SendQuery(data).Response(ctx)
}

// Package controller
package controller

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	logger      log.LoggerInterface
	authService AuthServiceInterface
}

func NewAuthController(logger log.LoggerInterface, authService AuthServiceInterface) *AuthController {
	return &AuthController{
		logger:      logger,
		authService: authService,
	}
}

func (controller *AuthController) IssueToken(ctx echo.Context) error {
	data := &RequestIssueToken{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("AuthController.IssueToken bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.authService.IssueToken(data).Response(ctx)
}

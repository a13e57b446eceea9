// Package http_server 本地控制与状态接口
package http_server

import (
	"context"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/simple-fsd-client/internal/http_server/controller"
	mid "github.com/half-nothing/simple-fsd-client/internal/http_server/middleware"
	impl "github.com/half-nothing/simple-fsd-client/internal/http_server/service"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/slog-echo"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type HttpServerShutdownCallback struct {
	serverHandler *echo.Echo
	limiter       *mid.KeyedRateLimiter
}

func NewHttpServerShutdownCallback(serverHandler *echo.Echo, limiter *mid.KeyedRateLimiter) *HttpServerShutdownCallback {
	return &HttpServerShutdownCallback{
		serverHandler: serverHandler,
		limiter:       limiter,
	}
}

func (hc *HttpServerShutdownCallback) Invoke(ctx context.Context) error {
	hc.limiter.StopCleanup()
	timeoutCtx, cancel := context.WithTimeout(ctx, global.ShutdownTimeout)
	defer cancel()
	return hc.serverHandler.Shutdown(timeoutCtx)
}

// streamSkipper websocket与指标接口不经过超时和压缩中间件
func streamSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/ws/") || path == "/metrics"
}

// NewHttpServer 构建路由, 不启动监听
func NewHttpServer(applicationContent *ApplicationContent, client fsd.ClientInterface) (*echo.Echo, *mid.KeyedRateLimiter) {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.HttpServer

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(log.OFF)

	switch httpConfig.ProxyType {
	case 0:
		e.IPExtractor = echo.ExtractIPDirect()
	case 1:
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	case 2:
		e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	default:
		logger.WarnF("Invalid proxy type %d, using default (direct)", httpConfig.ProxyType)
		e.IPExtractor = echo.ExtractIPDirect()
	}

	requestTimeout := httpConfig.RequestDuration
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Skipper: streamSkipper, Timeout: requestTimeout}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.ErrorF("Recovered from a fatal error: %v, stack: %s", err, string(stack))
			return err
		},
	}))

	loggerConfig := slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}
	e.Use(slogecho.NewWithConfig(slog.Default(), loggerConfig))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            httpConfig.SSL.HstsExpiredTime,
		HSTSExcludeSubdomains: !httpConfig.SSL.IncludeDomain,
	}))
	e.Use(middleware.CORS())
	if httpConfig.BodyLimit != "" {
		e.Use(middleware.BodyLimit(httpConfig.BodyLimit))
	}
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: streamSkipper,
		Level:   5,
	}))

	if httpConfig.Limits.RateLimit <= 0 {
		logger.WarnF("Invalid rate limit value %d, using default 60", httpConfig.Limits.RateLimit)
		httpConfig.Limits.RateLimit = 60
	}

	if httpConfig.Limits.RateLimitDuration <= 0 {
		logger.WarnF("Invalid rate limit duration %v, using default 1m", httpConfig.Limits.RateLimitDuration)
		httpConfig.Limits.RateLimitDuration = time.Minute
	}

	ipPathLimiter := mid.NewKeyedRateLimiter(
		httpConfig.Limits.RateLimitDuration,
		httpConfig.Limits.RateLimit,
	)
	cleanupInterval := httpConfig.Limits.RateLimitDuration * 2
	if cleanupInterval > time.Hour {
		cleanupInterval = time.Hour
		logger.InfoF("Limiting cleanup interval to 1 hour for efficiency")
	}
	ipPathLimiter.StartCleanup(cleanupInterval)

	e.Use(mid.RateLimitMiddleware(ipPathLimiter, mid.CombinedKeyFunc))

	var controlMiddleware echo.MiddlewareFunc
	if httpConfig.AdminPassword == "" {
		controlMiddleware = func(_ echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return service.NewErrorResponse(c, &service.ErrControlDisabled)
			}
		}
	} else {
		controlMiddleware = echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(httpConfig.JWT.Secret),
			TokenLookup:   "header:Authorization:Bearer ,query:token",
			SigningMethod: "HS512",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(service.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				var data *service.ApiResponse[any]
				switch {
				case errors.Is(err, echojwt.ErrJWTMissing):
					data = service.NewApiResponse[any](&service.ErrMissingOrMalformedJwt, service.Unsatisfied, nil)
				case errors.Is(err, echojwt.ErrJWTInvalid):
					data = service.NewApiResponse[any](&service.ErrInvalidOrExpiredJwt, service.Unsatisfied, nil)
				default:
					data = service.NewApiResponse[any](&service.ErrUnknown, service.Unsatisfied, nil)
				}
				return data.Response(c)
			},
		})
	}

	clientService := impl.NewClientService(logger, httpConfig.Limits, client)
	historyService := impl.NewHistoryService(logger, applicationContent.Operations())
	authService := impl.NewAuthService(logger, httpConfig.AdminPassword, httpConfig.JWT)

	clientController := controller.NewClientController(logger, clientService)
	historyController := controller.NewHistoryController(logger, historyService)
	authController := controller.NewAuthController(logger, authService)
	streamController := controller.NewStreamController(logger, client)

	apiGroup := e.Group("/api")
	apiGroup.POST("/token", authController.IssueToken)
	apiGroup.GET("/status", clientController.GetStatus)
	apiGroup.GET("/atc", clientController.GetAtcStations)
	apiGroup.GET("/statistics", clientController.GetStatistics)
	apiGroup.POST("/connect", clientController.Connect, controlMiddleware)
	apiGroup.POST("/disconnect", clientController.Disconnect, controlMiddleware)
	apiGroup.POST("/text", clientController.SendText, controlMiddleware)
	apiGroup.POST("/ping", clientController.SendPing, controlMiddleware)
	apiGroup.POST("/query", clientController.SendQuery, controlMiddleware)

	historyGroup := apiGroup.Group("/sessions")
	historyGroup.GET("", historyController.GetRecentSessions)
	historyGroup.GET("/:session/statistics", historyController.GetSessionStatistics)
	apiGroup.GET("/flightplans/:callsign", historyController.GetFlightPlan)

	e.GET("/ws/raw", streamController.RawMessages, controlMiddleware)

	if httpConfig.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return e, ipPathLimiter
}

func StartHttpServer(applicationContent *ApplicationContent, client fsd.ClientInterface) {
	httpConfig := applicationContent.ConfigManager().Config().HttpServer
	logger := applicationContent.Logger()

	e, limiter := NewHttpServer(applicationContent, client)
	applicationContent.Cleaner().Add(NewHttpServerShutdownCallback(e, limiter))

	protocol := "http"
	if httpConfig.SSL.Enable {
		protocol = "https"
	}
	logger.InfoF("Starting %s server on %s", protocol, httpConfig.Address)
	logger.InfoF("Rate limit: %d requests per %v",
		httpConfig.Limits.RateLimit,
		httpConfig.Limits.RateLimitDuration)

	var err error
	if httpConfig.SSL.Enable {
		err = e.StartTLS(
			httpConfig.Address,
			httpConfig.SSL.CertFile,
			httpConfig.SSL.KeyFile,
		)
	} else {
		err = e.Start(httpConfig.Address)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorF("Http server error: %v", err)
	}
}

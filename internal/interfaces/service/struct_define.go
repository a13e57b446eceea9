// Package service
package service

import (
	"errors"
	"github.com/golang-jwt/jwt/v5"
	c "github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/labstack/echo/v4"
	"time"
)

type HttpCode int

const (
	Unsatisfied         HttpCode = 0
	Ok                  HttpCode = 200
	BadRequest          HttpCode = 400
	Unauthorized        HttpCode = 401
	PermissionDenied    HttpCode = 403
	NotFound            HttpCode = 404
	Conflict            HttpCode = 409
	ServerInternalError HttpCode = 500
	ServiceUnavailable  HttpCode = 503
)

func (hc HttpCode) Code() int {
	return int(hc)
}

type ApiStatus struct {
	StatusName  string
	Description string
	HttpCode    HttpCode
}

type ApiResponse[T any] struct {
	HttpCode int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Data     *T     `json:"data"`
}

// Claims 控制接口只有管理员一个身份
type Claims struct {
	Admin  bool `json:"admin"`
	config *c.JWTConfig
	jwt.RegisteredClaims
}

func NewClaims(config *c.JWTConfig) *Claims {
	now := time.Now()
	return &Claims{
		Admin:  true,
		config: config,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.ExpiresDuration)),
		},
	}
}

func (claim *Claims) GenerateKey() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claim)
	return token.SignedString([]byte(claim.config.Secret))
}

func (res *ApiResponse[T]) Response(ctx echo.Context) error {
	return ctx.JSON(res.HttpCode, res)
}

var (
	ErrIllegalParam          = ApiStatus{"PARAM_ERROR", "参数不正确", BadRequest}
	ErrLackParam             = ApiStatus{"PARAM_LACK_ERROR", "缺少参数", BadRequest}
	ErrTextTooLong           = ApiStatus{"TEXT_TOO_LONG", "消息内容过长", BadRequest}
	ErrWrongPassword         = ApiStatus{"WRONG_PASSWORD", "密码错误", Unauthorized}
	ErrControlDisabled       = ApiStatus{"CONTROL_DISABLED", "未设置管理密码, 控制接口不可用", PermissionDenied}
	ErrNotConnected          = ApiStatus{"NOT_CONNECTED", "客户端未连接", Conflict}
	ErrAlreadyConnected      = ApiStatus{"ALREADY_CONNECTED", "客户端已连接或正在连接", Conflict}
	ErrClientClosed          = ApiStatus{"CLIENT_CLOSED", "客户端已关闭", ServiceUnavailable}
	ErrDatabaseDisabled      = ApiStatus{"DATABASE_DISABLED", "数据库未启用", NotFound}
	ErrDatabaseFail          = ApiStatus{"DATABASE_ERROR", "服务器内部错误", ServerInternalError}
	ErrFlightPlanNotFound    = ApiStatus{"FLIGHT_PLAN_NOT_FOUND", "飞行计划不存在", NotFound}
	ErrSignToken             = ApiStatus{"SIGN_TOKEN_ERROR", "令牌签发失败", ServerInternalError}
	ErrMissingOrMalformedJwt = ApiStatus{"MISSING_OR_MALFORMED_JWT", "缺少JWT令牌或者令牌格式错误", BadRequest}
	ErrInvalidOrExpiredJwt   = ApiStatus{"INVALID_OR_EXPIRED_JWT", "无效或过期的JWT令牌", Unauthorized}
	ErrUnknown               = ApiStatus{"UNKNOWN_JWT_ERROR", "未知的JWT解析错误", ServerInternalError}
)

func NewErrorResponse(ctx echo.Context, codeStatus *ApiStatus) error {
	return NewApiResponse[any](codeStatus, Unsatisfied, nil).Response(ctx)
}

func NewApiResponse[T any](codeStatus *ApiStatus, httpCode HttpCode, data *T) *ApiResponse[T] {
	if httpCode == Unsatisfied {
		httpCode = codeStatus.HttpCode
	}
	if httpCode == Unsatisfied {
		httpCode = Ok
	}
	return &ApiResponse[T]{
		HttpCode: httpCode.Code(),
		Code:     codeStatus.StatusName,
		Message:  codeStatus.Description,
		Data:     data,
	}
}

// CallClientFuncAndCheckError 调用客户端发送函数并把引擎错误映射为接口状态
func CallClientFuncAndCheckError[T any](fc func() error) *ApiResponse[T] {
	err := fc()
	switch {
	case errors.Is(err, fsd.ErrNotConnected):
		return NewApiResponse[T](&ErrNotConnected, Unsatisfied, nil)
	case errors.Is(err, fsd.ErrClientClosed):
		return NewApiResponse[T](&ErrClientClosed, Unsatisfied, nil)
	case errors.Is(err, fsd.ErrEmptyMessage), errors.Is(err, fsd.ErrMissingData):
		return NewApiResponse[T](&ErrLackParam, Unsatisfied, nil)
	case err != nil:
		return NewApiResponse[T](&ErrIllegalParam, Unsatisfied, nil)
	default:
		return nil
	}
}

// Package service
package service

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	. "github.com/half-nothing/simple-fsd-client/internal/interfaces/service"
	"golang.org/x/crypto/bcrypt"
	"time"
)

type AuthService struct {
	logger        log.LoggerInterface
	adminPassword string
	jwtConfig     *config.JWTConfig
}

func NewAuthService(logger log.LoggerInterface, adminPassword string, jwtConfig *config.JWTConfig) *AuthService {
	return &AuthService{
		logger:        logger,
		adminPassword: adminPassword,
		jwtConfig:     jwtConfig,
	}
}

// IssueToken 管理密码以bcrypt哈希保存在配置中
func (authService *AuthService) IssueToken(req *RequestIssueToken) *ApiResponse[ResponseIssueToken] {
	if authService.adminPassword == "" {
		return NewApiResponse[ResponseIssueToken](&ErrControlDisabled, Unsatisfied, nil)
	}
	if req.Password == "" {
		return NewApiResponse[ResponseIssueToken](&ErrLackParam, Unsatisfied, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(authService.adminPassword), []byte(req.Password)); err != nil {
		authService.logger.WarnF("Admin token requested with wrong password")
		return NewApiResponse[ResponseIssueToken](&ErrWrongPassword, Unsatisfied, nil)
	}
	claims := NewClaims(authService.jwtConfig)
	token, err := claims.GenerateKey()
	if err != nil {
		authService.logger.ErrorF("Fail to sign admin token, %v", err)
		return NewApiResponse[ResponseIssueToken](&ErrSignToken, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessIssueToken, Unsatisfied, &ResponseIssueToken{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.Format(time.RFC3339),
	})
}

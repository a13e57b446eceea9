// Package interfaces
package interfaces

import (
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/global"
)

// CleanerInterface 进程退出时按注册的相反顺序执行回调
type CleanerInterface interface {
	Init()
	Add(callable global.Callable)
	// OnReload 收到SIGHUP时调用, 返回错误只记录日志
	OnReload(reload func() error)
	Clean()
}

// Package fsd
package fsd

import "context"

// OwnAircraftProvider 在发送时轮询本机状态
type OwnAircraftProvider interface {
	OwnAircraft() OwnAircraft
}

// RemoteAircraftProvider 判断远端客户端是否在范围内, 以及是否需要解析其部件数据
type RemoteAircraftProvider interface {
	IsInRange(callsign string) bool
	ReceivesParts(callsign string) bool
}

// Authenticator 带密钥的挑战应答原语
type Authenticator interface {
	SetInitialChallenge(challenge string)
	GenerateChallenge() string
	GenerateResponse(challenge string) string
}

type AuthenticatorFactory func(clientId uint16, key string) Authenticator

// TokenFetcher 通过HTTP用凭据交换登录令牌
type TokenFetcher interface {
	FetchToken(ctx context.Context, cid string, password string) (string, error)
}

// LoadBalancer 将主机名解析为负载均衡后的服务器地址, 失败时返回原主机名
type LoadBalancer interface {
	Resolve(ctx context.Context, host string) string
}

// EventListener 事件回调, 总是在客户端工作协程中执行
type EventListener func(event Event)

// Archiver 断开连接后归档原始日志与统计文件
type Archiver interface {
	Archive(ctx context.Context, files []string) error
}

// Notifier 严重事件的告警通知, 实现方需自行处理耗时操作
type Notifier interface {
	Notify(subject string, body string) error
}

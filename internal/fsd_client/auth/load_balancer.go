package auth

import (
	"context"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/log"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// HttpLoadBalancer 从负载均衡接口获取服务器IP, 任何失败都回退到原主机名
type HttpLoadBalancer struct {
	logger     log.LoggerInterface
	url        string
	httpClient *http.Client
}

func NewHttpLoadBalancer(logger log.LoggerInterface, url string, timeout time.Duration) *HttpLoadBalancer {
	return &HttpLoadBalancer{
		logger:     logger,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ fsd.LoadBalancer = (*HttpLoadBalancer)(nil)

func (b *HttpLoadBalancer) Resolve(ctx context.Context, host string) string {
	if b.url == "" || net.ParseIP(host) != nil {
		return host
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, http.NoBody)
	if err != nil {
		b.logger.WarnF("[LoadBalancer] Failed to create request, %v", err)
		return host
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.WarnF("[LoadBalancer] Request failed, fallback to %s, %v", host, err)
		return host
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		b.logger.WarnF("[LoadBalancer] Unexpected status %s, fallback to %s", resp.Status, host)
		return host
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return host
	}
	ip := net.ParseIP(strings.TrimSpace(string(data)))
	if ip == nil {
		b.logger.WarnF("[LoadBalancer] Response is not an ip address, fallback to %s", host)
		return host
	}
	b.logger.InfoF("[LoadBalancer] %s resolved to %s", host, ip.String())
	return ip.String()
}

// StaticLoadBalancer 不做解析, 直接返回主机名
type StaticLoadBalancer struct{}

func (StaticLoadBalancer) Resolve(_ context.Context, host string) string { return host }

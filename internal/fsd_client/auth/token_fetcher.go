package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"io"
	"net/http"
	"time"
)

var (
	ErrTokenUrlEmpty = errors.New("auth token url is empty")
	ErrTokenRejected = errors.New("auth token endpoint rejected the credentials")
)

const maxResponseSize = 64 * 1024

type tokenRequest struct {
	Cid      string `json:"cid"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	ErrorMsg string `json:"error_msg"`
}

// HttpTokenFetcher 向认证接口POST凭据并取回登录令牌
type HttpTokenFetcher struct {
	url        string
	httpClient *http.Client
}

func NewHttpTokenFetcher(url string, timeout time.Duration) *HttpTokenFetcher {
	return &HttpTokenFetcher{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ fsd.TokenFetcher = (*HttpTokenFetcher)(nil)

func (f *HttpTokenFetcher) FetchToken(ctx context.Context, cid string, password string) (string, error) {
	if f.url == "" {
		return "", ErrTokenUrlEmpty
	}
	body, err := json.Marshal(&tokenRequest{Cid: cid, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	result := &tokenResponse{}
	if err := json.Unmarshal(data, result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: http status %s", ErrTokenRejected, resp.Status)
		}
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if !result.Success {
		if result.ErrorMsg == "" {
			result.ErrorMsg = resp.Status
		}
		return "", fmt.Errorf("%w: %s", ErrTokenRejected, result.ErrorMsg)
	}
	return result.Token, nil
}

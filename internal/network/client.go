// Package network は、クローラのHTTP通信に関する機能を提供します。
// Cookie Jarによるセッション管理とホストごとの送信間隔制御をカプセル化した、
// 単発（リトライなし）のGETクライアントを実装しています。
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"Point83GIFs/internal/config"

	"golang.org/x/time/rate"
)

// HTTPError は、2xx 以外のレスポンスを表します。
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Client は、Cookie Jarを内包し、HTTPセッションを管理するクライアントです。
// phpBB はセッションIDをCookieで引き回すため、Jarを保持します。
type Client struct {
	httpClient        *http.Client
	userAgent         string
	defaultHeaders    map[string]string
	interval          time.Duration
	rateLimiters      map[string]*rate.Limiter // ホスト名ごとのレートリミッター
	rateLimitersMutex sync.Mutex
}

// NewClient は NetworkSettings に基づいて HTTP クライアントを初期化します。
func NewClient(settings config.NetworkSettings) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jarの作成に失敗しました: %w", err)
	}

	// 0 以下ならタイムアウトを設定せず、トランスポートの既定に任せる
	var timeout time.Duration
	if settings.RequestTimeoutMillis > 0 {
		timeout = time.Duration(settings.RequestTimeoutMillis) * time.Millisecond
	}

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		userAgent:      settings.UserAgent,
		defaultHeaders: settings.DefaultHeaders,
		interval:       time.Duration(settings.RequestIntervalMillis) * time.Millisecond,
		rateLimiters:   make(map[string]*rate.Limiter),
	}, nil
}

// Get は、指定されたURLにGETリクエストを一度だけ送信し、レスポンスボディを返します。
// ネットワークエラーと2xx以外のステータスはエラーになります。
func (c *Client) Get(ctx context.Context, reqURL string) ([]byte, error) {
	parsedURL, err := url.Parse(reqURL)
	if err != nil {
		return nil, fmt.Errorf("リクエストURLの解析に失敗しました (%s): %w", reqURL, err)
	}

	limiter := c.getLimiterForHost(parsedURL.Hostname())
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("レートリミッター待機中にエラーが発生しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエストの作成に失敗しました (%s): %w", reqURL, err)
	}

	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GETリクエストの送信に失敗しました (%s): %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        reqURL,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました (%s): %w", reqURL, err)
	}
	return body, nil
}

// getLimiterForHost は、指定されたホスト名に対応するレートリミッターを返します。
// 存在しない場合は新しく生成します。間隔が 0 の場合は無制限です。
func (c *Client) getLimiterForHost(host string) *rate.Limiter {
	c.rateLimitersMutex.Lock()
	defer c.rateLimitersMutex.Unlock()

	if limiter, exists := c.rateLimiters[host]; exists {
		return limiter
	}

	limit := rate.Inf
	if c.interval > 0 {
		limit = rate.Every(c.interval)
	}
	newLimiter := rate.NewLimiter(limit, 1)
	c.rateLimiters[host] = newLimiter
	return newLimiter
}

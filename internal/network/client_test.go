package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Point83GIFs/internal/config"
)

func TestClient_GetSendsHeadersAndCookies(t *testing.T) {
	// 1. Arrange (準備) - ダミーサーバーの構築
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("サーバー: User-Agentが期待値と異なります: %s", ua)
		}
		if v := r.Header.Get("X-Test"); v != "yes" {
			t.Errorf("サーバー: デフォルトヘッダーが送信されていません: %s", v)
		}
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "phpbb_sid", Value: "abc", Path: "/"})
			w.Write([]byte("ok"))
		case "/page":
			// 2回目のリクエストでは Jar に保存された Cookie が送られる
			c, err := r.Cookie("phpbb_sid")
			if err != nil || c.Value != "abc" {
				t.Errorf("サーバー: セッションCookieが送信されていません")
			}
			w.Write([]byte("Success"))
		}
	}))
	defer server.Close()

	client, err := NewClient(config.NetworkSettings{
		UserAgent:      "test-agent",
		DefaultHeaders: map[string]string{"X-Test": "yes"},
	})
	if err != nil {
		t.Fatalf("NewClientの作成に失敗しました: %v", err)
	}

	// 2. Act (実行)
	if _, err := client.Get(context.Background(), server.URL+"/login"); err != nil {
		t.Fatalf("client.Getで予期せぬエラーが発生しました: %v", err)
	}
	body, err := client.Get(context.Background(), server.URL+"/page")

	// 3. Assert (検証)
	if err != nil {
		t.Fatalf("client.Getで予期せぬエラーが発生しました: %v", err)
	}
	if string(body) != "Success" {
		t.Errorf("レスポンスボディが期待値と異なります。期待値: 'Success', 実際値: '%s'", body)
	}
}

func TestClient_GetNon2xxIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client, err := NewClient(config.NetworkSettings{})
	if err != nil {
		t.Fatalf("NewClientの作成に失敗しました: %v", err)
	}

	_, err = client.Get(context.Background(), server.URL+"/missing.gif")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("HTTPErrorが期待されましたが、実際は: %v", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("ステータスコードが期待値と異なります: %d", httpErr.StatusCode)
	}
}

func TestClient_GetHonoursCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	client, err := NewClient(config.NetworkSettings{RequestIntervalMillis: int(time.Hour / time.Millisecond)})
	if err != nil {
		t.Fatalf("NewClientの作成に失敗しました: %v", err)
	}
	// 1回目はバーストで通過し、2回目はリミッターで待たされる
	if _, err := client.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("1回目のGetで予期せぬエラー: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Fatal("キャンセル済みコンテキストでエラーが期待されました")
	}
}

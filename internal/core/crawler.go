package core

import (
	"context"
	"fmt"
	"net/url"

	"Point83GIFs/internal/adapter"
)

// Fetcher は、URLを一度だけGETして本文を返します。
// ネットワークエラーと2xx以外はエラーです。
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Crawler は三段のクロールが共有する依存関係をまとめたものです。
type Crawler struct {
	fetcher    Fetcher
	parser     adapter.PageParser
	state      *RunState
	sink       *DownloadSink
	base       *url.URL
	maxPerPage int
	ext        string
	label      string // ログ上の呼び名 (例: "GIFs")
}

// NewCrawler は、フォーラムのベースURLとページ単位の上限から Crawler を生成します。
func NewCrawler(fetcher Fetcher, parser adapter.PageParser, state *RunState, sink *DownloadSink,
	baseURL string, maxPerPage int, ext string) (*Crawler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ベースURLの解析に失敗しました (url=%s): %w", baseURL, err)
	}
	return &Crawler{
		fetcher:    fetcher,
		parser:     parser,
		state:      state,
		sink:       sink,
		base:       base,
		maxPerPage: maxPerPage,
		ext:        ext,
		label:      mediaNoun(ext) + "s",
	}, nil
}

// resolve は、リンクをフォーラムのベースURLに対して解決します。
func (c *Crawler) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("リンクの解析に失敗しました (href=%s): %w", href, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// advance は「Next」リンクの有無に応じて次ページを取得し、遷移結果を返します。
func (c *Crawler) advance(ctx context.Context, href string, found bool) Transition {
	if !found {
		return Transition{Kind: NoNext}
	}
	next, err := c.resolve(href)
	if err != nil {
		return Transition{Kind: NextFailed, URL: href, Err: err}
	}
	c.state.Log.Debugf("following Next: %s", next)
	body, err := c.fetcher.Get(ctx, next)
	if err != nil {
		return Transition{Kind: NextFailed, URL: next, Err: err}
	}
	return Transition{Kind: HasNext, URL: next, Body: body}
}

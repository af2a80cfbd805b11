package adapter

import (
	"errors"
	"strings"

	"Point83GIFs/internal/model"

	"github.com/PuerkitoBio/goquery"
)

const (
	// threadViewMarker は、スレッド表示リンクを識別する文字列です。
	threadViewMarker = "viewtopic.php?t"
	// threadEntrySelector は、一覧ページでスレッドタイトルを囲む要素です。
	threadEntrySelector = "span.blacklink"
	nextLinkText        = "Next"
)

// PhpBBAdapter は、point83.com の phpBB 一覧・スレッドページ向けの解析ロジックを実装します。
type PhpBBAdapter struct{}

// NewPhpBBAdapter は、PhpBBAdapterの新しいインスタンスを返します。
func NewPhpBBAdapter() PageParser {
	return &PhpBBAdapter{}
}

// ParsePage は、HTMLをUTF-8の文書に変換します。
func (a *PhpBBAdapter) ParsePage(htmlBody []byte) (*goquery.Document, error) {
	return NewDocumentFromBytes(htmlBody)
}

// ThreadLinks は、一覧ページのスレッドリンクとタイトルを抽出します。
// リンクはマーカーから最初の '&' の直前までに切り詰めます（セッションIDなどを除去）。
// マーカーの後に '&' がないエントリは ThreadLinkError としてまとめて返します。
func (a *PhpBBAdapter) ThreadLinks(doc *goquery.Document) ([]model.ThreadLink, error) {
	var (
		links []model.ThreadLink
		errs  []error
	)

	doc.Find(threadEntrySelector).Each(func(_ int, s *goquery.Selection) {
		anchor := s.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			return strings.Contains(href, threadViewMarker)
		}).First()
		if anchor.Length() == 0 {
			return
		}

		href, _ := anchor.Attr("href")
		title := s.Text()

		fragment, ok := threadFragment(href)
		if !ok {
			errs = append(errs, &ThreadLinkError{Href: href, Title: title})
			return
		}
		links = append(links, model.ThreadLink{Fragment: fragment, Title: title})
	})

	return links, errors.Join(errs...)
}

// threadFragment は href からマーカー以降、最初の '&' までを切り出します。
func threadFragment(href string) (string, bool) {
	start := strings.Index(href, threadViewMarker)
	if start < 0 {
		return "", false
	}
	rest := href[start:]
	end := strings.IndexByte(rest, '&')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// NextLink は、表示テキストがちょうど "Next" であるリンクの href を返します。
func (a *PhpBBAdapter) NextLink(doc *goquery.Document) (string, bool) {
	next := doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Text() == nextLinkText
	}).First()
	if next.Length() == 0 {
		return "", false
	}
	return next.Attr("href")
}

// ImageSources は、src が ext で終わり、かつ http で始まる絶対URLの img を文書順に返します。
// 相対パスや壊れたソースは対象外です。
func (a *PhpBBAdapter) ImageSources(doc *goquery.Document, ext string) []string {
	var sources []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !strings.HasSuffix(src, ext) {
			return
		}
		if !strings.HasPrefix(src, "http") {
			return
		}
		sources = append(sources, src)
	})
	return sources
}

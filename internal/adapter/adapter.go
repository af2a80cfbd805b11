// Package adapter は、フォーラムソフトウェア固有のHTML解析を抽象化するインターフェースと、
// その具体的な実装を提供します。クローラ本体はリンク規約やセレクタを知りません。
package adapter

import (
	"bytes"
	"fmt"
	"io"

	"Point83GIFs/internal/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// PageParser は、サイト固有の解析処理を抽象化するインターフェースです。
type PageParser interface {
	// ParsePage は、生のHTMLをUTF-8に変換して文書を構築します。
	ParsePage(htmlBody []byte) (*goquery.Document, error)
	// ThreadLinks は、フォーラム一覧ページのスレッドリンクを文書順に返します。
	// 不正なエントリはスキップされ、errors.Join でまとめたエラーとして返されます。
	ThreadLinks(doc *goquery.Document) ([]model.ThreadLink, error)
	// NextLink は「Next」リンクの href を返します。
	NextLink(doc *goquery.Document) (string, bool)
	// ImageSources は、指定拡張子で終わる絶対URLの画像ソースを文書順に返します。
	ImageSources(doc *goquery.Document, ext string) []string
}

// ThreadLinkError は、スレッドリンクが想定した形式でない場合のエラーです。
type ThreadLinkError struct {
	Href  string
	Title string
}

func (e *ThreadLinkError) Error() string {
	return fmt.Sprintf("スレッドリンクの形式が不正です: マーカーの後に '&' がありません (href=%s, title=%s)", e.Href, e.Title)
}

// NewDocumentFromBytes は、[]byteからgoquery.Documentを生成するヘルパー関数です。
// meta タグや内容から文字コードを推定し、UTF-8 に変換してから解析します。
func NewDocumentFromBytes(htmlBody []byte) (*goquery.Document, error) {
	enc, name, _ := charset.DetermineEncoding(htmlBody, "")
	var r io.Reader = bytes.NewReader(htmlBody)
	if name != "utf-8" {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	return goquery.NewDocumentFromReader(r)
}

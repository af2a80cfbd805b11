package core

import (
	"context"
	"strconv"

	"Point83GIFs/internal/model"
)

// ThreadCrawler は、一つのスレッドの全ページを「Next」をたどって処理します。
type ThreadCrawler struct {
	*Crawler
	link      model.ThreadLink
	logTitle  string
	fileTitle string
	pageNum   int // 0 は「まだ複数ページと判明していない」
}

// NewThreadCrawler は、スレッドリンクとタイトルから ThreadCrawler を生成します。
func NewThreadCrawler(c *Crawler, link model.ThreadLink) *ThreadCrawler {
	return &ThreadCrawler{
		Crawler:   c,
		link:      link,
		logTitle:  LogSafeTitle(link.Title),
		fileTitle: FileSafeTitle(link.Title),
	}
}

// Run は、スレッドを最後のページまで処理し、処理したページ数を返します。
// ページの取得に失敗した場合はこのスレッドだけを打ち切ります。
func (t *ThreadCrawler) Run(ctx context.Context) int {
	pageURL, err := t.resolve(t.link.Fragment)
	if err != nil {
		t.abandon(t.link.Fragment, err)
		return 0
	}
	body, err := t.fetcher.Get(ctx, pageURL)
	if err != nil {
		t.abandon(pageURL, err)
		return 0
	}

	pages := 0
	for {
		doc, err := t.parser.ParsePage(body)
		if err != nil {
			t.state.Log.Errorf("page of thread \"%s\"\n(%s) could not be parsed: %v", t.logTitle, pageURL, err)
			t.state.Log.Println("Moving to next thread.\n")
			return pages
		}

		nextHref, hasNext := t.parser.NextLink(doc)
		prefix := t.pagePrefix(hasNext)

		NewPageProcessor(t.Crawler, prefix).Process(ctx, doc)
		t.state.TotalThreadPagesScraped++
		pages++

		tr := t.advance(ctx, nextHref, hasNext)
		switch tr.Kind {
		case NoNext:
			return pages
		case NextFailed:
			t.abandon(tr.URL, tr.Err)
			return pages
		}
		pageURL, body = tr.URL, tr.Body
	}
}

// pagePrefix は、現在のページの保存名接頭辞を決め、見出しをログに出します。
// 最終ページでも、既にページを処理していれば複数ページのスレッドとして扱います。
func (t *ThreadCrawler) pagePrefix(hasNext bool) string {
	log := t.state.Log
	if hasNext || t.pageNum > 0 {
		t.pageNum++
		log.Printf("Searching for %s in \"%s\" PAGE %d .......", t.label, t.logTitle, t.pageNum)
		return t.fileTitle + "_PG" + strconv.Itoa(t.pageNum)
	}
	log.Printf("Searching for %s in \"%s\" .......", t.label, t.logTitle)
	return t.fileTitle
}

func (t *ThreadCrawler) abandon(pageURL string, err error) {
	log := t.state.Log
	log.Errorf("URL for thread \"%s\"\n(%s) could not be located: %v", t.logTitle, pageURL, err)
	log.Println("Moving to next thread.\n")
}

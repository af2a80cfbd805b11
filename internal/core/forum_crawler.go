package core

import (
	"context"
)

// ForumCrawler は、フォーラム一覧ページを「Next」をたどって処理します。
type ForumCrawler struct {
	*Crawler
	maxPages int
}

// NewForumCrawler は、最大 maxPages ページを処理する ForumCrawler を返します。
func NewForumCrawler(c *Crawler, maxPages int) *ForumCrawler {
	return &ForumCrawler{Crawler: c, maxPages: maxPages}
}

// Run は、取得済みの最初の一覧ページ body から処理を始め、処理した一覧ページ数を返します。
// 各スレッドは文書順に一つずつ最後まで処理します。
// 一覧ページの取得に失敗した場合はクロール全体を終了します。
func (f *ForumCrawler) Run(ctx context.Context, body []byte) int {
	log := f.state.Log
	pages := 0

	for {
		doc, err := f.parser.ParsePage(body)
		if err != nil {
			log.Errorf("forum page %d could not be parsed: %v", f.state.ForumPageNumber, err)
			return pages
		}

		log.Printf("------------------------\nFORUM PAGE %d", f.state.ForumPageNumber)
		log.Println("------------------------\n")

		links, err := f.parser.ThreadLinks(doc)
		if err != nil {
			log.Warnf("skipped malformed thread entries on forum page %d:\n%v", f.state.ForumPageNumber, err)
		}

		for _, link := range links {
			if ctx.Err() != nil {
				log.Println("Interrupted; skipping remaining threads.")
				return pages
			}
			NewThreadCrawler(f.Crawler, link).Run(ctx)
		}
		pages++

		// 上限に達したら次ページは取得しない
		if pages >= f.maxPages {
			return pages
		}

		nextHref, found := f.parser.NextLink(doc)
		tr := f.advance(ctx, nextHref, found)
		switch tr.Kind {
		case NoNext:
			return pages
		case NextFailed:
			log.Errorf("URL for forum page number %d (%s) could not be located: %v", f.state.ForumPageNumber+1, tr.URL, tr.Err)
			log.Println("Exiting process.\n")
			return pages
		}
		body = tr.Body
		f.state.ForumPageNumber++
	}
}

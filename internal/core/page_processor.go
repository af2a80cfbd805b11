package core

import (
	"bytes"
	"context"

	"Point83GIFs/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// PageProcessor は、スレッドの1ページ分の画像をダウンロードします。
type PageProcessor struct {
	*Crawler
	prefix     string
	downloaded int
	failed     map[string]bool // このページで既にログ出力した取得失敗ソース
}

// NewPageProcessor は、保存名の接頭辞 prefix を使う PageProcessor を返します。
func NewPageProcessor(c *Crawler, prefix string) *PageProcessor {
	return &PageProcessor{
		Crawler: c,
		prefix:  prefix,
		failed:  make(map[string]bool),
	}
}

// Process は、ページ上の候補画像を文書順に処理し、新たに保存した件数を返します。
// ページごとの上限に達した時点で残りの候補は取得しません。
func (p *PageProcessor) Process(ctx context.Context, doc *goquery.Document) int {
	for _, src := range p.parser.ImageSources(doc, p.ext) {
		if p.handle(ctx, src) == ImageOverCap {
			break
		}
	}
	p.state.Log.Printf("\t%d %s downloaded\n", p.downloaded, p.label)
	return p.downloaded
}

func (p *PageProcessor) handle(ctx context.Context, src string) ImageOutcome {
	log := p.state.Log

	// 重複と上限は取得前に判定する
	img := model.NewCandidateImage(src)
	if p.state.HasOriginPath(img.NormalizedPath) {
		log.Debugf("\tskipping %s already saved in this run", img.NormalizedPath)
		return ImageDuplicate
	}

	if p.downloaded >= p.maxPerPage {
		log.Printf("\tMaximum (%d) %s already downloaded for this page; moving to next page or thread...", p.maxPerPage, p.label)
		return ImageOverCap
	}

	body, err := p.fetcher.Get(ctx, src)
	if err != nil {
		if !p.failed[src] {
			log.Errorf("%s had a problem downloading! (%v)", src, err)
			p.failed[src] = true
		}
		return ImageFetchFailed
	}

	if !p.sink.Save(p.prefix, img.OriginFileName(), bytes.NewReader(body)) {
		return ImageSaveFailed
	}

	p.state.RecordDownload(img.NormalizedPath)
	p.downloaded++
	return ImageAccepted
}

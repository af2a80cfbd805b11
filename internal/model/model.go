package model

import (
	"path"
	"strings"
)

// ThreadLink は、フォーラム一覧ページから抽出されたスレッドへのリンクを保持します。
type ThreadLink struct {
	Fragment string // viewtopic.php?t=123 (最初の '&' より前)
	Title    string // 一覧上の生のタイトル
}

// CandidateImage は、スレッドページ上で見つかったダウンロード候補の画像です。
type CandidateImage struct {
	SourceURL      string
	NormalizedPath string // プロトコルを除いたパス。重複判定キー
}

// NewCandidateImage は、画像URLから CandidateImage を生成します。
func NewCandidateImage(src string) CandidateImage {
	return CandidateImage{
		SourceURL:      src,
		NormalizedPath: NormalizeOriginPath(src),
	}
}

// NormalizeOriginPath は、先頭の http:// または https:// を取り除きます。
func NormalizeOriginPath(src string) string {
	if p, ok := strings.CutPrefix(src, "http://"); ok {
		return p
	}
	return strings.TrimPrefix(src, "https://")
}

// OriginFileName は、正規化パスの末尾要素（クエリを除く）を返します。
func (c CandidateImage) OriginFileName() string {
	p := c.NormalizedPath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return p
	}
	return base
}

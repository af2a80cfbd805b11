// Package core は、フォーラム一覧→スレッド→スレッドページの三段のクロールと、
// それが駆動する重複排除付きダウンロード処理を実装します。
package core

import "fmt"

// TransitionKind はページ遷移の結果の種類を表すenumです。
type TransitionKind int

const (
	NoNext     TransitionKind = iota // 「Next」リンクなし
	HasNext                          // 次ページあり
	NextFailed                       // 次ページの取得に失敗
)

// String は TransitionKind を人間可読な文字列に変換します。
func (k TransitionKind) String() string {
	switch k {
	case NoNext:
		return "NoNext"
	case HasNext:
		return "HasNext"
	case NextFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Transition は「次ページへ進む」操作の結果です。
// HasNext のとき URL と Body が、NextFailed のとき URL と Err が設定されます。
type Transition struct {
	Kind TransitionKind
	URL  string
	Body []byte
	Err  error
}

func (t Transition) String() string {
	switch t.Kind {
	case HasNext:
		return fmt.Sprintf("HasNext(%s)", t.URL)
	case NextFailed:
		return fmt.Sprintf("Failed(%s: %v)", t.URL, t.Err)
	default:
		return t.Kind.String()
	}
}

// ImageOutcome は候補画像一件の分類結果です。
type ImageOutcome int

const (
	ImageAccepted ImageOutcome = iota
	ImageDuplicate
	ImageOverCap
	ImageFetchFailed
	ImageSaveFailed
)

func (o ImageOutcome) String() string {
	switch o {
	case ImageAccepted:
		return "accepted"
	case ImageDuplicate:
		return "duplicate"
	case ImageOverCap:
		return "over-cap"
	case ImageFetchFailed:
		return "fetch-failed"
	case ImageSaveFailed:
		return "save-failed"
	default:
		return "unknown"
	}
}

package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"Point83GIFs/internal/runlog"
)

// RunState は一回の実行全体で共有されるカウンタと蓄積値です。
// クロールは単一のゴルーチンで進むため、ロックは持ちません。
// 並列化する場合は savedOriginPaths の確認と追加を一つの排他区間にする必要があります。
type RunState struct {
	StartTime               time.Time
	ForumPageNumber         int // 現在のフォーラム一覧ページ番号
	TotalDownloaded         int
	TotalThreadPagesScraped int
	SavedFileNames          []string

	savedOriginPaths map[string]struct{}
	noun             string // ログ上の画像の呼び名 (例: "GIF")

	Log *runlog.Logger
}

// NewRunState は、開始ページ番号、対象拡張子、ロガーから RunState を生成します。
func NewRunState(start time.Time, startPage int, ext string, log *runlog.Logger) *RunState {
	return &RunState{
		StartTime:        start,
		ForumPageNumber:  startPage,
		savedOriginPaths: make(map[string]struct{}),
		noun:             mediaNoun(ext),
		Log:              log,
	}
}

// mediaNoun は拡張子からログ上の呼び名を返します (".gif" → "GIF")。
func mediaNoun(ext string) string {
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// HasOriginPath は、正規化済みパスが既に保存済みかを返します。
func (s *RunState) HasOriginPath(p string) bool {
	_, ok := s.savedOriginPaths[p]
	return ok
}

// RecordDownload は、保存に成功した画像を記録します。
func (s *RunState) RecordDownload(originPath string) {
	s.savedOriginPaths[originPath] = struct{}{}
	s.TotalDownloaded++
}

// SavedOriginPaths は、保存済みの正規化パスをソートして返します。
func (s *RunState) SavedOriginPaths() []string {
	paths := make([]string, 0, len(s.savedOriginPaths))
	for p := range s.savedOriginPaths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteSummary は、保存した画像と統計をログとコンソールに出力します。
func (s *RunState) WriteSummary(now time.Time) {
	log := s.Log
	paths := s.SavedOriginPaths()

	log.Println("---------------------------------")
	log.Printf(`All %s origin "paths" (sorted): `, s.noun)
	log.Println("---------------------------------")
	for _, p := range paths {
		log.Println(p)
	}

	names := append([]string(nil), s.SavedFileNames...)
	sort.Strings(names)

	log.Println("\n--------------------------")
	log.Println("All files saved (sorted): ")
	log.Println("--------------------------")
	for _, n := range names {
		log.Println(n)
	}

	log.Printf("\nTotal %s origin paths recorded.....%d", s.noun, len(paths))
	log.Printf("Total %ss downloaded.....%d", s.noun, s.TotalDownloaded)
	log.Printf("Total thread-pages scraped.....%d", s.TotalThreadPagesScraped)
	log.Printf("\nTotal time for script to run, in H:M:S.....%s", formatElapsed(now.Sub(s.StartTime)))
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	sec := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%d:%02d:%09.6f", h, m, sec)
}

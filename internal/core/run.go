package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"Point83GIFs/internal/adapter"
	"Point83GIFs/internal/config"
	"Point83GIFs/internal/runlog"
)

// SetupError は、クロール開始前の致命的なエラーです。
// この場合はサマリーを出力せずに終了します。
type SetupError struct {
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// RunDirName は、開始時刻から実行ディレクトリ名を生成します。
func RunDirName(prefix string, start time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, start.Format("20060102_1504"))
}

// Run は、一回の実行の全ライフサイクルを管理します。
// 最初の一覧ページの取得と実行ディレクトリの作成に失敗した場合は SetupError を返します。
// それ以外の失敗はログに記録して処理を続け、最後にサマリーを出力します。
func Run(ctx context.Context, rc config.RunConfig, fetcher Fetcher, parser adapter.PageParser, console io.Writer) (*RunState, error) {
	start := time.Now()
	dirName := RunDirName(rc.DirectoryPrefix, start)
	dir := filepath.Join(rc.OutputRoot, dirName)

	startURL := rc.StartURL()
	body, err := fetcher.Get(ctx, startURL)
	if err != nil {
		return nil, &SetupError{Reason: fmt.Sprintf("URL \"%s\" could not be located", startURL), Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &SetupError{Reason: fmt.Sprintf("folder \"%s\" could not be created", dir), Err: err}
	}

	logger, err := runlog.New(filepath.Join(dir, dirName+".txt"), console, rc.LogLevel)
	if err != nil {
		return nil, &SetupError{Reason: "logger could not be initialised", Err: err}
	}

	state := NewRunState(start, rc.StartPage, rc.ImageExtension, logger)
	sink := NewDownloadSink(dir, state)
	crawler, err := NewCrawler(fetcher, parser, state, sink, rc.BaseURL, rc.MaxImagesPerPage, rc.ImageExtension)
	if err != nil {
		return nil, &SetupError{Reason: "crawler could not be initialised", Err: err}
	}

	logger.Printf("Forum: %s (%s)", rc.Forum.Name, startURL)
	NewForumCrawler(crawler, rc.MaxForumPages).Run(ctx, body)

	state.WriteSummary(time.Now())
	return state, nil
}

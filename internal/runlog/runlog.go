// Package runlog は、実行ごとのログファイルとコンソールの両方へ同じ行を出力するロガーを提供します。
//
// 出力はメッセージ本文のみのプレーンテキストで、1メッセージ1行です。
// タイムスタンプ・レベル・構造化フィールドは出力しません。
// ログファイルは書き込みのたびに追記モードで開いて閉じるため、
// プロセスが異常終了しても失われるのは最後の1行だけです。
package runlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger は zerolog をラップした行単位のロガーです。
type Logger struct {
	zl zerolog.Logger
}

// New は、path に追記しつつ console にも出力する Logger を返します。
// path が空の場合はコンソールのみに出力します。
func New(path string, console io.Writer, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if console == nil {
		console = os.Stdout
	}

	var out io.Writer = console
	if path != "" {
		out = &mirrorWriter{path: path, console: console}
	}

	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}

	return &Logger{zl: zerolog.New(cw).Level(lvl)}, nil
}

// NewConsole は、実行ディレクトリ作成前などに使うコンソール専用の Logger を返します。
func NewConsole(console io.Writer) *Logger {
	l, _ := New("", console, "info")
	return l
}

// ParseLevel は、設定値の文字列を zerolog.Level に変換します。
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("不明なログレベルです: %s", level)
	}
}

// Printf は通常の進捗メッセージを出力します。
func (l *Logger) Printf(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Println は引数をそのまま1行として出力します。
func (l *Logger) Println(msg string) {
	l.zl.Info().Msg(msg)
}

// Debugf は詳細メッセージを出力します。
func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// Warnf は "WARNING: " を前置して出力します。
func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf("WARNING: "+format, args...)
}

// Errorf は "ERROR:  " を前置して出力します。
func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf("ERROR:  "+format, args...)
}

// mirrorWriter は、1行をログファイルへ追記してからコンソールへ出力します。
type mirrorWriter struct {
	path    string
	console io.Writer
}

func (w *mirrorWriter) Write(p []byte) (int, error) {
	if err := appendFile(w.path, p); err != nil {
		// ファイルに書けなくてもメッセージはコンソールに出す
		fmt.Fprintf(w.console, "(LOG WRITE FAILED: %v)\n", err)
	}
	if _, err := w.console.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func appendFile(path string, p []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

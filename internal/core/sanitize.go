package core

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
)

const (
	// MaxFileNameLength を超える保存名は切り詰められます。
	MaxFileNameLength = 130
	// truncateAt は切り詰め時に残す先頭の文字数です。
	truncateAt = 120
	// TruncationMarker は切り詰めた保存名の末尾に付ける目印です。
	// 元の拡張子に関わらず .gif 固定です（.gif 以外を対象にする場合は要見直し）。
	TruncationMarker = "_(...).gif"
)

var unsafeFileChars = regexp.MustCompile(`[^0-9a-zA-Z._]`)

var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII }))

// LogSafeTitle は、非ASCII文字を除去して前後の空白を削ったタイトルを返します。
func LogSafeTitle(title string) string {
	return strings.TrimSpace(nonASCII.String(title))
}

// FileSafeTitle は、英数字・'.'・'_' 以外を除去したタイトルを返します。
func FileSafeTitle(title string) string {
	return strings.TrimSpace(unsafeFileChars.ReplaceAllString(title, ""))
}

// BuildFileName は、接頭辞と元ファイル名から保存名を組み立てます。
// 英数字・'.'・'_' 以外は '-' に置き換え、長すぎる場合は TruncationMarker で切り詰めます。
func BuildFileName(prefix, rawName string) string {
	name := prefix + "__" + unsafeFileChars.ReplaceAllString(rawName, "-")
	if len(name) > MaxFileNameLength {
		name = name[:truncateAt] + TruncationMarker
	}
	return name
}

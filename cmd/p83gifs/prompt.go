package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Point83GIFs/internal/config"
)

// errInputClosed は、回答を得る前に入力が終わったことを表します。
var errInputClosed = errors.New("input closed before a selection was made")

// Prompter は、実行前の対話入力を扱います。
// 不正な入力には ERROR 行を出して同じ質問を繰り返します。
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter は、in から読み out へ質問を書く Prompter を返します。
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Banner は起動時の見出しを表示します。
func (p *Prompter) Banner() {
	fmt.Fprintln(p.out, "************************")
	fmt.Fprintln(p.out, "***** Point83 GIFs *****")
	fmt.Fprintln(p.out, "************************")
}

// Forum は対象フォーラムを選ばせ、そのキーを返します。
func (p *Prompter) Forum(cfg *config.Config) (string, error) {
	keys := make([]string, 0, len(cfg.Forums))
	for _, f := range cfg.Forums {
		keys = append(keys, f.Key)
	}

	for {
		fmt.Fprintln(p.out, "\nSelect which forum to search for GIFs in:")
		for _, f := range cfg.Forums {
			fmt.Fprintf(p.out, "%-37senter a \"%s\".\n", f.Name+":", f.Key)
		}
		fmt.Fprintf(p.out, "Enter %s:\n", joinChoices(keys))

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		for _, k := range keys {
			if answer == k {
				return k, nil
			}
		}
		fmt.Fprintln(p.out, "ERROR:  Invalid entry.")
	}
}

// TotalPages は処理する一覧ページ数を尋ねます。空入力は全ページです。
func (p *Prompter) TotalPages() (int, error) {
	return p.askInt([]string{
		"\nHow many pages of the given forum do you want to process?",
		"Hit [Enter] for the default (all pages).",
	}, config.UnlimitedPages)
}

// StartPage は開始ページを尋ねます。空入力は1ページ目です。
func (p *Prompter) StartPage() (int, error) {
	return p.askInt([]string{
		"\nIf you want to start on an older page of this forum, enter its page number.",
		"Otherwise, hit [Enter] for the default, page 1.",
	}, 1)
}

func (p *Prompter) askInt(question []string, def int) (int, error) {
	for {
		for _, line := range question {
			fmt.Fprintln(p.out, line)
		}
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return def, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "ERROR:  Invalid; enter an integer.")
			continue
		}
		if n < 1 {
			fmt.Fprintln(p.out, "ERROR:  Invalid; enter a number of 1 or more.")
			continue
		}
		return n, nil
	}
}

// readLine は1行を読み、前後の空白を除いて返します。
// 最終行が改行なしで終わった場合もその内容を返します。
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// joinChoices は ["1","2","3"] を "1, 2, or 3" の形にします。
func joinChoices(keys []string) string {
	switch len(keys) {
	case 0:
		return ""
	case 1:
		return keys[0]
	case 2:
		return keys[0] + " or " + keys[1]
	}
	return strings.Join(keys[:len(keys)-1], ", ") + ", or " + keys[len(keys)-1]
}

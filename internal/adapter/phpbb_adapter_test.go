package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// --- Test for ThreadLinks ---

func TestPhpBBAdapter_ThreadLinks(t *testing.T) {
	// Arrange
	htmlContent, err := os.ReadFile(filepath.Join("testdata", "forum_index.html"))
	if err != nil {
		t.Fatalf("テスト用のHTMLファイルの読み込みに失敗しました: %v", err)
	}
	adapter := NewPhpBBAdapter()
	doc, err := adapter.ParsePage(htmlContent)
	if err != nil {
		t.Fatalf("ParsePageが失敗しました: %v", err)
	}

	// Act
	links, err := adapter.ThreadLinks(doc)

	// Assert
	want := []struct{ fragment, title string }{
		{"viewtopic.php?t=101", "Alleycat Saturday"},
		{"viewtopic.php?t=102", "Track bike & fixie GIFs"},
		{"viewtopic.php?t=105", "Café ride"},
	}
	if len(links) != len(want) {
		t.Fatalf("スレッド数が期待値と異なります。期待値: %d, 実際値: %d (%+v)", len(want), len(links), links)
	}
	for i, w := range want {
		if links[i].Fragment != w.fragment {
			t.Errorf("[%d] Fragmentが不正です。期待値: %s, 実際値: %s", i, w.fragment, links[i].Fragment)
		}
		if links[i].Title != w.title {
			t.Errorf("[%d] Titleが不正です。期待値: %s, 実際値: %s", i, w.title, links[i].Title)
		}
	}

	// '&' を含まないリンクはエラーとして報告される
	var linkErr *ThreadLinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("ThreadLinkErrorが期待されましたが、実際は: %v", err)
	}
	if linkErr.Href != "viewtopic.php?t=103" {
		t.Errorf("エラーのHrefが不正です: %s", linkErr.Href)
	}
}

func TestPhpBBAdapter_ThreadLinksNoMalformedEntries(t *testing.T) {
	adapter := NewPhpBBAdapter()
	doc, err := adapter.ParsePage([]byte(`<span class="blacklink"><a href="viewtopic.php?t=1&start=0">Test Thread</a></span>`))
	if err != nil {
		t.Fatalf("ParsePageが失敗しました: %v", err)
	}

	links, err := adapter.ThreadLinks(doc)
	if err != nil {
		t.Fatalf("エラーは期待されていません: %v", err)
	}
	if len(links) != 1 || links[0].Fragment != "viewtopic.php?t=1" || links[0].Title != "Test Thread" {
		t.Errorf("抽出結果が不正です: %+v", links)
	}
}

// --- Test for NextLink ---

func TestPhpBBAdapter_NextLink(t *testing.T) {
	adapter := NewPhpBBAdapter()

	htmlContent, err := os.ReadFile(filepath.Join("testdata", "forum_index.html"))
	if err != nil {
		t.Fatalf("テスト用のHTMLファイルの読み込みに失敗しました: %v", err)
	}
	doc, err := adapter.ParsePage(htmlContent)
	if err != nil {
		t.Fatalf("ParsePageが失敗しました: %v", err)
	}
	href, ok := adapter.NextLink(doc)
	if !ok {
		t.Fatal("Nextリンクが見つかりませんでした。")
	}
	if href != "viewforum.php?f=2&topicdays=0&start=30" {
		t.Errorf("Nextリンクのhrefが不正です: %s", href)
	}

	// テキストが正確に "Next" でなければ一致しない
	htmlContent, err = os.ReadFile(filepath.Join("testdata", "thread_page.html"))
	if err != nil {
		t.Fatalf("テスト用のHTMLファイルの読み込みに失敗しました: %v", err)
	}
	doc, err = adapter.ParsePage(htmlContent)
	if err != nil {
		t.Fatalf("ParsePageが失敗しました: %v", err)
	}
	if href, ok := adapter.NextLink(doc); ok {
		t.Errorf("空白付きの ' Next ' は一致すべきではありません: %s", href)
	}
}

// --- Test for ImageSources ---

func TestPhpBBAdapter_ImageSources(t *testing.T) {
	// Arrange
	htmlContent, err := os.ReadFile(filepath.Join("testdata", "thread_page.html"))
	if err != nil {
		t.Fatalf("テスト用のHTMLファイルの読み込みに失敗しました: %v", err)
	}
	adapter := NewPhpBBAdapter()
	doc, err := adapter.ParsePage(htmlContent)
	if err != nil {
		t.Fatalf("ParsePageが失敗しました: %v", err)
	}

	// Act
	sources := adapter.ImageSources(doc, ".gif")

	// Assert
	want := []string{
		"http://cdn.example.com/a.gif",
		"https://img.example.org/b.gif",
		"http://cdn.example.com/a.gif",
	}
	if len(sources) != len(want) {
		t.Fatalf("画像数が期待値と異なります。期待値: %d, 実際値: %d (%v)", len(want), len(sources), sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("[%d] 期待値: %s, 実際値: %s", i, want[i], sources[i])
		}
	}

	if jpgs := adapter.ImageSources(doc, ".jpg"); len(jpgs) != 1 {
		t.Errorf(".jpg の画像数が期待値と異なります: %v", jpgs)
	}
}

// --- Test for charset decoding ---

func TestNewDocumentFromBytes_Latin1(t *testing.T) {
	body := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><span class=\"blacklink\"><a href=\"viewtopic.php?t=9&amp;x=1\">Caf\xe9</a></span></body></html>")

	doc, err := NewDocumentFromBytes(body)
	if err != nil {
		t.Fatalf("NewDocumentFromBytesが失敗しました: %v", err)
	}
	if got := doc.Find("span.blacklink").Text(); got != "Café" {
		t.Errorf("文字コード変換結果が不正です: %q", got)
	}
}

func TestGetAdapter(t *testing.T) {
	if _, err := GetAdapter("phpbb"); err != nil {
		t.Errorf("phpbb アダプタの取得に失敗しました: %v", err)
	}
	if _, err := GetAdapter("futaba"); err == nil {
		t.Error("未登録のアダプタでエラーが期待されました")
	}
}

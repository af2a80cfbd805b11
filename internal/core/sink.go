package core

import (
	"io"
	"os"
	"path/filepath"
)

// DownloadSink は、取得した画像を実行ディレクトリへ保存します。
type DownloadSink struct {
	dir   string
	state *RunState
}

// NewDownloadSink は、dir に保存する DownloadSink を返します。
func NewDownloadSink(dir string, state *RunState) *DownloadSink {
	return &DownloadSink{dir: dir, state: state}
}

// Save は r の内容を prefix と rawName から組み立てた名前で保存します。
// 書き込み後のサイズが 0 バイトならファイルを削除して false を返します。
// I/O エラーはログに記録して false を返し、呼び出し側には伝播しません。
func (d *DownloadSink) Save(prefix, rawName string, r io.Reader) bool {
	log := d.state.Log
	name := BuildFileName(prefix, rawName)
	log.Printf("Downloading file: %s", name)

	dest := filepath.Join(d.dir, name)
	if err := writeFile(dest, r); err != nil {
		log.Errorf("%s had a problem saving: %v", name, err)
		return false
	}

	info, err := os.Stat(dest)
	if err != nil {
		log.Errorf("cannot determine size of '%s': %v", dest, err)
		return false
	}

	if info.Size() == 0 {
		// リンクは解決したが中身が空だった
		if err := os.Remove(dest); err != nil {
			log.Warnf("failed to remove zero-byte file '%s': %v", dest, err)
		}
		log.Errorf("%s downloaded as a 0 KB file. Deleting file.", d.state.noun)
		return false
	}

	d.state.SavedFileNames = append(d.state.SavedFileNames, name)
	return true
}

func writeFile(dest string, r io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

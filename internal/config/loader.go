package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// configPatch は、設定ファイルをデコードするための中間構造体です。
// nil でないフィールドだけが既定値を上書きします。
type configPatch struct {
	ConfigVersion    string        `json:"config_version" yaml:"config_version"`
	BaseURL          *string       `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	SiteAdapter      *string       `json:"site_adapter,omitempty" yaml:"site_adapter,omitempty"`
	Forums           *[]Forum      `json:"forums,omitempty" yaml:"forums,omitempty"`
	TopicsPerPage    *int          `json:"topics_per_page,omitempty" yaml:"topics_per_page,omitempty"`
	MaxImagesPerPage *int          `json:"max_images_per_page,omitempty" yaml:"max_images_per_page,omitempty"`
	ImageExtension   *string       `json:"image_extension,omitempty" yaml:"image_extension,omitempty"`
	OutputRoot       *string       `json:"output_root,omitempty" yaml:"output_root,omitempty"`
	DirectoryPrefix  *string       `json:"directory_prefix,omitempty" yaml:"directory_prefix,omitempty"`
	LogLevel         *string       `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Network          *networkPatch `json:"network,omitempty" yaml:"network,omitempty"`
}

type networkPatch struct {
	UserAgent             *string           `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	DefaultHeaders        map[string]string `json:"default_headers,omitempty" yaml:"default_headers,omitempty"`
	RequestTimeoutMillis  *int              `json:"request_timeout_ms,omitempty" yaml:"request_timeout_ms,omitempty"`
	RequestIntervalMillis *int              `json:"request_interval_ms,omitempty" yaml:"request_interval_ms,omitempty"`
}

// LoadAndResolve は、指定されたパスから設定ファイルを読み込み、既定値とマージします。
// 拡張子が .yaml / .yml の場合は YAML、それ以外は JSON として解析します。
func LoadAndResolve(path string) (*Config, error) {
	absPath, _ := filepath.Abs(path)
	cwd, _ := os.Getwd()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイル '%s' の読み込みに失敗しました (Abs: '%s', Cwd: '%s'): %w", path, absPath, cwd, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLAndResolve(data)
	default:
		return ParseAndResolve(data)
	}
}

// LoadOrDefault は、FindConfigFile で設定ファイルを探し、見つからなければ既定設定を返します。
func LoadOrDefault(name string) (*Config, error) {
	path := FindConfigFile(name)
	if path == "" {
		return Default(), nil
	}
	return LoadAndResolve(path)
}

// FindConfigFile は、name をカレントディレクトリから、次に XDG 設定ディレクトリ
// ($XDG_CONFIG_HOME/p83gifs/) から探します。見つからなければ空文字を返します。
func FindConfigFile(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	if filepath.IsAbs(name) {
		return ""
	}
	path, err := xdg.SearchConfigFile(filepath.Join(AppName, name))
	if err != nil {
		return ""
	}
	return path
}

// ParseAndResolve は、設定データのバイトスライスを解析し、既定値にマージして検証した設定を返します。
func ParseAndResolve(data []byte) (*Config, error) {
	var patch configPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		if errors.As(err, &syntaxErr) {
			line, col := computeLineAndColumn(data, syntaxErr.Offset)
			return nil, fmt.Errorf("設定ファイルのJSON構文エラー (行 %d, 列 %d): %w", line, col, err)
		}
		if errors.As(err, &typeErr) {
			line, col := computeLineAndColumn(data, typeErr.Offset)
			return nil, fmt.Errorf("設定ファイルの型エラー (行 %d, 列 %d, フィールド '%s'): 期待値 %v, 実際 %v - %w",
				line, col, typeErr.Field, typeErr.Type, typeErr.Value, err)
		}
		return nil, fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}

	return resolvePatch(&patch)
}

// ParseYAMLAndResolve は、YAML形式の設定データを ParseAndResolve と同じ規則で解析します。
func ParseYAMLAndResolve(data []byte) (*Config, error) {
	var patch configPatch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		// yaml.v3 のエラーは行番号を含む
		return nil, fmt.Errorf("設定ファイルのYAML解析に失敗しました: %w", err)
	}
	return resolvePatch(&patch)
}

func resolvePatch(patch *configPatch) (*Config, error) {
	if patch.ConfigVersion != CompatibleVersion {
		return nil, fmt.Errorf("サポートされていない設定バージョン '%s' です。'%s' が必要です。", patch.ConfigVersion, CompatibleVersion)
	}

	cfg := Default()
	applyPatch(cfg, patch)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyPatch は、patchの非nilフィールドをtargetに上書きします。
func applyPatch(target *Config, patch *configPatch) {
	if patch.BaseURL != nil {
		target.BaseURL = *patch.BaseURL
	}
	if patch.SiteAdapter != nil {
		target.SiteAdapter = *patch.SiteAdapter
	}
	if patch.Forums != nil {
		target.Forums = *patch.Forums
	}
	if patch.TopicsPerPage != nil {
		target.TopicsPerPage = *patch.TopicsPerPage
	}
	if patch.MaxImagesPerPage != nil {
		target.MaxImagesPerPage = *patch.MaxImagesPerPage
	}
	if patch.ImageExtension != nil {
		target.ImageExtension = *patch.ImageExtension
	}
	if patch.OutputRoot != nil {
		target.OutputRoot = *patch.OutputRoot
	}
	if patch.DirectoryPrefix != nil {
		target.DirectoryPrefix = *patch.DirectoryPrefix
	}
	if patch.LogLevel != nil {
		target.LogLevel = *patch.LogLevel
	}
	if n := patch.Network; n != nil {
		if n.UserAgent != nil {
			target.Network.UserAgent = *n.UserAgent
		}
		if n.DefaultHeaders != nil {
			target.Network.DefaultHeaders = n.DefaultHeaders
		}
		if n.RequestTimeoutMillis != nil {
			target.Network.RequestTimeoutMillis = *n.RequestTimeoutMillis
		}
		if n.RequestIntervalMillis != nil {
			target.Network.RequestIntervalMillis = *n.RequestIntervalMillis
		}
	}
}

func validate(cfg *Config) error {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || !base.IsAbs() {
		return fmt.Errorf("base_url '%s' は絶対URLである必要があります", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		return fmt.Errorf("base_url '%s' は '/' で終わる必要があります", cfg.BaseURL)
	}
	if len(cfg.Forums) == 0 {
		return fmt.Errorf("forums が空です")
	}
	seen := make(map[string]bool, len(cfg.Forums))
	for _, f := range cfg.Forums {
		if f.Key == "" || f.URL == "" {
			return fmt.Errorf("フォーラム '%s' には key と url が必要です", f.Name)
		}
		if seen[f.Key] {
			return fmt.Errorf("フォーラムのキー '%s' が重複しています", f.Key)
		}
		seen[f.Key] = true
	}
	if cfg.DirectoryPrefix == "" {
		return fmt.Errorf("directory_prefix が空です")
	}
	return nil
}

// computeLineAndColumn は、バイトオフセットから行番号と列番号（1始まり）を計算します。
func computeLineAndColumn(data []byte, offset int64) (int, int) {
	if offset < 0 || int(offset) > len(data) {
		return 0, 0
	}
	line := 1
	lastLineStart := 0
	for i, b := range data {
		if int64(i) == offset {
			return line, i - lastLineStart + 1
		}
		if b == '\n' {
			line++
			lastLineStart = i + 1
		}
	}
	return line, int(offset) - lastLineStart + 1
}

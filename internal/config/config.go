// Package config は、クローラの設定ファイル(JSON)の構造定義と、
// その読み込み、既定値へのマージ、実行時設定(RunConfig)の確定に関する機能を提供します。
package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// AppName は XDG 設定ディレクトリ下で使うディレクトリ名です。
	AppName = "p83gifs"

	// CompatibleVersion は、サポートする設定ファイルのバージョンです。
	CompatibleVersion = "1.0"

	// UnlimitedPages は「全ページ」を表す事実上無制限の番兵値です。
	UnlimitedPages = 1000000

	DefaultBaseURL          = "http://www.point83.com/forum/"
	DefaultSiteAdapter      = "phpbb"
	DefaultTopicsPerPage    = 30
	DefaultMaxImagesPerPage = 100
	DefaultImageExtension   = ".gif"
	DefaultDirectoryPrefix  = "Point83GIFs"
	DefaultLogLevel         = "info"
)

// Config は設定ファイル全体を既定値とマージした結果です。
type Config struct {
	ConfigVersion    string          `json:"config_version"`
	BaseURL          string          `json:"base_url"`
	SiteAdapter      string          `json:"site_adapter"`
	Forums           []Forum         `json:"forums"`
	TopicsPerPage    int             `json:"topics_per_page"`
	MaxImagesPerPage int             `json:"max_images_per_page"`
	ImageExtension   string          `json:"image_extension"`
	OutputRoot       string          `json:"output_root,omitempty"`
	DirectoryPrefix  string          `json:"directory_prefix"`
	LogLevel         string          `json:"log_level"`
	Network          NetworkSettings `json:"network"`
}

// Forum は選択可能なフォーラムの一つです。
type Forum struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// NetworkSettings は、HTTPリクエストに関する設定を保持します。
type NetworkSettings struct {
	UserAgent             string            `json:"user_agent"`
	DefaultHeaders        map[string]string `json:"default_headers"`
	RequestTimeoutMillis  int               `json:"request_timeout_ms"`  // 0 はトランスポートの既定
	RequestIntervalMillis int               `json:"request_interval_ms"` // 0 は無制限
}

// Default は組み込みの既定設定を返します。
func Default() *Config {
	return &Config{
		ConfigVersion: CompatibleVersion,
		BaseURL:       DefaultBaseURL,
		SiteAdapter:   DefaultSiteAdapter,
		Forums: []Forum{
			{Key: "1", Name: "Westlake Center", URL: DefaultBaseURL + "viewforum.php?f=2"},
			{Key: "2", Name: "Wrenches Gears Lawns and Routes", URL: DefaultBaseURL + "viewforum.php?f=4"},
			{Key: "3", Name: "Point83 Navy", URL: DefaultBaseURL + "viewforum.php?f=10"},
		},
		TopicsPerPage:    DefaultTopicsPerPage,
		MaxImagesPerPage: DefaultMaxImagesPerPage,
		ImageExtension:   DefaultImageExtension,
		DirectoryPrefix:  DefaultDirectoryPrefix,
		LogLevel:         DefaultLogLevel,
		Network: NetworkSettings{
			UserAgent: "p83gifs/1.0",
		},
	}
}

// FindForum は、キーまたは名前（大文字小文字を区別しない）でフォーラムを検索します。
func (c *Config) FindForum(key string) (Forum, bool) {
	key = strings.TrimSpace(key)
	for _, f := range c.Forums {
		if f.Key == key || strings.EqualFold(f.Name, key) {
			return f, true
		}
	}
	return Forum{}, false
}

// RunConfig は一回の実行のために確定した、変更されない設定値です。
// クロールのコアはこの値だけを参照し、対話入力は行いません。
type RunConfig struct {
	Forum            Forum
	StartPage        int
	MaxForumPages    int
	MaxImagesPerPage int
	ImageExtension   string
	BaseURL          string
	TopicsPerPage    int
	OutputRoot       string
	DirectoryPrefix  string
	SiteAdapter      string
	LogLevel         string
	Network          NetworkSettings
}

// NewRunConfig は、設定と利用者の選択から RunConfig を検証・生成します。
func NewRunConfig(cfg *Config, forumKey string, startPage, maxForumPages int) (RunConfig, error) {
	forum, ok := cfg.FindForum(forumKey)
	if !ok {
		return RunConfig{}, fmt.Errorf("フォーラム '%s' が見つかりません", forumKey)
	}
	if startPage < 1 {
		return RunConfig{}, fmt.Errorf("開始ページは1以上である必要があります: %d", startPage)
	}
	if maxForumPages < 1 {
		return RunConfig{}, fmt.Errorf("処理ページ数は1以上である必要があります: %d", maxForumPages)
	}
	if cfg.MaxImagesPerPage < 1 {
		return RunConfig{}, fmt.Errorf("max_images_per_page は1以上である必要があります: %d", cfg.MaxImagesPerPage)
	}
	if !strings.HasPrefix(cfg.ImageExtension, ".") || len(cfg.ImageExtension) < 2 {
		return RunConfig{}, fmt.Errorf("image_extension は '.' で始まる必要があります: '%s'", cfg.ImageExtension)
	}
	if cfg.TopicsPerPage < 1 {
		return RunConfig{}, fmt.Errorf("topics_per_page は1以上である必要があります: %d", cfg.TopicsPerPage)
	}

	return RunConfig{
		Forum:            forum,
		StartPage:        startPage,
		MaxForumPages:    maxForumPages,
		MaxImagesPerPage: cfg.MaxImagesPerPage,
		ImageExtension:   cfg.ImageExtension,
		BaseURL:          cfg.BaseURL,
		TopicsPerPage:    cfg.TopicsPerPage,
		OutputRoot:       cfg.OutputRoot,
		DirectoryPrefix:  cfg.DirectoryPrefix,
		SiteAdapter:      cfg.SiteAdapter,
		LogLevel:         cfg.LogLevel,
		Network:          cfg.Network,
	}, nil
}

// StartURL は開始ページに対応するフォーラム一覧のURLを返します。
// 2ページ目以降は phpBB の start オフセットを付加します。
func (r RunConfig) StartURL() string {
	if r.StartPage == 1 {
		return r.Forum.URL
	}
	offset := (r.StartPage - 1) * r.TopicsPerPage
	return r.Forum.URL + "&topicdays=0&start=" + strconv.Itoa(offset)
}

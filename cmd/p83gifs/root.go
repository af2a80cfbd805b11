package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"Point83GIFs/internal/adapter"
	"Point83GIFs/internal/config"
	"Point83GIFs/internal/core"
	"Point83GIFs/internal/network"
	"Point83GIFs/internal/runlog"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "1.0.0"

// options はコマンドラインフラグの値です。
type options struct {
	configFile string
	forum      string
	startPage  int
	pages      int
	maxPerPage int
	ext        string
	outputRoot string
	logLevel   string
	noPrompt   bool
}

// NewRootCmd は p83gifs のルートコマンドを生成します。
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "p83gifs",
		Short: "Download GIFs posted in Point83 forum threads",
		Long: `p83gifs walks the pages of a Point83 phpBB forum, visits every thread,
and saves each GIF it finds into a timestamped run directory.

Images already saved during the run are skipped, and at most
--max-per-page new images are taken from a single thread page.
Values not given as flags are asked for interactively when stdin is a terminal.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interactive := !opts.noPrompt && term.IsTerminal(int(os.Stdin.Fd()))
			return runCrawl(cmd, opts, interactive)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "config.json", "設定ファイル (.json/.yaml)。カレントディレクトリ、次に XDG 設定ディレクトリを探し、なければ既定値")
	f.StringVarP(&opts.forum, "forum", "f", "", "フォーラムのキーまたは名前")
	f.IntVarP(&opts.startPage, "start-page", "s", 1, "開始するフォーラム一覧のページ番号")
	f.IntVarP(&opts.pages, "pages", "p", config.UnlimitedPages, "処理するフォーラム一覧のページ数")
	f.IntVar(&opts.maxPerPage, "max-per-page", config.DefaultMaxImagesPerPage, "スレッドの1ページあたりに保存する最大件数")
	f.StringVar(&opts.ext, "ext", config.DefaultImageExtension, "対象とする画像の拡張子")
	f.StringVarP(&opts.outputRoot, "output-root", "o", "", "実行ディレクトリを作成する場所")
	f.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "ログレベル (debug, info, warn, error)")
	f.BoolVar(&opts.noPrompt, "no-prompt", false, "対話入力を行わず、フラグと既定値だけで実行します")

	return cmd
}

// Execute は、SIGINT/SIGTERM でキャンセルされるコンテキストでルートコマンドを実行します。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// 実行ディレクトリがまだ無いのでコンソールにのみ出力する
		runlog.NewConsole(os.Stderr).Errorf("%v", err)
		os.Exit(1)
	}
}

// runCrawl は、設定を確定させてからクロールを一回実行します。
func runCrawl(cmd *cobra.Command, opts *options, interactive bool) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, opts, cfg)

	forumKey, startPage, pages := opts.forum, opts.startPage, opts.pages
	if interactive {
		forumKey, startPage, pages, err = promptMissing(cmd, cfg, forumKey, startPage, pages)
		if err != nil {
			return err
		}
	} else if forumKey == "" {
		return errors.New("--forum is required when not running interactively")
	}

	rc, err := config.NewRunConfig(cfg, forumKey, startPage, pages)
	if err != nil {
		return err
	}

	client, err := network.NewClient(rc.Network)
	if err != nil {
		return err
	}
	parser, err := adapter.GetAdapter(rc.SiteAdapter)
	if err != nil {
		return err
	}

	_, err = core.Run(cmd.Context(), rc, client, parser, cmd.OutOrStdout())
	return err
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	// 明示的に指定されたファイルは存在しなければエラー
	if cmd.Flags().Changed("config") {
		return config.LoadAndResolve(opts.configFile)
	}
	return config.LoadOrDefault(opts.configFile)
}

func applyFlagOverrides(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-per-page") {
		cfg.MaxImagesPerPage = opts.maxPerPage
	}
	if flags.Changed("ext") {
		cfg.ImageExtension = opts.ext
	}
	if flags.Changed("output-root") {
		cfg.OutputRoot = opts.outputRoot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}

// promptMissing は、フラグで指定されなかった値だけを対話的に尋ねます。
func promptMissing(cmd *cobra.Command, cfg *config.Config, forumKey string, startPage, pages int) (string, int, int, error) {
	flags := cmd.Flags()
	p := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	p.Banner()

	var err error
	if !flags.Changed("forum") {
		if forumKey, err = p.Forum(cfg); err != nil {
			return "", 0, 0, err
		}
	}
	if !flags.Changed("pages") {
		if pages, err = p.TotalPages(); err != nil {
			return "", 0, 0, err
		}
	}
	if !flags.Changed("start-page") {
		if startPage, err = p.StartPage(); err != nil {
			return "", 0, 0, err
		}
	}
	return forumKey, startPage, pages, nil
}

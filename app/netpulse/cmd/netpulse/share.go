package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/share"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/storage"
)

var errRateLimited = errors.New("too many share links generated, please wait a minute")

var (
	shareQuery     string
	shareTitle     string
	shareNoSources bool
	shareDecodeRaw bool
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create or open self-contained share links",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Read an analysis result (JSON) from stdin and print a share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, share.MaxDecodedSize+1))
		if err != nil {
			return err
		}
		var res model.AnalysisResult
		if err := json.Unmarshal(b, &res); err != nil {
			return fmt.Errorf("invalid analysis result: %w", err)
		}

		opts := share.Options{
			IncludeQuery:   shareQuery != "",
			CustomTitle:    shareTitle,
			IncludeSources: !shareNoSources,
		}
		url, err := generateShareURL(&res, shareQuery, opts)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <url|token>",
	Short: "Decode and print a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := share.Decode(share.TokenFrom(args[0]))
		if d == nil {
			return errors.New("invalid or corrupted share link")
		}
		if shareDecodeRaw {
			return writeJSON(os.Stdout, d)
		}

		res := d.DisplayResult()
		printAnalysis(os.Stdout, d.DisplayTitle(res.Parsed.Title), &res)
		fmt.Printf("\nShared at %s\n", time.UnixMilli(d.Timestamp).Format(time.DateTime))
		return nil
	},
}

func init() {
	shareEncodeCmd.Flags().StringVarP(&shareQuery, "query", "q", "", "Original query to include in the link")
	shareEncodeCmd.Flags().StringVarP(&shareTitle, "title", "t", "", "Custom title")
	shareEncodeCmd.Flags().BoolVar(&shareNoSources, "no-sources", false, "Hide sources in the shared view")
	shareDecodeCmd.Flags().BoolVar(&shareDecodeRaw, "json", false, "Print the decoded share data as JSON")

	shareCmd.AddCommand(shareEncodeCmd)
	shareCmd.AddCommand(shareDecodeCmd)
}

// shareURL analyze --share 使用：带上查询与来源
func shareURL(res *model.AnalysisResult, query string) (string, error) {
	return generateShareURL(res, query, share.Options{IncludeQuery: true, IncludeSources: true})
}

// generateShareURL 限流记录保存在状态目录下的 leveldb 中，跨进程生效
func generateShareURL(res *model.AnalysisResult, query string, opts share.Options) (string, error) {
	// 状态目录不可用时不限流
	var store share.Store
	if s, err := storage.New(filepath.Join(cfg.GetStateDir(), "share")); err != nil {
		logger.L().Warnf("打开分享限流记录失败: %v", err)
	} else {
		defer s.Close()
		store = s
	}

	limiter := share.NewRateLimiter(store, share.WithLimit(cfg.Share.RateLimit.Max, cfg.Share.RateLimit.Window))
	d := share.CreateShareData(*res, query, opts, time.Now())
	url, ok := share.GenerateShareURL(cfg.Share.BaseURL, d, limiter)
	if !ok {
		return "", errRateLimited
	}
	return url, nil
}

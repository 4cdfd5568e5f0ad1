package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/engine"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/trending"
)

var (
	analyzeMode  string
	analyzeLang  string
	analyzeJSON  bool
	analyzeShare bool
	trendingLang string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <query>",
	Short: "Analyze the impact of an internet event",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		eng, _, err := engine.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		res, err := eng.Analyze(cmd.Context(), query, model.ParseMode(analyzeMode), model.ParseLang(analyzeLang))
		if err != nil {
			return cliError(err)
		}

		if analyzeJSON {
			if err := writeJSON(os.Stdout, res); err != nil {
				return err
			}
		} else {
			printAnalysis(os.Stdout, "", res)
		}

		if analyzeShare {
			url, err := shareURL(res, query)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Share:", url)
		}
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print current trending topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := engine.BuildComponents(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		svc := trending.NewService(comps.Searcher, comps.Completer(),
			trending.WithTTL(cfg.Trending.TTL),
			trending.WithQuery(cfg.Trending.Query),
		)
		for _, t := range svc.Topics(cmd.Context(), model.ParseLang(trendingLang)) {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", string(model.ModeDeep), "Analysis mode: fast or deep")
	analyzeCmd.Flags().StringVarP(&analyzeLang, "lang", "l", string(model.LangZH), "Output language: zh or en")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeShare, "share", false, "Also print a share link (query included)")

	trendingCmd.Flags().StringVarP(&trendingLang, "lang", "l", string(model.LangZH), "Topic language: zh or en")
}

// cliError 本地命令行直接展示 provider 细节
func cliError(err error) error {
	ae, ok := engine.AsAnalysisError(err)
	if !ok {
		return err
	}
	if ae.Kind == engine.KindServiceUnavailable {
		return fmt.Errorf("%s unavailable: %s", ae.Provider, ae.Detail)
	}
	return errors.New(ae.Detail)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printAnalysis 终端友好的输出，没有识别到段落时直接输出原文
func printAnalysis(w io.Writer, title string, res *model.AnalysisResult) {
	p := res.Parsed
	if p.IsEmpty() {
		fmt.Fprintln(w, res.RawText)
	} else {
		if title == "" {
			title = p.Title
		}
		fmt.Fprintf(w, "# %s\n\n", title)
		if p.Summary != "" {
			fmt.Fprintf(w, "%s\n\n", p.Summary)
		}
		if len(p.Impacts) > 0 {
			fmt.Fprintln(w, "Impacts:")
			for _, imp := range p.Impacts {
				fmt.Fprintf(w, "  - %s\n", imp)
			}
			fmt.Fprintln(w)
		}
		if p.HistoricalContext != "" {
			fmt.Fprintf(w, "Historical context:\n%s\n\n", p.HistoricalContext)
		}
	}

	if len(res.Sources) > 0 {
		fmt.Fprintln(w, "Sources:")
		for i, s := range res.Sources {
			fmt.Fprintf(w, "  [%d] %s - %s\n", i+1, s.Title, s.URI)
		}
	}
}

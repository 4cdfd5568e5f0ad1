package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
)

// fakeSearcher 返回预设结果
type fakeSearcher struct {
	resp *search.Response
	err  error
	reqs []*search.Request
}

func (f *fakeSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

// fakeCompleter 记录提示词并返回预设文本
type fakeCompleter struct {
	text    string
	err     error
	prompts []string
	modes   []model.Mode
}

func (f *fakeCompleter) Provider() string { return "fake-llm" }

func (f *fakeCompleter) Complete(ctx context.Context, mode model.Mode, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.modes = append(f.modes, mode)
	return f.text, f.err
}

type countingEnricher struct{ calls int }

func (c *countingEnricher) Enrich(ctx context.Context, s []model.SearchSnippet) []model.SearchSnippet {
	c.calls++
	return s
}

const rawOutage = "[TITLE]\nOutage\n[SUMMARY]\nA major outage occurred.\n[IMPACT]\n- Sites down\n- Revenue loss\n[HISTORY]\nSimilar to a past incident."

func threeResults() *search.Response {
	return &search.Response{Results: []search.Result{
		{Title: "A", URL: "https://a", Content: "a"},
		{Title: "B", URL: "https://b", Content: "b"},
		{Title: "C", URL: "https://c", Content: "c"},
	}}
}

func TestEngine_Analyze(t *testing.T) {
	fs := &fakeSearcher{resp: threeResults()}
	fc := &fakeCompleter{text: rawOutage}
	e := NewEngine(fs, fc, Options{})

	res, err := e.Analyze(context.Background(), "  cdn outage  ", model.ModeFast, model.LangEN)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if fs.reqs[0].Query != "cdn outage" || fs.reqs[0].MaxResults != 4 {
		t.Errorf("search request = %+v", fs.reqs[0])
	}
	if fc.modes[0] != model.ModeFast {
		t.Errorf("mode = %s", fc.modes[0])
	}
	if !strings.Contains(fc.prompts[0], "Source 3:\nTitle: C") {
		t.Errorf("prompt missing snippets: %q", fc.prompts[0])
	}
	if res.RawText != rawOutage {
		t.Errorf("RawText = %q", res.RawText)
	}
	if res.Parsed.Title != "Outage" || !reflect.DeepEqual(res.Parsed.Impacts, []string{"Sites down", "Revenue loss"}) {
		t.Errorf("Parsed = %+v", res.Parsed)
	}
	want := []model.SearchSource{{URI: "https://a", Title: "A"}, {URI: "https://b", Title: "B"}, {URI: "https://c", Title: "C"}}
	if !reflect.DeepEqual(res.Sources, want) {
		t.Errorf("Sources = %+v, want %+v", res.Sources, want)
	}
}

func TestEngine_DeepModeUsesLargerCapAndEnricher(t *testing.T) {
	fs := &fakeSearcher{resp: threeResults()}
	en := &countingEnricher{}
	e := NewEngine(fs, &fakeCompleter{text: rawOutage}, Options{MaxResultsFast: 2, MaxResultsDeep: 7, Enricher: en})

	if _, err := e.Analyze(context.Background(), "q", model.ModeDeep, model.LangZH); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if fs.reqs[0].MaxResults != 7 || en.calls != 1 {
		t.Errorf("deep: max=%d enrich calls=%d", fs.reqs[0].MaxResults, en.calls)
	}

	res, _ := e.Analyze(context.Background(), "q", model.ModeFast, model.LangZH)
	if en.calls != 1 {
		t.Error("fast mode must not enrich")
	}
	if len(res.Sources) != 2 {
		t.Errorf("fast sources = %d, want capped to 2", len(res.Sources))
	}
}

func TestEngine_SearchDegrade(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("tavily down")}
	fc := &fakeCompleter{text: rawOutage}
	e := NewEngine(fs, fc, Options{})

	res, err := e.Analyze(context.Background(), "q", model.ModeDeep, model.LangZH)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Sources == nil || len(res.Sources) != 0 {
		t.Errorf("Sources = %v, want empty slice", res.Sources)
	}
	if len(fc.prompts) != 1 {
		t.Error("completion should still run after degraded search")
	}
}

func TestEngine_SearchFailPolicy(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("tavily down")}
	fc := &fakeCompleter{text: rawOutage}
	e := NewEngine(fs, fc, Options{OnSearchFailure: SearchFail, SearchProvider: "tavily"})

	_, err := e.Analyze(context.Background(), "q", model.ModeDeep, model.LangZH)
	ae, ok := AsAnalysisError(err)
	if !ok || ae.Kind != KindServiceUnavailable || ae.Provider != "tavily" {
		t.Errorf("Analyze() error = %v", err)
	}
	if len(fc.prompts) != 0 {
		t.Error("completion must not run")
	}
}

func TestEngine_CompletionUnavailable(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("gemini api error (status 503): secret upstream detail")}
	e := NewEngine(&fakeSearcher{resp: threeResults()}, fc, Options{})

	_, err := e.Analyze(context.Background(), "q", model.ModeDeep, model.LangEN)
	if kerrors.Code(err) != 503 {
		t.Errorf("code = %d, want 503", kerrors.Code(err))
	}
	if strings.Contains(kerrors.FromError(err).Message, "secret") {
		t.Error("provider detail must not leak into the message")
	}
	ae, ok := AsAnalysisError(err)
	if !ok || ae.Provider != "fake-llm" || !strings.Contains(ae.Detail, "secret upstream detail") {
		t.Errorf("AnalysisError = %+v", ae)
	}
}

func TestEngine_EmptyCompletion(t *testing.T) {
	e := NewEngine(&fakeSearcher{resp: &search.Response{}}, &fakeCompleter{text: "  "}, Options{})
	res, err := e.Analyze(context.Background(), "q", model.ModeDeep, model.LangZH)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.RawText != "未生成分析结果。" {
		t.Errorf("RawText = %q", res.RawText)
	}
	if !res.Parsed.IsEmpty() {
		t.Errorf("Parsed = %+v, want empty", res.Parsed)
	}
}

func TestEngine_ValidationAndConfiguration(t *testing.T) {
	e := NewEngine(&fakeSearcher{}, &fakeCompleter{}, Options{})
	_, err := e.Analyze(context.Background(), "   ", model.ModeDeep, model.LangZH)
	if kerrors.Reason(err) != ReasonValidation || kerrors.Code(err) != 400 {
		t.Errorf("empty query error = %v", err)
	}

	e = NewEngine(nil, nil, Options{Missing: []string{"LLM_API_KEY", "TAVILY_API_KEY"}})
	_, err = e.Analyze(context.Background(), "q", model.ModeDeep, model.LangZH)
	ae, ok := AsAnalysisError(err)
	if !ok || ae.Kind != KindConfiguration {
		t.Fatalf("config error = %v", err)
	}
	if ae.Detail != "Server-side configuration error: Missing keys (LLM_API_KEY, TAVILY_API_KEY)" {
		t.Errorf("Detail = %q", ae.Detail)
	}
}

func TestEngine_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := &fakeCompleter{err: context.Canceled}
	e := NewEngine(&fakeSearcher{resp: threeResults()}, fc, Options{})
	if _, err := e.Analyze(ctx, "q", model.ModeDeep, model.LangZH); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}

func TestBuild_MissingKeys(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = "tavily"
	cfg.LLM.Provider = "gemini"

	e, c, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(c.Missing, []string{"TAVILY_API_KEY", "LLM_API_KEY"}) {
		t.Errorf("Missing = %v", c.Missing)
	}
	_, err = e.Analyze(context.Background(), "q", model.ModeFast, model.LangEN)
	if kerrors.Reason(err) != ReasonConfiguration {
		t.Errorf("Analyze() error = %v", err)
	}

	cfg.LLM.Provider = "unknown"
	if _, _, err := Build(context.Background(), cfg); err == nil {
		t.Error("unknown provider should fail Build()")
	}
}

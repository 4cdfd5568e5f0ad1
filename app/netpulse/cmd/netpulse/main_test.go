package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/engine"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  provider: exa\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if c.Search.Provider != "exa" || c.Search.MaxResultsFast != 4 {
		t.Errorf("config = %+v", c.Search)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loadConfig() with missing explicit file should fail")
	}
}

func TestPrintAnalysis(t *testing.T) {
	res := &model.AnalysisResult{
		Parsed: model.ParsedAnalysis{
			Title:   "Outage",
			Summary: "Down.",
			Impacts: []string{"Retail"},
		},
		Sources: []model.SearchSource{{URI: "https://a", Title: "A"}},
	}
	var buf bytes.Buffer
	printAnalysis(&buf, "", res)
	out := buf.String()
	for _, want := range []string{"# Outage", "Down.", "  - Retail", "  [1] A - https://a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printAnalysis(&buf, "", &model.AnalysisResult{RawText: "untagged text"})
	if strings.TrimSpace(buf.String()) != "untagged text" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCLIError(t *testing.T) {
	err := cliError(engine.ServiceUnavailable("gemini", "generic", errors.New("quota exceeded")))
	if err.Error() != "gemini unavailable: quota exceeded" {
		t.Errorf("cliError() = %q", err)
	}
	err = cliError(engine.ConfigurationError([]string{"LLM_API_KEY"}))
	if err.Error() != "Server-side configuration error: Missing keys (LLM_API_KEY)" {
		t.Errorf("cliError() = %q", err)
	}
	plain := errors.New("plain")
	if cliError(plain) != plain {
		t.Error("non-analysis errors should pass through")
	}
}

func TestGenerateShareURL_RateLimited(t *testing.T) {
	cfg = config.Default()
	cfg.Share.StateDir = t.TempDir()
	cfg.Share.RateLimit.Max = 1
	defer func() { cfg = nil }()

	res := &model.AnalysisResult{RawText: "r", Parsed: model.ParsedAnalysis{Title: "T"}}
	url, err := shareURL(res, "q")
	if err != nil || !strings.Contains(url, "#/shared?data=") {
		t.Fatalf("shareURL() = %q, %v", url, err)
	}
	if _, err := shareURL(res, "q"); !errors.Is(err, errRateLimited) {
		t.Errorf("second shareURL() error = %v, want errRateLimited", err)
	}
}

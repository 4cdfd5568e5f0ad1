package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

func TestEnricher_Enrich(t *testing.T) {
	long := strings.Repeat("x", 600)
	huge := strings.Repeat("y", 8000)
	fetched := map[string]string{
		"https://short": huge,
		"https://fail":  "",
	}
	var calls []string
	e := New(func(url string, _ time.Duration) (string, error) {
		calls = append(calls, url)
		if url == "https://fail" {
			return "", errors.New("timeout")
		}
		return fetched[url], nil
	})

	in := []model.SearchSnippet{
		{Title: "short", URL: "https://short", Content: "tiny"},
		{Title: "long", URL: "https://long", Content: long},
		{Title: "fail", URL: "https://fail", Content: "keep me"},
	}
	out := e.Enrich(context.Background(), in)

	if len(out) != 3 || out[0].Title != "short" || out[2].Title != "fail" {
		t.Fatalf("Enrich() changed order or count: %+v", out)
	}
	if len([]rune(out[0].Content)) != MaxContentLen {
		t.Errorf("enriched content length = %d, want %d", len([]rune(out[0].Content)), MaxContentLen)
	}
	if out[1].Content != long {
		t.Error("long content should be kept")
	}
	if out[2].Content != "keep me" {
		t.Errorf("failed fetch content = %q", out[2].Content)
	}
	if len(calls) != 2 {
		t.Errorf("fetch calls = %v, want 2", calls)
	}
	if in[0].Content != "tiny" {
		t.Error("input slice must not be modified")
	}
}

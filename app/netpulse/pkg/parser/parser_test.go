package parser

import (
	"reflect"
	"testing"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.ParsedAnalysis
	}{
		{
			name: "all sections",
			raw:  "[TITLE]\nOutage\n[SUMMARY]\nA major outage occurred.\n[IMPACT]\n- Sites down\n- Revenue loss\n[HISTORY]\nSimilar to a past incident.",
			want: model.ParsedAnalysis{
				Title:             "Outage",
				Summary:           "A major outage occurred.",
				Impacts:           []string{"Sites down", "Revenue loss"},
				HistoricalContext: "Similar to a past incident.",
			},
		},
		{
			name: "no tags",
			raw:  "no tags here",
			want: model.ParsedAnalysis{Impacts: []string{}},
		},
		{
			name: "empty input",
			raw:  "",
			want: model.ParsedAnalysis{Impacts: []string{}},
		},
		{
			name: "missing summary and history",
			raw:  "[TITLE] 标题 \n\n[IMPACT]\n* 第一\n第二\n",
			want: model.ParsedAnalysis{
				Title:   "标题",
				Impacts: []string{"第一", "第二"},
			},
		},
		{
			name: "blank lines around sections",
			raw:  "\n\n[TITLE]\n\n  Title  \n\n[SUMMARY]\n\n\nSummary.\n\n\n",
			want: model.ParsedAnalysis{
				Title:   "Title",
				Summary: "Summary.",
				Impacts: []string{},
			},
		},
		{
			name: "reordered sections",
			raw:  "[HISTORY]\nhistory\n[TITLE]\ntitle\n[IMPACT]\n• a\n[SUMMARY]\nsummary",
			want: model.ParsedAnalysis{
				Title:             "title",
				Summary:           "summary",
				Impacts:           []string{"a"},
				HistoricalContext: "history",
			},
		},
		{
			name: "lowercase tags are not markers",
			raw:  "[title]\nx\n[SUMMARY]\ny",
			want: model.ParsedAnalysis{Summary: "y", Impacts: []string{}},
		},
		{
			name: "bracketed text inside a section",
			raw:  "[TITLE]\n[Breaking] news\n[SUMMARY]\nok",
			want: model.ParsedAnalysis{Title: "[Breaking] news", Summary: "ok", Impacts: []string{}},
		},
		{
			name: "first occurrence wins",
			raw:  "[TITLE]\nfirst\n[TITLE]\nsecond",
			want: model.ParsedAnalysis{Title: "first", Impacts: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParse_ImpactBullets(t *testing.T) {
	raw := "[IMPACT]\n- one\n*two\n•   three\nfour\n\n-- five\n  - six  \n[HISTORY]"
	got := Parse(raw).Impacts
	want := []string{"one", "two", "three", "four", "- five", "six"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Impacts = %q, want %q", got, want)
	}
}

func TestParse_NoCharactersLost(t *testing.T) {
	raw := "[TITLE]a b[SUMMARY]c d[IMPACT]e[HISTORY]f g"
	got := Parse(raw)
	if got.Title != "a b" || got.Summary != "c d" || got.HistoricalContext != "f g" {
		t.Errorf("Parse() = %#v", got)
	}
	if !reflect.DeepEqual(got.Impacts, []string{"e"}) {
		t.Errorf("Impacts = %q", got.Impacts)
	}
}

func TestParse_UnclosedBrackets(t *testing.T) {
	// 大量未闭合的 '[' 不应导致异常
	raw := ""
	for i := 0; i < 10000; i++ {
		raw += "["
	}
	got := Parse(raw + "[TITLE]x")
	if got.Title != "x" {
		t.Errorf("Title = %q, want %q", got.Title, "x")
	}
}

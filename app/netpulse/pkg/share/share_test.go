package share

import (
	"testing"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

func TestCreateShareData(t *testing.T) {
	now := time.UnixMilli(1718000000000)
	result := sampleResult()

	d := CreateShareData(result, "cdn outage", Options{IncludeQuery: false, CustomTitle: "  T  "}, now)
	if d.Version != Version || d.Timestamp != 1718000000000 {
		t.Errorf("header = %q, %d", d.Version, d.Timestamp)
	}
	if d.OriginalQuery != "" {
		t.Errorf("OriginalQuery = %q, want dropped", d.OriginalQuery)
	}
	if d.CustomTitle != "T" || d.ShareOptions.CustomTitle != "T" {
		t.Errorf("CustomTitle = %q / %q", d.CustomTitle, d.ShareOptions.CustomTitle)
	}

	// 修改原结果不影响快照
	result.Parsed.Impacts[0] = "changed"
	if d.AnalysisResult.Parsed.Impacts[0] == "changed" {
		t.Error("share data aliases the analysis result")
	}

	withQuery := CreateShareData(sampleResult(), "cdn outage", Options{IncludeQuery: true}, now)
	if withQuery.OriginalQuery != "cdn outage" {
		t.Errorf("OriginalQuery = %q", withQuery.OriginalQuery)
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		d    Data
		want string
	}{
		{name: "custom", d: Data{CustomTitle: "C", OriginalQuery: "q", ShareOptions: Options{IncludeQuery: true}}, want: "C"},
		{name: "option title", d: Data{ShareOptions: Options{CustomTitle: "O"}}, want: "O"},
		{name: "query", d: Data{OriginalQuery: "q", ShareOptions: Options{IncludeQuery: true}}, want: "q"},
		{name: "query not included", d: Data{OriginalQuery: "q"}, want: "fallback"},
		{name: "fallback", d: Data{}, want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.DisplayTitle("fallback"); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayResult(t *testing.T) {
	d := CreateShareData(sampleResult(), "", Options{IncludeSources: false}, time.Now())
	r := d.DisplayResult()
	if r.Sources == nil || len(r.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", r.Sources)
	}
	if len(d.AnalysisResult.Sources) != 2 {
		t.Error("DisplayResult must not modify the stored sources")
	}

	d.ShareOptions.IncludeSources = true
	if got := d.DisplayResult().Sources; len(got) != 2 || got[0] != (model.SearchSource{URI: "https://example.com/a?x=1&y=2", Title: "It's down"}) {
		t.Errorf("Sources = %v", got)
	}
}

package share

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

// Validate 解析并校验 JSON 形式的分享数据，不做清洗。
// 任一字段缺失或类型不符都返回 false。
func Validate(b []byte) (*Data, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// 不允许尾随内容
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return fromValue(v)
}

// DecodeJSON 校验并清洗 JSON 形式的分享数据，失败返回 nil
func DecodeJSON(b []byte) *Data {
	d, ok := Validate(b)
	if !ok {
		return nil
	}
	return d.Sanitized()
}

func fromValue(v any) (*Data, bool) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	var d Data
	if d.Version, ok = root["version"].(string); !ok {
		return nil, false
	}
	if d.Timestamp, ok = toInt64(root["timestamp"]); !ok {
		return nil, false
	}
	if d.AnalysisResult, ok = toResult(root["analysisResult"]); !ok {
		return nil, false
	}

	opts, ok := root["shareOptions"].(map[string]any)
	if !ok {
		return nil, false
	}
	if d.ShareOptions.IncludeQuery, ok = opts["includeQuery"].(bool); !ok {
		return nil, false
	}
	if d.ShareOptions.IncludeSources, ok = opts["includeSources"].(bool); !ok {
		return nil, false
	}
	if d.ShareOptions.CustomTitle, ok = optString(opts, "customTitle"); !ok {
		return nil, false
	}

	if d.OriginalQuery, ok = optString(root, "originalQuery"); !ok {
		return nil, false
	}
	if d.CustomTitle, ok = optString(root, "customTitle"); !ok {
		return nil, false
	}
	return &d, true
}

func toResult(v any) (model.AnalysisResult, bool) {
	var r model.AnalysisResult
	m, ok := v.(map[string]any)
	if !ok {
		return r, false
	}
	if r.RawText, ok = m["rawText"].(string); !ok {
		return r, false
	}

	parsed, ok := m["parsed"].(map[string]any)
	if !ok {
		return r, false
	}
	if r.Parsed.Title, ok = parsed["title"].(string); !ok {
		return r, false
	}
	if r.Parsed.Summary, ok = parsed["summary"].(string); !ok {
		return r, false
	}
	if r.Parsed.HistoricalContext, ok = parsed["historicalContext"].(string); !ok {
		return r, false
	}
	impacts, ok := parsed["impacts"].([]any)
	if !ok {
		return r, false
	}
	r.Parsed.Impacts = make([]string, 0, len(impacts))
	for _, item := range impacts {
		s, ok := item.(string)
		if !ok {
			return r, false
		}
		r.Parsed.Impacts = append(r.Parsed.Impacts, s)
	}

	sources, ok := m["sources"].([]any)
	if !ok {
		return r, false
	}
	r.Sources = make([]model.SearchSource, 0, len(sources))
	for _, item := range sources {
		src, ok := item.(map[string]any)
		if !ok {
			return r, false
		}
		uri, ok1 := src["uri"].(string)
		title, ok2 := src["title"].(string)
		if !ok1 || !ok2 {
			return r, false
		}
		r.Sources = append(r.Sources, model.SearchSource{URI: uri, Title: title})
	}
	return r, true
}

// optString 可选字符串字段：缺失或 null 视为空
func optString(m map[string]any, key string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

func toInt64(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

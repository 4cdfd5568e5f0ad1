package share

import (
	"strings"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

// Version 分享数据版本号
const Version = "1.0"

// Options 用户选择的分享内容
type Options struct {
	IncludeQuery   bool   `json:"includeQuery"`
	CustomTitle    string `json:"customTitle,omitempty"`
	IncludeSources bool   `json:"includeSources"`
}

// Data 自包含的分享快照
type Data struct {
	Version        string               `json:"version"`
	AnalysisResult model.AnalysisResult `json:"analysisResult"`
	ShareOptions   Options              `json:"shareOptions"`
	OriginalQuery  string               `json:"originalQuery,omitempty"`
	CustomTitle    string               `json:"customTitle,omitempty"`
	Timestamp      int64                `json:"timestamp"`
}

// CreateShareData 创建分享数据。
// 未勾选 IncludeQuery 时在这里丢弃原始查询，之后的任何序列化都不会再带上它。
func CreateShareData(result model.AnalysisResult, originalQuery string, opts Options, now time.Time) *Data {
	opts.CustomTitle = strings.TrimSpace(opts.CustomTitle)

	d := &Data{
		Version:        Version,
		AnalysisResult: cloneResult(result),
		ShareOptions:   opts,
		CustomTitle:    opts.CustomTitle,
		Timestamp:      now.UnixMilli(),
	}
	if opts.IncludeQuery {
		d.OriginalQuery = originalQuery
	}
	return d
}

// DisplayTitle 展示标题：自定义标题 > 原始查询 > fallback
func (d *Data) DisplayTitle(fallback string) string {
	if d.CustomTitle != "" {
		return d.CustomTitle
	}
	if d.ShareOptions.CustomTitle != "" {
		return d.ShareOptions.CustomTitle
	}
	if d.ShareOptions.IncludeQuery && d.OriginalQuery != "" {
		return d.OriginalQuery
	}
	return fallback
}

// DisplayResult 按分享选项投影后的分析结果
func (d *Data) DisplayResult() model.AnalysisResult {
	r := cloneResult(d.AnalysisResult)
	if !d.ShareOptions.IncludeSources {
		r.Sources = []model.SearchSource{}
	}
	return r
}

// cloneResult 深拷贝，同时把 nil 切片规范为空切片
func cloneResult(r model.AnalysisResult) model.AnalysisResult {
	out := r
	out.Parsed.Impacts = append([]string{}, r.Parsed.Impacts...)
	out.Sources = append([]model.SearchSource{}, r.Sources...)
	return out
}

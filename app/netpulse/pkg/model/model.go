package model

import "strings"

// Mode 分析模式
type Mode string

const (
	ModeFast Mode = "fast"
	ModeDeep Mode = "deep"
)

// ParseMode 解析分析模式，未知值回退到 deep
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeFast)) {
		return ModeFast
	}
	return ModeDeep
}

// Lang 展示语言
type Lang string

const (
	LangZH Lang = "zh"
	LangEN Lang = "en"
)

// ParseLang 解析展示语言，只有 en 会被识别，其余一律视为 zh
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), string(LangEN)) {
		return LangEN
	}
	return LangZH
}

// SearchSnippet 单条搜索摘要
type SearchSnippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchSource 结果中引用的来源
type SearchSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ParsedAnalysis 从 LLM 输出中解析出的结构化结果
type ParsedAnalysis struct {
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	Impacts           []string `json:"impacts"`
	HistoricalContext string   `json:"historicalContext"`
}

// IsEmpty 所有字段都为空时返回 true
func (p ParsedAnalysis) IsEmpty() bool {
	return p.Title == "" && p.Summary == "" && len(p.Impacts) == 0 && p.HistoricalContext == ""
}

// AnalysisResult 一次分析的完整结果
type AnalysisResult struct {
	RawText string         `json:"rawText"`
	Parsed  ParsedAnalysis `json:"parsed"`
	Sources []SearchSource `json:"sources"`
}

// SourcesFrom 按原顺序把搜索摘要映射为来源列表
func SourcesFrom(snippets []SearchSnippet) []SearchSource {
	sources := make([]SearchSource, 0, len(snippets))
	for _, s := range snippets {
		sources = append(sources, SearchSource{URI: s.URL, Title: s.Title})
	}
	return sources
}

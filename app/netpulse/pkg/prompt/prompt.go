package prompt

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

// Template 单一语言的提示词模板
type Template struct {
	Role      string
	Task      string // %s 为用户查询
	Reference string
	Format    string
	NoResult  string
	Trending  string // %s 为新闻标题列表
}

var templates = map[model.Lang]Template{
	model.LangZH: {
		Role:      "你是一位资深的科技记者和历史学家。",
		Task:      "任务：基于提供的【参考资料】，研究并分析用户的查询：\"%s\"。",
		Reference: "【参考资料】(Reference Material):",
		Format: `【输出要求】：
严格遵循以下格式。不要使用 Markdown 标题符号 (#)。所有内容使用简体中文。

[TITLE]
(简短标题)

[SUMMARY]
(摘要，最多3句话)

[IMPACT]
(3-4个主要影响，列表形式)

[HISTORY]
(与历史事件对比)`,
		NoResult: "未生成分析结果。",
		Trending: `基于以下新闻标题：
%s

列出4个简短、有吸引力的话题标题，使用简体中文。仅输出4个标题，每行一个，不要编号。`,
	},
	model.LangEN: {
		Role:      "You are a veteran tech journalist and historian.",
		Task:      "Task: Based on the provided [Reference Material], research and analyze the user's query: \"%s\".",
		Reference: "[Reference Material]:",
		Format: `[Output Requirements]:
Strictly follow the format below. Do not use Markdown headings (#). All content must be in English.

[TITLE]
(A concise title)

[SUMMARY]
(A summary of max 3 sentences)

[IMPACT]
(3-4 key impacts in a list format)

[HISTORY]
(Comparison with historical events)`,
		NoResult: "No analysis result generated.",
		Trending: `Based on these news titles:
%s

List 4 short, catchy topic titles in English. Output ONLY the 4 titles separated by newlines. No numbering.`,
	},
}

// For 返回指定语言的模板，未知语言使用中文
func For(lang model.Lang) Template {
	if t, ok := templates[lang]; ok {
		return t
	}
	return templates[model.LangZH]
}

// NoResult 返回空输出时的占位文本
func NoResult(lang model.Lang) string {
	return For(lang).NoResult
}

// FormatSnippets 把搜索摘要编号排列为参考资料块，编号从 1 开始
func FormatSnippets(snippets []model.SearchSnippet) string {
	blocks := make([]string, 0, len(snippets))
	for i, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("Source %d:\nTitle: %s\nURL: %s\nContent: %s", i+1, s.Title, s.URL, s.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Build 构建分析提示词
func Build(query string, snippets []model.SearchSnippet, lang model.Lang) string {
	t := For(lang)
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(t.Role)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, t.Task, query)
	sb.WriteString("\n\n")
	sb.WriteString(t.Reference)
	sb.WriteString("\n")
	sb.WriteString(FormatSnippets(snippets))
	sb.WriteString("\n\n")
	sb.WriteString(t.Format)
	sb.WriteString("\n")
	return sb.String()
}

// BuildTrending 构建提取热门话题的提示词
func BuildTrending(titles []string, lang model.Lang) string {
	return fmt.Sprintf(For(lang).Trending, strings.Join(titles, "\n"))
}

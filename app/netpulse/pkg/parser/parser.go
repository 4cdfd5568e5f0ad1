package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

// 段落标签，大小写敏感，与 prompt 中的输出要求保持一致
const (
	TagTitle   = "[TITLE]"
	TagSummary = "[SUMMARY]"
	TagImpact  = "[IMPACT]"
	TagHistory = "[HISTORY]"
)

var tags = [...]string{TagTitle, TagSummary, TagImpact, TagHistory}

// marker 文本中出现的一个标签
type marker struct {
	tag   int // tags 下标
	start int
	end   int
}

// Parse 把 LLM 的原始输出解析为结构化结果。
// 缺失的段落保持零值，永远不会返回错误。
func Parse(rawText string) model.ParsedAnalysis {
	markers := scan(rawText)

	var sections [len(tags)]string
	var found [len(tags)]bool
	for i, m := range markers {
		if found[m.tag] {
			continue
		}
		found[m.tag] = true
		end := len(rawText)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		sections[m.tag] = strings.TrimSpace(rawText[m.end:end])
	}

	return model.ParsedAnalysis{
		Title:             sections[0],
		Summary:           sections[1],
		Impacts:           splitImpacts(sections[2]),
		HistoricalContext: sections[3],
	}
}

// scan 线性扫描所有标签的位置，按出现顺序返回
func scan(s string) []marker {
	var markers []marker
	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '[')
		if j < 0 {
			break
		}
		pos := i + j
		matched := false
		for t, tag := range tags {
			if strings.HasPrefix(s[pos:], tag) {
				markers = append(markers, marker{tag: t, start: pos, end: pos + len(tag)})
				i = pos + len(tag)
				matched = true
				break
			}
		}
		if !matched {
			i = pos + 1
		}
	}
	return markers
}

// splitImpacts 按行拆分影响列表，去掉空行和每行开头的一个列表符号
func splitImpacts(block string) []string {
	impacts := []string{}
	if block == "" {
		return impacts
	}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		impacts = append(impacts, stripBullet(line))
	}
	return impacts
}

func stripBullet(line string) string {
	r, size := utf8.DecodeRuneInString(line)
	switch r {
	case '-', '*', '•':
		return strings.TrimLeftFunc(line[size:], unicode.IsSpace)
	}
	return line
}

package share

import (
	"regexp"
	"strings"
)

// 需要剔除的危险片段
var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script\s*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
	regexp.MustCompile(`(?i)data:`),
}

// 已编码的实体，不再重复编码
var entities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#x27;"}

// Sanitize 剔除脚本片段后对 & < > " ' 做实体编码，多次调用结果不变
func Sanitize(s string) string {
	// 剔除到不动点，防止 "javajavascript:script:" 之类拼接绕过
	for {
		prev := s
		for _, p := range xssPatterns {
			s = p.ReplaceAllString(s, "")
		}
		if s == prev {
			break
		}
	}
	return escape(s)
}

func escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if isEntity(s[i:]) {
				sb.WriteByte('&')
			} else {
				sb.WriteString("&amp;")
			}
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&#x27;")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isEntity(s string) bool {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// Sanitized 返回所有自由文本字段清洗后的副本
func (d *Data) Sanitized() *Data {
	out := *d
	r := cloneResult(d.AnalysisResult)
	r.RawText = Sanitize(r.RawText)
	r.Parsed.Title = Sanitize(r.Parsed.Title)
	r.Parsed.Summary = Sanitize(r.Parsed.Summary)
	r.Parsed.HistoricalContext = Sanitize(r.Parsed.HistoricalContext)
	for i := range r.Parsed.Impacts {
		r.Parsed.Impacts[i] = Sanitize(r.Parsed.Impacts[i])
	}
	for i := range r.Sources {
		r.Sources[i].URI = Sanitize(r.Sources[i].URI)
		r.Sources[i].Title = Sanitize(r.Sources[i].Title)
	}
	out.AnalysisResult = r
	out.ShareOptions.CustomTitle = Sanitize(d.ShareOptions.CustomTitle)
	out.OriginalQuery = Sanitize(d.OriginalQuery)
	out.CustomTitle = Sanitize(d.CustomTitle)
	return &out
}

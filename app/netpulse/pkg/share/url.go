package share

import (
	"strings"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
)

// FragmentPrefix 分享链接的 fragment 前缀，token 不会出现在 HTTP 请求行中
const FragmentPrefix = "#/shared?data="

// BuildURL 拼接分享链接，base 中已有的 fragment 会被丢弃
func BuildURL(base, token string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + FragmentPrefix + token
}

// GenerateShareURL 在限流允许时生成分享链接；被限流或编码失败时返回 false
func GenerateShareURL(base string, d *Data, limiter *RateLimiter) (string, bool) {
	if !limiter.Allow() {
		return "", false
	}
	token, err := Encode(d)
	if err != nil {
		logger.L().Errorf("编码分享数据失败: %v", err)
		return "", false
	}
	return BuildURL(base, token), true
}

// TokenFrom 从完整链接或裸 token 中取出 token
func TokenFrom(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, FragmentPrefix); i >= 0 {
		return s[i+len(FragmentPrefix):]
	}
	return s
}

// ParseShareURL 从链接中解析分享数据，不是分享链接或无效时返回 nil
func ParseShareURL(url string) *Data {
	i := strings.Index(url, FragmentPrefix)
	if i < 0 {
		return nil
	}
	token := url[i+len(FragmentPrefix):]
	if token == "" {
		return nil
	}
	return Decode(token)
}

// IsShareURL 判断链接 (或单独的 fragment) 是否为分享视图
func IsShareURL(location string) bool {
	if i := strings.IndexByte(location, '#'); i >= 0 {
		location = location[i:]
	}
	return strings.HasPrefix(location, FragmentPrefix)
}

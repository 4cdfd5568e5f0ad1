package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// MaxDecodedSize 解压后的上限，超过即视为无效
const MaxDecodedSize = 1 << 20

// token 字符集: A-Z a-z 0-9 - _，可直接放入 URL fragment
var tokenEncoding = base64.RawURLEncoding.Strict()

// Encode 把分享数据编码为 token: JSON -> snappy framed (带 CRC) -> base64url
func Encode(d *Data) (string, error) {
	normalized := *d
	normalized.AnalysisResult = cloneResult(d.AnalysisResult)

	payload, err := json.Marshal(&normalized)
	if err != nil {
		return "", fmt.Errorf("marshal share data: %w", err)
	}

	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return "", fmt.Errorf("compress share data: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compress share data: %w", err)
	}
	return tokenEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode 解码 token，依次解压、解析、校验、清洗。任何一步失败都返回 nil。
func Decode(token string) *Data {
	compressed, err := tokenEncoding.DecodeString(token)
	if err != nil || len(compressed) == 0 {
		return nil
	}

	r := io.LimitReader(snappy.NewReader(bytes.NewReader(compressed)), MaxDecodedSize+1)
	payload, err := io.ReadAll(r)
	if err != nil || len(payload) > MaxDecodedSize {
		return nil
	}
	return DecodeJSON(payload)
}

package engine

import (
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// 错误原因
const (
	ReasonConfiguration      = "CONFIGURATION_ERROR"
	ReasonValidation         = "VALIDATION_ERROR"
	ReasonServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind 分析错误类别
type Kind string

const (
	KindConfiguration      Kind = "ConfigurationError"
	KindValidation         Kind = "ValidationError"
	KindServiceUnavailable Kind = "ServiceUnavailable"
)

// 返回给调用方的通用提示，provider 细节只写日志
const (
	msgAnalysisUnavailable = "AI analysis is temporarily unavailable. Please try again later."
	msgSearchUnavailable   = "Search service unavailable."
)

// ConfigurationError 缺少必需的凭据
func ConfigurationError(missing []string) *errors.Error {
	return errors.InternalServer(ReasonConfiguration,
		fmt.Sprintf("Server-side configuration error: Missing keys (%s)", strings.Join(missing, ", ")))
}

// ValidationError 请求参数不合法
func ValidationError(msg string) *errors.Error {
	return errors.BadRequest(ReasonValidation, msg)
}

// ServiceUnavailable 外部服务在重试后仍不可用
func ServiceUnavailable(provider, msg string, cause error) *errors.Error {
	return errors.ServiceUnavailable(ReasonServiceUnavailable, msg).
		WithMetadata(map[string]string{"provider": provider}).
		WithCause(cause)
}

// AnalysisError 分析失败的结构化描述
type AnalysisError struct {
	Kind     Kind
	Provider string
	Detail   string
}

// AsAnalysisError 从 error 中还原 AnalysisError，非分析错误返回 false
func AsAnalysisError(err error) (*AnalysisError, bool) {
	if err == nil {
		return nil, false
	}
	e := errors.FromError(err)
	ae := &AnalysisError{Provider: e.Metadata["provider"], Detail: e.Message}
	switch e.Reason {
	case ReasonConfiguration:
		ae.Kind = KindConfiguration
	case ReasonValidation:
		ae.Kind = KindValidation
	case ReasonServiceUnavailable:
		ae.Kind = KindServiceUnavailable
		if cause := e.Unwrap(); cause != nil {
			ae.Detail = cause.Error()
		}
	default:
		return nil, false
	}
	return ae, true
}

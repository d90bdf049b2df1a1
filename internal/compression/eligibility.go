package compression

import (
	"net/http"
	"strings"
)

// Eligibility 压缩资格策略：决定某个响应是否允许压缩
// 与最小化策略实现同一组资格检查方法，二者相互独立求值
type Eligibility struct {
	methods      []string // 为空表示仅GET
	mediaTypes   []string // 前缀匹配的可压缩媒体类型
	excludePaths []string
}

// NewEligibility 构建压缩资格策略
func NewEligibility(methods, mediaTypes, excludePaths []string) *Eligibility {
	return &Eligibility{
		methods:      methods,
		mediaTypes:   mediaTypes,
		excludePaths: excludePaths,
	}
}

// IsSupportedHttpMethod 实现资格检查接口
func (e *Eligibility) IsSupportedHttpMethod(method string) bool {
	if len(e.methods) == 0 {
		return method == http.MethodGet
	}
	for _, m := range e.methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// IsSupportedMediaType 实现资格检查接口，按前缀匹配
// "text/" 即匹配所有text子类型
func (e *Eligibility) IsSupportedMediaType(mediaType string) bool {
	for _, prefix := range e.mediaTypes {
		if strings.HasPrefix(mediaType, prefix) {
			return true
		}
	}
	return false
}

// IsProcessablePage 实现资格检查接口
func (e *Eligibility) IsProcessablePage(url string) bool {
	for _, prefix := range e.excludePaths {
		if strings.HasPrefix(url, prefix) {
			return false
		}
	}
	return true
}

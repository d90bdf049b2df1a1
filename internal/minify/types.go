package minify

import (
	"net/http"
	"strings"
)

// Result 最小化结果：MinifiedText与Errors二者只有一个有意义
type Result struct {
	MinifiedText string
	Errors       []error
}

// Ok 最小化是否成功
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Minifier 定义标记最小化器接口
type Minifier interface {
	// Minify 对文本做最小化；url和encodingName仅用于错误报告与统计，
	// collectStatistics指示是否收集统计数据
	Minify(text string, url string, encodingName string, collectStatistics bool) Result
}

// Policy 一条最小化策略：资格过滤规则 + 使用的最小化器
type Policy struct {
	Name              string
	Minifier          Minifier
	CollectStatistics bool

	methods      []string // 为空表示仅GET
	mediaTypes   []string // 精确匹配的媒体类型
	includePaths []string // 为空表示全部路径
	excludePaths []string
}

// IsSupportedHttpMethod 实现资格检查接口
func (p *Policy) IsSupportedHttpMethod(method string) bool {
	if len(p.methods) == 0 {
		return method == http.MethodGet
	}
	for _, m := range p.methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// IsSupportedMediaType 实现资格检查接口
func (p *Policy) IsSupportedMediaType(mediaType string) bool {
	for _, mt := range p.mediaTypes {
		if strings.EqualFold(mt, mediaType) {
			return true
		}
	}
	return false
}

// IsProcessablePage 实现资格检查接口
// url为规范化URL（路径+原始查询串），排除规则优先
func (p *Policy) IsProcessablePage(url string) bool {
	for _, prefix := range p.excludePaths {
		if strings.HasPrefix(url, prefix) {
			return false
		}
	}
	if len(p.includePaths) == 0 {
		return true
	}
	for _, prefix := range p.includePaths {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

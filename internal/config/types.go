package config

import (
	"strings"
)

type Config struct {
	Server      ServerConfig      `json:"Server"`
	Minify      MinifyConfig      `json:"Minify"`
	Compression CompressionConfig `json:"Compression"`
	Metrics     MetricsConfig     `json:"Metrics"`
}

type ServerConfig struct {
	Listen string `json:"Listen"` // 监听地址，如 ":3000"
}

// MinifyConfig 标记最小化配置
type MinifyConfig struct {
	Enabled         bool           `json:"Enabled"`
	MaxResponseSize int64          `json:"MaxResponseSize"` // 超过该大小的响应体跳过最小化，0表示使用默认值
	DefaultCharset  string         `json:"DefaultCharset"`  // Content-Type未声明charset时的兜底编码
	PoweredByHeader bool           `json:"PoweredByHeader"` // 是否追加X-Markup-Minification-Powered-By响应头
	Policies        []PolicyConfig `json:"Policies"`        // 按优先级排列，首个命中的策略生效
}

// PolicyConfig 单条最小化策略的配置
type PolicyConfig struct {
	Name              string `json:"Name"`
	Markup            string `json:"Markup"`            // html 或 xml
	Methods           string `json:"Methods"`           // 逗号分隔的HTTP方法，为空表示仅GET
	MediaTypes        string `json:"MediaTypes"`        // 逗号分隔的媒体类型
	IncludePaths      string `json:"IncludePaths"`      // 逗号分隔的URL路径前缀，为空表示全部
	ExcludePaths      string `json:"ExcludePaths"`      // 逗号分隔的排除前缀
	CollectStatistics bool   `json:"CollectStatistics"` // 是否收集最小化统计
}

// MethodList 解析逗号分隔的方法列表
func (p *PolicyConfig) MethodList() []string {
	return splitTrimmed(p.Methods)
}

// MediaTypeList 解析逗号分隔的媒体类型列表
func (p *PolicyConfig) MediaTypeList() []string {
	return splitTrimmed(p.MediaTypes)
}

// IncludeList 解析包含路径前缀
func (p *PolicyConfig) IncludeList() []string {
	return splitTrimmed(p.IncludePaths)
}

// ExcludeList 解析排除路径前缀
func (p *PolicyConfig) ExcludeList() []string {
	return splitTrimmed(p.ExcludePaths)
}

type CompressionConfig struct {
	Gzip   CompressorConfig `json:"Gzip"`
	Brotli CompressorConfig `json:"Brotli"`
	Zstd   CompressorConfig `json:"Zstd"`

	// 压缩的资格过滤，与最小化策略相互独立
	Methods      string `json:"Methods"`      // 逗号分隔的HTTP方法，为空表示仅GET
	MediaTypes   string `json:"MediaTypes"`   // 逗号分隔的可压缩媒体类型前缀
	ExcludePaths string `json:"ExcludePaths"` // 逗号分隔的排除前缀
}

// MethodList 解析压缩支持的方法
func (c *CompressionConfig) MethodList() []string {
	return splitTrimmed(c.Methods)
}

// MediaTypeList 解析可压缩媒体类型前缀
func (c *CompressionConfig) MediaTypeList() []string {
	return splitTrimmed(c.MediaTypes)
}

// ExcludeList 解析排除路径前缀
func (c *CompressionConfig) ExcludeList() []string {
	return splitTrimmed(c.ExcludePaths)
}

// CompressorConfig 单个压缩器的配置
type CompressorConfig struct {
	Enabled bool `json:"Enabled"`
	Level   int  `json:"Level"`
}

type MetricsConfig struct {
	Enabled      bool   `json:"Enabled"`
	SavePath     string `json:"SavePath"`     // 统计数据持久化路径
	SaveInterval int    `json:"SaveInterval"` // 保存间隔（分钟）
}

func splitTrimmed(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

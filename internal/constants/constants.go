package constants

import (
	"markupmin-go/internal/config"
	"time"
)

var (
	// 最小化相关
	MaxResponseSize int64 = 10 * MB  // 超过该大小的响应体跳过最小化
	DefaultCharset        = "utf-8"  // Content-Type未声明charset时的兜底编码
	PoweredByHeader       = true     // 是否追加powered-by响应头

	// 最小化缓冲相关
	InitialBufferSize = 4 * int(KB) // 最小化缓冲区初始容量

	// 响应头名称
	PoweredByHeaderName  = "X-Markup-Minification-Powered-By"
	PoweredByHeaderValue = "markupmin-go"
	ChecksumHeaderName   = "Content-MD5"

	// 指标相关
	MetricsSaveInterval = 10 * time.Minute // 统计数据保存间隔
	MetricsSavePath     = "data/metrics.json"

	// 单位常量
	KB int64 = 1024
	MB int64 = 1024 * KB
)

// UpdateFromConfig 从配置文件更新常量
func UpdateFromConfig(cfg *config.Config) {
	if cfg.Minify.MaxResponseSize > 0 {
		MaxResponseSize = cfg.Minify.MaxResponseSize
	}
	if cfg.Minify.DefaultCharset != "" {
		DefaultCharset = cfg.Minify.DefaultCharset
	}
	PoweredByHeader = cfg.Minify.PoweredByHeader

	if cfg.Metrics.SaveInterval > 0 {
		MetricsSaveInterval = time.Duration(cfg.Metrics.SaveInterval) * time.Minute
	}
	if cfg.Metrics.SavePath != "" {
		MetricsSavePath = cfg.Metrics.SavePath
	}
}

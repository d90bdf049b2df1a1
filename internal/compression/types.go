package compression

import (
	"io"
	"net/http"
)

// Compressor 定义压缩器接口
type Compressor interface {
	// Compress 包装底层写入器，返回压缩变换后的写入器
	Compress(w io.Writer) (io.WriteCloser, error)
	// AppendHeaders 向响应头追加该压缩器声明的头（Content-Encoding等）
	AppendHeaders(h http.Header)
	// SupportsFlush 压缩变换是否支持中途刷新；不支持时无法用于实时传输
	SupportsFlush() bool
}

// CompressionType 表示压缩类型
type CompressionType string

const (
	CompressionGzip   CompressionType = "gzip"
	CompressionBrotli CompressionType = "br"
	CompressionZstd   CompressionType = "zstd"
)

// Config 压缩配置结构体
type Config struct {
	Gzip   CompressorConfig `json:"Gzip"`
	Brotli CompressorConfig `json:"Brotli"`
	Zstd   CompressorConfig `json:"Zstd"`
}

// CompressorConfig 单个压缩器的配置
type CompressorConfig struct {
	Enabled bool `json:"Enabled"`
	Level   int  `json:"Level"`
}

// Manager 压缩管理器接口
type Manager interface {
	// SelectCompressor 根据 Accept-Encoding 头选择合适的压缩器
	// 线性扫描，首个命中的压缩器生效；无法解析或没有命中时返回nil
	SelectCompressor(acceptEncoding string) (Compressor, CompressionType)
}

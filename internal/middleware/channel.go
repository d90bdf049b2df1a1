package middleware

import (
	"io"
	"net/http"

	"markupmin-go/internal/compression"
)

// flusher 压缩写入器的刷新能力（gzip/brotli/zstd的写入器都具备）
type flusher interface {
	Flush() error
}

// compressionChannel 压缩通道：包装真实输出端的字节变换出口。
// 一个响应至多持有一个通道，由拦截流独占，随流关闭。
// 压缩写入器推迟到第一个字节真正流过时才创建：从未写入的通道
// 关闭时不得向底层吐出编码流的头尾字节
type compressionChannel struct {
	compressor compression.Compressor
	dst        http.ResponseWriter
	writer     io.WriteCloser
	closed     bool
}

func newCompressionChannel(compressor compression.Compressor, dst http.ResponseWriter) *compressionChannel {
	return &compressionChannel{
		compressor: compressor,
		dst:        dst,
	}
}

// active 压缩流是否已经开始产出字节
func (c *compressionChannel) active() bool {
	return c.writer != nil
}

func (c *compressionChannel) Write(p []byte) (int, error) {
	if c.writer == nil {
		writer, err := c.compressor.Compress(c.dst)
		if err != nil {
			return 0, err
		}
		c.writer = writer
	}
	return c.writer.Write(p)
}

// Flush 刷出压缩变换中滞留的数据，再刷新底层写入器
func (c *compressionChannel) Flush() {
	if c.writer != nil {
		if f, ok := c.writer.(flusher); ok {
			f.Flush()
		}
	}
	if f, ok := c.dst.(http.Flusher); ok {
		f.Flush()
	}
}

// Close 结束压缩流，幂等；未启动的压缩流直接丢弃
func (c *compressionChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.writer == nil {
		return nil
	}
	return c.writer.Close()
}

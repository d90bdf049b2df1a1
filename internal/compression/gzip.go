package compression

import (
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
)

type GzipCompressor struct {
	level int
}

func NewGzipCompressor(level int) *GzipCompressor {
	// 确保level在有效范围内
	if level < gzip.DefaultCompression || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &GzipCompressor{level: level}
}

func (g *GzipCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, g.level)
}

func (g *GzipCompressor) AppendHeaders(h http.Header) {
	h.Set("Content-Encoding", string(CompressionGzip))
	h.Add("Vary", "Accept-Encoding")
}

func (g *GzipCompressor) SupportsFlush() bool {
	return true
}

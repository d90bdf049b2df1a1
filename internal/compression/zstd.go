package compression

import (
	"io"
	"net/http"

	"github.com/klauspost/compress/zstd"
)

type ZstdCompressor struct {
	level zstd.EncoderLevel
}

func NewZstdCompressor(level int) *ZstdCompressor {
	// 确保level在有效范围内 (1-4)
	if level < int(zstd.SpeedFastest) || level > int(zstd.SpeedBestCompression) {
		level = int(zstd.SpeedDefault)
	}
	return &ZstdCompressor{level: zstd.EncoderLevel(level)}
}

func (z *ZstdCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(z.level))
}

func (z *ZstdCompressor) AppendHeaders(h http.Header) {
	h.Set("Content-Encoding", string(CompressionZstd))
	h.Add("Vary", "Accept-Encoding")
}

func (z *ZstdCompressor) SupportsFlush() bool {
	return true
}

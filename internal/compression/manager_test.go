package compression

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func allEnabled() Config {
	return Config{
		Gzip:   CompressorConfig{Enabled: true, Level: 6},
		Brotli: CompressorConfig{Enabled: true, Level: 6},
		Zstd:   CompressorConfig{Enabled: true, Level: 3},
	}
}

func TestSelectCompressorPriority(t *testing.T) {
	m := NewManager(allEnabled())

	// 1. brotli优先
	if _, typ := m.SelectCompressor("gzip, br, zstd"); typ != CompressionBrotli {
		t.Errorf("expected br, got %q", typ)
	}

	// 2. 没有br时选zstd
	if _, typ := m.SelectCompressor("gzip, zstd"); typ != CompressionZstd {
		t.Errorf("expected zstd, got %q", typ)
	}

	// 3. 只有gzip时选gzip
	if _, typ := m.SelectCompressor("gzip"); typ != CompressionGzip {
		t.Errorf("expected gzip, got %q", typ)
	}
}

func TestSelectCompressorNoMatch(t *testing.T) {
	m := NewManager(allEnabled())

	// 客户端不接受任何已配置的编码
	if c, typ := m.SelectCompressor("identity"); c != nil || typ != "" {
		t.Errorf("expected no compressor, got %q", typ)
	}

	// 空的Accept-Encoding不报错，按"无压缩器"处理
	if c, _ := m.SelectCompressor(""); c != nil {
		t.Error("empty accept-encoding should resolve to nil")
	}
}

func TestSelectCompressorDisabled(t *testing.T) {
	// 只启用gzip时brotli请求落到gzip
	m := NewManager(Config{
		Gzip: CompressorConfig{Enabled: true, Level: 6},
	})
	if _, typ := m.SelectCompressor("br, gzip"); typ != CompressionGzip {
		t.Errorf("expected gzip fallback, got %q", typ)
	}
}

func TestGzipCompressorRoundTrip(t *testing.T) {
	c := NewGzipCompressor(6)

	var buf bytes.Buffer
	w, err := c.Compress(&buf)
	if err != nil {
		t.Fatal("Compress failed:", err)
	}

	payload := []byte("<div>hello hello hello</div>")
	if _, err := w.Write(payload); err != nil {
		t.Fatal("Write failed:", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal("Close failed:", err)
	}

	// 解压后应与原始内容一致
	r, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatal("NewReader failed:", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatal("ReadAll failed:", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("round trip mismatch: got %q", decoded)
	}
}

func TestAppendHeaders(t *testing.T) {
	h := make(http.Header)
	NewGzipCompressor(6).AppendHeaders(h)

	if got := h.Get("Content-Encoding"); got != "gzip" {
		t.Errorf("expected gzip content-encoding, got %q", got)
	}
	if got := h.Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("expected Vary header, got %q", got)
	}
}

func TestSupportsFlush(t *testing.T) {
	// 内置压缩器均支持中途刷新
	for _, c := range []Compressor{
		NewGzipCompressor(6),
		NewBrotliCompressor(6),
		NewZstdCompressor(3),
	} {
		if !c.SupportsFlush() {
			t.Errorf("%T should support flush", c)
		}
	}
}

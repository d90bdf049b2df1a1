package charset

import (
	"testing"
)

func TestResolveKnownCharset(t *testing.T) {
	enc, name := Resolve("utf-8", "")
	if enc == nil || name != "utf-8" {
		t.Errorf("expected utf-8 encoding, got %q", name)
	}

	// 大小写不敏感
	if _, name := Resolve("UTF-8", ""); name != "utf-8" {
		t.Errorf("expected canonical utf-8, got %q", name)
	}
}

func TestResolveFallback(t *testing.T) {
	// 未知charset回退到fallback
	if _, name := Resolve("bogus-charset", "iso-8859-1"); name != "windows-1252" {
		// iso-8859-1在WHATWG标准下规范名为windows-1252
		t.Errorf("expected windows-1252, got %q", name)
	}

	// fallback也未知时按UTF-8处理
	if enc, name := Resolve("bogus", "also-bogus"); enc == nil || name != "utf-8" {
		t.Errorf("expected utf-8 last resort, got %q", name)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	enc, _ := Resolve("utf-8", "")

	original := "<div>héllo 世界</div>"
	data, err := Encode(original, enc)
	if err != nil {
		t.Fatal("Encode failed:", err)
	}

	text, err := Decode(data, enc)
	if err != nil {
		t.Fatal("Decode failed:", err)
	}
	if text != original {
		t.Errorf("round trip mismatch: got %q", text)
	}
}

func TestEncodeLatin1(t *testing.T) {
	enc, _ := Resolve("iso-8859-1", "")

	data, err := Encode("héllo", enc)
	if err != nil {
		t.Fatal("Encode failed:", err)
	}
	// latin-1下é是单字节0xE9
	if len(data) != 5 {
		t.Errorf("expected 5 latin-1 bytes, got %d", len(data))
	}
}

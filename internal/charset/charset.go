package charset

import (
	"fmt"

	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Resolve 根据Content-Type中的charset名称解析出文本编码。
// 名称为空或无法识别时回退到fallback，fallback也无法识别时按UTF-8处理。
func Resolve(name string, fallback string) (encoding.Encoding, string) {
	if name != "" {
		if enc, canonical := htmlcharset.Lookup(name); enc != nil {
			return enc, canonical
		}
	}

	if fallback != "" {
		if enc, canonical := htmlcharset.Lookup(fallback); enc != nil {
			return enc, canonical
		}
	}

	return unicode.UTF8, "utf-8"
}

// Decode 按给定编码把响应体字节解码为文本
func Decode(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(decoded), nil
}

// Encode 把最小化后的文本重新编码为响应体字节
func Encode(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return encoded, nil
}

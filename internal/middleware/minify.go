package middleware

import (
	"log"
	"net/http"

	"markupmin-go/internal/compression"
	"markupmin-go/internal/minify"
)

// MarkupMinMiddleware 响应体最小化/压缩中间件
// 把每个响应的写入包进拦截流，处理器返回后执行终结管线
func MarkupMinMiddleware(
	minifyManager minify.Manager,
	compManager compression.Manager,
	compEligibility *compression.Eligibility,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stream, err := NewBodyStream(w, r, minifyManager, compManager, compEligibility)
			if err != nil {
				log.Printf("[MarkupMin] 创建拦截流失败: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			defer stream.Close()

			next.ServeHTTP(stream, r)

			if err := stream.Finalize(); err != nil {
				// 配置冲突等致命错误：此时响应体一个字节都没有发出
				log.Printf("[MarkupMin] 响应终结失败: %v", err)
				if !stream.headerSent {
					// 处理器遗留的编码/长度头会让错误体无法被客户端解码
					w.Header().Del("Content-Encoding")
					w.Header().Del("Content-Length")
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}
		})
	}
}

package errors

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrInvalidConfig ErrorCode = iota + 1
	ErrEncodingConflict
	ErrUnsupportedOp
	ErrMetricsCollection
)

// 核心流包装器使用的哨兵错误
var (
	// ErrUnsupportedOperation 流是只写的，读取/定位操作一律失败
	ErrUnsupportedOperation = errors.New("markupmin: operation not supported on write-only stream")
	// ErrNilWriter 传入的底层写入器为空
	ErrNilWriter = errors.New("markupmin: underlying writer is nil")
	// ErrNilContext 带取消信号的写入口收到了nil上下文
	ErrNilContext = errors.New("markupmin: nil context passed to WriteContext")
)

// StreamError 带错误码的流处理错误
type StreamError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// NewEncodingConflictError 响应已经声明了Content-Encoding，但最小化策略仍然命中，
// 此时无法安全地对已编码内容做最小化处理，属于致命的配置冲突
func NewEncodingConflictError(encoding string) *StreamError {
	return &StreamError{
		Code:    ErrEncodingConflict,
		Message: fmt.Sprintf("markupmin: content is already encoded with %q, minification cannot be applied", encoding),
	}
}

// IsEncodingConflict 判断是否为配置冲突错误
func IsEncodingConflict(err error) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Code == ErrEncodingConflict
	}
	return false
}

package middleware

import (
	"bufio"
	"bytes"
	"context"
	"mime"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/text/encoding"

	"markupmin-go/internal/charset"
	"markupmin-go/internal/compression"
	"markupmin-go/internal/constants"
	merrors "markupmin-go/internal/errors"
	"markupmin-go/internal/interfaces"
	"markupmin-go/internal/latch"
	"markupmin-go/internal/metrics"
	"markupmin-go/internal/minify"
)

// BufferingControl 宿主提供的缓冲开关，底层ResponseWriter实现了它时开关会被透传
type BufferingControl interface {
	DisableRequestBuffering()
	DisableResponseBuffering()
}

// ContextWriter 支持带取消信号写入的底层写入器
type ContextWriter interface {
	WriteContext(ctx context.Context, p []byte) (int, error)
}

// decision 首次写入时一次性计算的路由决策，计算后不再变化
type decision struct {
	minifyEnabled   bool
	compressEnabled bool
	policy          *minify.Policy
	compressor      compression.Compressor
	encodingType    compression.CompressionType
	canonicalURL    string
	mediaType       string
	textEncoding    encoding.Encoding
	charsetName     string
}

// BodyStream 响应体拦截流：对每个响应在首次写入时决定走
// 最小化缓冲、压缩变换、原样透传三条互斥路径中的哪一条
type BodyStream struct {
	rw      http.ResponseWriter
	request *http.Request

	minifyManager  minify.Manager
	compManager    compression.Manager
	compEligibility *compression.Eligibility

	mu          sync.Mutex
	statusCode  int
	wroteHeader bool // 应用是否显式调用过WriteHeader
	headerSent  bool // 状态行是否已转发给底层

	initFlag latch.Flag
	initErr  error
	decision decision

	buffer  *bytes.Buffer
	channel *compressionChannel

	resolveFlag        latch.Flag
	resolvedCompressor compression.Compressor
	resolvedEncoding   compression.CompressionType

	headerFlag latch.Flag // 压缩头只能追加一次

	compressionDisabled bool // 实时传输要求下强制关闭压缩
	autoFlush           bool

	finalizeFlag latch.Flag
	closeFlag    latch.Flag
}

// NewBodyStream 创建响应体拦截流
func NewBodyStream(
	rw http.ResponseWriter,
	r *http.Request,
	minifyManager minify.Manager,
	compManager compression.Manager,
	compEligibility *compression.Eligibility,
) (*BodyStream, error) {
	if rw == nil {
		return nil, merrors.ErrNilWriter
	}
	return &BodyStream{
		rw:             rw,
		request:        r,
		minifyManager:  minifyManager,
		compManager:    compManager,
		compEligibility: compEligibility,
		statusCode:     http.StatusOK,
	}, nil
}

// Header 透传响应头集合
func (s *BodyStream) Header() http.Header {
	return s.rw.Header()
}

// WriteHeader 捕获状态码，转发推迟到路由决策之后
// 最小化路径下Content-Length要等终结时才确定，不能提前发出状态行
func (s *BodyStream) WriteHeader(statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wroteHeader {
		return
	}
	s.statusCode = statusCode
	s.wroteHeader = true
}

// Write 同步写入口
func (s *BodyStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(nil, p)
}

// WriteContext 带取消信号的写入口，与Write效果完全一致
// 取消信号原样传递给底层写入器（若其支持）
func (s *BodyStream) WriteContext(ctx context.Context, p []byte) (int, error) {
	if ctx == nil {
		return 0, merrors.ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, p)
}

// write 三路分发，调用方必须持有s.mu
func (s *BodyStream) write(ctx context.Context, p []byte) (int, error) {
	if err := s.ensureDecision(); err != nil {
		return 0, err
	}

	// 最小化路径：纯内存追加
	if s.decision.minifyEnabled {
		return s.buffer.Write(p)
	}

	// 压缩路径：首字节前追加压缩头并转发状态行
	if s.compressionActive() {
		s.appendCompressionHeaders()
		n, err := s.channel.Write(p)
		if err != nil {
			return n, err
		}
		if s.autoFlush {
			s.channel.Flush()
		}
		return n, nil
	}

	// 透传路径
	s.sendHeader()
	if ctx != nil {
		if cw, ok := s.rw.(ContextWriter); ok {
			return cw.WriteContext(ctx, p)
		}
	}
	return s.rw.Write(p)
}

// Flush 实现 http.Flusher
// 刷新同样会触发路由决策；最小化缓冲无法中途刷出，该路径下是空操作
func (s *BodyStream) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDecision(); err != nil {
		return
	}

	if s.decision.minifyEnabled {
		return
	}

	if s.compressionActive() {
		s.appendCompressionHeaders()
		s.channel.Flush()
		return
	}

	s.sendHeader()
	if f, ok := s.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// Read 流是只写的
func (s *BodyStream) Read(p []byte) (int, error) {
	return 0, merrors.ErrUnsupportedOperation
}

// Seek 流是只写的，不支持定位
func (s *BodyStream) Seek(offset int64, whence int) (int64, error) {
	return 0, merrors.ErrUnsupportedOperation
}

// ensureDecision 保证路由决策恰好计算一次，后续调用直接返回首次结果
func (s *BodyStream) ensureDecision() error {
	s.initFlag.Do(func() {
		s.initErr = s.computeDecision()
	})
	return s.initErr
}

// computeDecision 首次写入/刷新时的一次性路由决策
func (s *BodyStream) computeDecision() error {
	// 非200响应一律透传
	if s.statusCode != http.StatusOK {
		return nil
	}

	header := s.rw.Header()

	// 解析媒体类型与charset，无法解析时按未知处理
	mediaType := ""
	charsetName := ""
	if ct := header.Get("Content-Type"); ct != "" {
		if mt, params, err := mime.ParseMediaType(ct); err == nil {
			mediaType = mt
			charsetName = params["charset"]
		}
	}

	// 规范化URL：路径+原始查询串
	canonicalURL := s.request.URL.Path
	if s.request.URL.RawQuery != "" {
		canonicalURL += "?" + s.request.URL.RawQuery
	}

	d := decision{
		canonicalURL: canonicalURL,
		mediaType:    mediaType,
	}

	// 响应体已预编码时禁止最小化：命中最小化策略属于致命配置冲突，
	// 解码超出本层职责，静默处理会破坏响应体
	contentEncoding := header.Get("Content-Encoding")
	if contentEncoding != "" {
		if s.minifyManager != nil {
			if p := s.minifyManager.SelectPolicy(s.request.Method, mediaType, canonicalURL); p != nil {
				return merrors.NewEncodingConflictError(contentEncoding)
			}
		}
		s.decision = d
		return nil
	}

	// 最小化资格：按优先级取首个命中的策略
	if s.minifyManager != nil {
		if p := s.minifyManager.SelectPolicy(s.request.Method, mediaType, canonicalURL); p != nil {
			d.minifyEnabled = true
			d.policy = p
			enc, name := charset.Resolve(charsetName, constants.DefaultCharset)
			d.textEncoding = enc
			d.charsetName = name
			s.buffer = bytes.NewBuffer(make([]byte, 0, constants.InitialBufferSize))
		}
	}

	// 压缩资格：与最小化相互独立求值，二者可以同时成立
	if s.compManager != nil && !s.compressionDisabled && s.checkEligibility(mediaType, canonicalURL) {
		compressor, encodingType := s.resolveCompressor(s.request.Header.Get("Accept-Encoding"))
		if compressor != nil {
			d.compressEnabled = true
			d.compressor = compressor
			d.encodingType = encodingType
			s.channel = newCompressionChannel(compressor, s.rw)
		}
	}

	s.decision = d
	return nil
}

// checkEligibility 压缩资格检查
func (s *BodyStream) checkEligibility(mediaType, url string) bool {
	if s.compEligibility == nil {
		return false
	}
	var checker interfaces.EligibilityChecker = s.compEligibility
	return checker.IsSupportedHttpMethod(s.request.Method) &&
		checker.IsSupportedMediaType(mediaType) &&
		checker.IsProcessablePage(url)
}

// resolveCompressor 单次解析压缩器：首次调用传入的Accept-Encoding生效，
// 之后的调用无论传什么都复用首次的结果（包括"无压缩器"）
func (s *BodyStream) resolveCompressor(acceptEncoding string) (compression.Compressor, compression.CompressionType) {
	s.resolveFlag.Do(func() {
		if s.compManager != nil {
			s.resolvedCompressor, s.resolvedEncoding = s.compManager.SelectCompressor(acceptEncoding)
		}
	})
	return s.resolvedCompressor, s.resolvedEncoding
}

// compressionActive 压缩路径当前是否生效
func (s *BodyStream) compressionActive() bool {
	return s.decision.compressEnabled && !s.compressionDisabled && s.channel != nil
}

// appendCompressionHeaders 压缩头只追加一次：
// 压缩后长度未知，Content-Length和校验和头必须移除
func (s *BodyStream) appendCompressionHeaders() {
	s.headerFlag.Do(func() {
		header := s.rw.Header()
		s.decision.compressor.AppendHeaders(header)
		header.Del("Content-Length")
		header.Del(constants.ChecksumHeaderName)
		s.sendHeader()
		metrics.GetCollector().RecordCompression(string(s.decision.encodingType))
	})
}

// sendHeader 把捕获的状态码转发给底层，至多一次
func (s *BodyStream) sendHeader() {
	if s.headerSent {
		return
	}
	s.headerSent = true
	s.rw.WriteHeader(s.statusCode)
}

// DisableRequestBuffering 透传请求缓冲开关
func (s *BodyStream) DisableRequestBuffering() {
	if bc, ok := s.rw.(BufferingControl); ok {
		bc.DisableRequestBuffering()
	}
}

// DisableResponseBuffering 透传响应缓冲开关，并处理压缩的实时性约束：
// 已解析的压缩器不支持中途刷新时强制关闭压缩（不能扣住客户端急需的数据），
// 支持时把压缩通道切换为每次写入后立即刷新
func (s *BodyStream) DisableResponseBuffering() {
	if bc, ok := s.rw.(BufferingControl); ok {
		bc.DisableResponseBuffering()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acceptEncoding := ""
	if s.request != nil {
		acceptEncoding = s.request.Header.Get("Accept-Encoding")
	}
	compressor, _ := s.resolveCompressor(acceptEncoding)
	if compressor == nil {
		return
	}

	if !compressor.SupportsFlush() {
		// 压缩流已经产出过字节时不能再切回原样输出，
		// 否则未编码的字节会混进已发出的编码流里
		if s.channel == nil || !s.channel.active() {
			s.compressionDisabled = true
		}
		return
	}

	s.autoFlush = true
}

// Finalize 响应完成后的终结管线，恰好执行一次。
// 只有最小化路径需要收尾；压缩/透传路径的字节早已按写入顺序转发
func (s *BodyStream) Finalize() error {
	var err error
	s.finalizeFlag.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		err = s.finalize()
	})
	return err
}

func (s *BodyStream) finalize() error {
	// 从未写入任何字节时决策可能还没算过
	if err := s.ensureDecision(); err != nil {
		return err
	}

	if !s.decision.minifyEnabled {
		// 应用显式设置过状态码但一个字节都没写时，状态行仍要发出
		if s.wroteHeader && !s.headerSent {
			s.sendHeader()
		}
		return nil
	}

	data := s.buffer.Bytes()
	defer s.releaseBuffer()

	// 空响应体或超过配置上限时跳过最小化，原样落盘
	if len(data) == 0 || int64(len(data)) > constants.MaxResponseSize {
		return s.writeFallback(data, false)
	}

	text, err := charset.Decode(data, s.decision.textEncoding)
	if err != nil {
		return s.writeFallback(data, true)
	}

	policy := s.decision.policy
	result := policy.Minifier.Minify(text, s.decision.canonicalURL, s.decision.charsetName, policy.CollectStatistics)
	if !result.Ok() {
		// 最小化失败绝不能丢弃或破坏响应体，降级为原始内容透传
		return s.writeFallback(data, true)
	}

	encoded, err := charset.Encode(result.MinifiedText, s.decision.textEncoding)
	if err != nil {
		return s.writeFallback(data, true)
	}

	header := s.rw.Header()
	if constants.PoweredByHeader {
		header.Set(constants.PoweredByHeaderName, constants.PoweredByHeaderValue)
	}
	header.Del(constants.ChecksumHeaderName)

	if policy.CollectStatistics {
		metrics.GetCollector().RecordMinification(s.decision.mediaType, int64(len(data)), int64(len(encoded)), true)
	}

	if s.compressionActive() {
		s.appendCompressionHeaders()
		_, err = s.channel.Write(encoded)
		return err
	}

	header.Set("Content-Length", strconv.Itoa(len(encoded)))
	s.sendHeader()
	_, err = s.rw.Write(encoded)
	return err
}

// writeFallback 最小化未生效时把原始缓冲内容写入当前生效的出口
func (s *BodyStream) writeFallback(data []byte, recordFailure bool) error {
	if recordFailure && s.decision.policy != nil && s.decision.policy.CollectStatistics {
		metrics.GetCollector().RecordMinification(s.decision.mediaType, 0, 0, false)
	}

	if len(data) == 0 {
		if s.wroteHeader && !s.headerSent {
			s.sendHeader()
		}
		return nil
	}

	if s.compressionActive() {
		s.appendCompressionHeaders()
		_, err := s.channel.Write(data)
		return err
	}

	s.rw.Header().Set("Content-Length", strconv.Itoa(len(data)))
	s.sendHeader()
	_, err := s.rw.Write(data)
	return err
}

func (s *BodyStream) releaseBuffer() {
	s.buffer = nil
}

// Close 释放压缩和缓冲资源，从未初始化过也可以安全调用
func (s *BodyStream) Close() error {
	s.closeFlag.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.channel != nil {
			s.channel.Close()
			s.channel = nil
		}
		s.buffer = nil
	})
	return nil
}

// Hijack 实现 http.Hijacker 接口
func (s *BodyStream) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := s.rw.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

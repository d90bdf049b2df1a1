package interfaces

// EligibilityChecker 定义资格检查接口
// 最小化策略和压缩策略都通过它决定是否对某个响应生效
type EligibilityChecker interface {
	IsSupportedHttpMethod(method string) bool
	IsSupportedMediaType(mediaType string) bool
	IsProcessablePage(url string) bool
}

package metrics

import "time"

// MediaTypeStats 单个媒体类型的最小化统计
type MediaTypeStats struct {
	Responses     int64 `json:"responses"`      // 被该类型策略处理的响应数
	Minified      int64 `json:"minified"`       // 成功最小化的响应数
	Failed        int64 `json:"failed"`         // 最小化失败回退的响应数
	OriginalBytes int64 `json:"original_bytes"` // 最小化前字节数
	MinifiedBytes int64 `json:"minified_bytes"` // 最小化后字节数
}

// Snapshot 统计数据快照，用于持久化和HTTP输出
type Snapshot struct {
	StartTime       time.Time                  `json:"start_time"`
	Responses       int64                      `json:"responses"`
	Minified        int64                      `json:"minified"`
	MinifyFailed    int64                      `json:"minify_failed"`
	Compressed      int64                      `json:"compressed"`
	OriginalBytes   int64                      `json:"original_bytes"`
	MinifiedBytes   int64                      `json:"minified_bytes"`
	SavedBytes      int64                      `json:"saved_bytes"`
	MediaTypes      map[string]*MediaTypeStats `json:"media_types"`
	CompressionUsed map[string]int64           `json:"compression_used"` // 编码名 -> 次数
}

package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector 最小化统计收集器
type Collector struct {
	startTime     time.Time
	responses     atomic.Int64
	minified      atomic.Int64
	minifyFailed  atomic.Int64
	compressed    atomic.Int64
	originalBytes atomic.Int64
	minifiedBytes atomic.Int64
	mediaStats    sync.Map // 媒体类型 -> *mediaTypeCounters
	encodingStats sync.Map // 编码名 -> *atomic.Int64
}

type mediaTypeCounters struct {
	responses     atomic.Int64
	minified      atomic.Int64
	failed        atomic.Int64
	originalBytes atomic.Int64
	minifiedBytes atomic.Int64
}

var globalCollector *Collector

// InitCollector 初始化全局收集器
func InitCollector() *Collector {
	globalCollector = NewCollector()
	return globalCollector
}

// GetCollector 获取全局收集器，未初始化时返回nil
func GetCollector() *Collector {
	return globalCollector
}

func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

func (c *Collector) mediaCounters(mediaType string) *mediaTypeCounters {
	if v, ok := c.mediaStats.Load(mediaType); ok {
		return v.(*mediaTypeCounters)
	}
	v, _ := c.mediaStats.LoadOrStore(mediaType, &mediaTypeCounters{})
	return v.(*mediaTypeCounters)
}

// RecordMinification 记录一次最小化结果
// success为false表示最小化失败已回退为原始内容
func (c *Collector) RecordMinification(mediaType string, originalSize, minifiedSize int64, success bool) {
	if c == nil {
		return
	}

	c.responses.Add(1)
	mc := c.mediaCounters(mediaType)
	mc.responses.Add(1)

	if !success {
		c.minifyFailed.Add(1)
		mc.failed.Add(1)
		return
	}

	c.minified.Add(1)
	c.originalBytes.Add(originalSize)
	c.minifiedBytes.Add(minifiedSize)
	mc.minified.Add(1)
	mc.originalBytes.Add(originalSize)
	mc.minifiedBytes.Add(minifiedSize)
}

// RecordCompression 记录一次压缩响应
func (c *Collector) RecordCompression(encoding string) {
	if c == nil {
		return
	}

	c.compressed.Add(1)
	if v, ok := c.encodingStats.Load(encoding); ok {
		v.(*atomic.Int64).Add(1)
		return
	}
	v, _ := c.encodingStats.LoadOrStore(encoding, &atomic.Int64{})
	v.(*atomic.Int64).Add(1)
}

// GetSnapshot 生成当前统计数据的快照
func (c *Collector) GetSnapshot() *Snapshot {
	snapshot := &Snapshot{
		StartTime:       c.startTime,
		Responses:       c.responses.Load(),
		Minified:        c.minified.Load(),
		MinifyFailed:    c.minifyFailed.Load(),
		Compressed:      c.compressed.Load(),
		OriginalBytes:   c.originalBytes.Load(),
		MinifiedBytes:   c.minifiedBytes.Load(),
		MediaTypes:      make(map[string]*MediaTypeStats),
		CompressionUsed: make(map[string]int64),
	}
	snapshot.SavedBytes = snapshot.OriginalBytes - snapshot.MinifiedBytes

	c.mediaStats.Range(func(key, value any) bool {
		mc := value.(*mediaTypeCounters)
		snapshot.MediaTypes[key.(string)] = &MediaTypeStats{
			Responses:     mc.responses.Load(),
			Minified:      mc.minified.Load(),
			Failed:        mc.failed.Load(),
			OriginalBytes: mc.originalBytes.Load(),
			MinifiedBytes: mc.minifiedBytes.Load(),
		}
		return true
	})

	c.encodingStats.Range(func(key, value any) bool {
		snapshot.CompressionUsed[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return snapshot
}

// RestoreSnapshot 从持久化快照恢复计数（启动时调用）
func (c *Collector) RestoreSnapshot(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}

	c.responses.Store(snapshot.Responses)
	c.minified.Store(snapshot.Minified)
	c.minifyFailed.Store(snapshot.MinifyFailed)
	c.compressed.Store(snapshot.Compressed)
	c.originalBytes.Store(snapshot.OriginalBytes)
	c.minifiedBytes.Store(snapshot.MinifiedBytes)

	for mediaType, stats := range snapshot.MediaTypes {
		mc := c.mediaCounters(mediaType)
		mc.responses.Store(stats.Responses)
		mc.minified.Store(stats.Minified)
		mc.failed.Store(stats.Failed)
		mc.originalBytes.Store(stats.OriginalBytes)
		mc.minifiedBytes.Store(stats.MinifiedBytes)
	}

	for encoding, count := range snapshot.CompressionUsed {
		v, _ := c.encodingStats.LoadOrStore(encoding, &atomic.Int64{})
		v.(*atomic.Int64).Store(count)
	}
}

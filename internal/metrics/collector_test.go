package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestRecordMinification(t *testing.T) {
	c := NewCollector()

	// 1. 成功的最小化
	c.RecordMinification("text/html", 100, 60, true)
	// 2. 失败回退
	c.RecordMinification("text/html", 0, 0, false)
	// 3. 另一种媒体类型
	c.RecordMinification("text/xml", 50, 40, true)

	snapshot := c.GetSnapshot()
	if snapshot.Responses != 3 {
		t.Errorf("expected 3 responses, got %d", snapshot.Responses)
	}
	if snapshot.Minified != 2 {
		t.Errorf("expected 2 minified, got %d", snapshot.Minified)
	}
	if snapshot.MinifyFailed != 1 {
		t.Errorf("expected 1 failure, got %d", snapshot.MinifyFailed)
	}
	if snapshot.SavedBytes != 50 {
		t.Errorf("expected 50 saved bytes, got %d", snapshot.SavedBytes)
	}

	html := snapshot.MediaTypes["text/html"]
	if html == nil || html.Responses != 2 || html.Minified != 1 || html.Failed != 1 {
		t.Errorf("unexpected text/html stats: %+v", html)
	}
}

func TestRecordCompression(t *testing.T) {
	c := NewCollector()

	c.RecordCompression("gzip")
	c.RecordCompression("gzip")
	c.RecordCompression("br")

	snapshot := c.GetSnapshot()
	if snapshot.Compressed != 3 {
		t.Errorf("expected 3 compressed, got %d", snapshot.Compressed)
	}
	if snapshot.CompressionUsed["gzip"] != 2 || snapshot.CompressionUsed["br"] != 1 {
		t.Errorf("unexpected encoding stats: %+v", snapshot.CompressionUsed)
	}
}

func TestCollectorConcurrentRecording(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordMinification("text/html", 10, 5, true)
			c.RecordCompression("gzip")
		}()
	}
	wg.Wait()

	snapshot := c.GetSnapshot()
	if snapshot.Minified != 100 {
		t.Errorf("expected 100 minified, got %d", snapshot.Minified)
	}
	if snapshot.CompressionUsed["gzip"] != 100 {
		t.Errorf("expected 100 gzip, got %d", snapshot.CompressionUsed["gzip"])
	}
}

func TestMetricsPersistenceRoundTrip(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "metrics-test-*")
	if err != nil {
		t.Fatal("Failed to create temp dir:", err)
	}
	defer os.RemoveAll(tempDir)

	savePath := filepath.Join(tempDir, "metrics.json")

	// 1. 记录并保存
	c1 := NewCollector()
	c1.RecordMinification("text/html", 100, 60, true)
	c1.RecordCompression("br")

	ms1 := NewMetricsStorage(c1, savePath, time.Minute)
	if err := ms1.SaveMetrics(); err != nil {
		t.Fatal("SaveMetrics failed:", err)
	}

	// 2. 新收集器加载后数据一致
	c2 := NewCollector()
	ms2 := NewMetricsStorage(c2, savePath, time.Minute)
	if err := ms2.LoadMetrics(); err != nil {
		t.Fatal("LoadMetrics failed:", err)
	}

	snapshot := c2.GetSnapshot()
	if snapshot.Minified != 1 || snapshot.OriginalBytes != 100 || snapshot.MinifiedBytes != 60 {
		t.Errorf("restored snapshot mismatch: %+v", snapshot)
	}
	if snapshot.CompressionUsed["br"] != 1 {
		t.Errorf("restored encoding stats mismatch: %+v", snapshot.CompressionUsed)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	// 未初始化时记录调用不应panic
	var c *Collector
	c.RecordMinification("text/html", 1, 1, true)
	c.RecordCompression("gzip")
}

package metrics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MetricsStorage 统计数据持久化
type MetricsStorage struct {
	collector    *Collector
	savePath     string
	saveInterval time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
	mutex        sync.Mutex
	lastSaveTime time.Time
}

// NewMetricsStorage 创建统计数据持久化服务
func NewMetricsStorage(collector *Collector, savePath string, saveInterval time.Duration) *MetricsStorage {
	if saveInterval < time.Minute {
		saveInterval = time.Minute
	}

	return &MetricsStorage{
		collector:    collector,
		savePath:     savePath,
		saveInterval: saveInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时保存任务
func (ms *MetricsStorage) Start() error {
	// 确保数据目录存在
	if dir := filepath.Dir(ms.savePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	// 尝试加载现有数据，加载失败不影响启动
	if err := ms.LoadMetrics(); err != nil {
		log.Printf("[MetricsStorage] 加载统计数据失败: %v", err)
	}

	ms.wg.Add(1)
	go ms.runSaveTask()
	log.Printf("[MetricsStorage] 统计持久化服务已启动，保存间隔: %v", ms.saveInterval)
	return nil
}

// Stop 停止定时保存并执行最后一次保存
func (ms *MetricsStorage) Stop() {
	close(ms.stopChan)
	ms.wg.Wait()

	if err := ms.SaveMetrics(); err != nil {
		log.Printf("[MetricsStorage] 退出前保存统计数据失败: %v", err)
	}
}

func (ms *MetricsStorage) runSaveTask() {
	defer ms.wg.Done()

	ticker := time.NewTicker(ms.saveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ms.SaveMetrics(); err != nil {
				log.Printf("[MetricsStorage] 保存统计数据失败: %v", err)
			}
		case <-ms.stopChan:
			return
		}
	}
}

// SaveMetrics 保存当前统计数据到文件
func (ms *MetricsStorage) SaveMetrics() error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	snapshot := ms.collector.GetSnapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(ms.savePath, data, 0644); err != nil {
		return err
	}

	ms.lastSaveTime = time.Now()
	return nil
}

// LoadMetrics 从文件恢复统计数据
func (ms *MetricsStorage) LoadMetrics() error {
	data, err := os.ReadFile(ms.savePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}

	ms.collector.RestoreSnapshot(&snapshot)
	log.Printf("[MetricsStorage] 统计数据已恢复: %d 个响应", snapshot.Responses)
	return nil
}

// GetLastSaveTime 最后一次成功保存的时间
func (ms *MetricsStorage) GetLastSaveTime() time.Time {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return ms.lastSaveTime
}

package metrics

import (
	"log"

	"markupmin-go/internal/config"
	"markupmin-go/internal/constants"
)

var globalStorage *MetricsStorage

// Init 初始化统计服务
func Init(cfg *config.Config) {
	if !cfg.Metrics.Enabled {
		log.Printf("[Metrics] 统计服务未启用")
		return
	}

	collector := InitCollector()
	globalStorage = NewMetricsStorage(collector, constants.MetricsSavePath, constants.MetricsSaveInterval)

	if err := globalStorage.Start(); err != nil {
		log.Printf("[Metrics] 启动统计持久化失败: %v", err)
	}
}

// Shutdown 停止统计服务并保存数据
func Shutdown() {
	if globalStorage != nil {
		globalStorage.Stop()
	}
}

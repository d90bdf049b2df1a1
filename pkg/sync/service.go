package sync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	globalSyncService *SyncService
	globalSyncMutex   sync.RWMutex
)

// 远端配置版本检查周期
const syncCheckInterval = 5 * time.Minute

// SyncService 配置同步服务
// 周期性检查S3上配置文档的版本，发现更新后下载到本地并触发重载
type SyncService struct {
	client      *S3Client
	config      *Config
	localPath   string
	reload      func() error
	isEnabled   bool
	lastVersion string
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mutex       sync.RWMutex
}

// InitSyncService 初始化同步服务
// localPath为本地配置文件路径，reload在远端配置落盘后调用
func InitSyncService(localPath string, reload func() error) error {
	globalSyncMutex.Lock()
	defer globalSyncMutex.Unlock()

	// 检查是否启用同步
	if !IsEnabled() {
		log.Printf("[Sync] Sync service disabled (no S3 config)")
		return nil
	}

	log.Printf("[Sync] Initializing S3 sync service...")

	// 创建S3配置
	s3Config, err := NewConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to create S3 config: %w", err)
	}

	// 创建S3客户端
	client, err := NewS3Client(s3Config)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	// 创建同步服务
	globalSyncService = &SyncService{
		client:    client,
		config:    s3Config,
		localPath: localPath,
		reload:    reload,
		isEnabled: true,
		stopCh:    make(chan struct{}),
	}

	log.Printf("[Sync] S3 sync service initialized (bucket: %s, key: %s)", s3Config.Bucket, s3Config.ConfigKey)
	return nil
}

// StartSyncService 启动同步服务
func StartSyncService(ctx context.Context) error {
	globalSyncMutex.RLock()
	defer globalSyncMutex.RUnlock()

	if globalSyncService == nil || !globalSyncService.isEnabled {
		log.Printf("[Sync] Sync service not available or disabled")
		return nil
	}

	// 启动前验证S3连接
	if err := globalSyncService.client.TestConnection(ctx); err != nil {
		return fmt.Errorf("failed to verify S3 connection: %w", err)
	}

	// 启动时先拉取一次远端配置
	if err := globalSyncService.pullConfig(ctx); err != nil {
		log.Printf("[Sync] Warning: Initial config pull failed: %v", err)
	}

	globalSyncService.wg.Add(1)
	go globalSyncService.runCheckLoop()

	log.Printf("[Sync] Sync service started")
	return nil
}

// StopSyncService 停止同步服务（退出前上传一次本地配置）
func StopSyncService() error {
	globalSyncMutex.RLock()
	defer globalSyncMutex.RUnlock()

	if globalSyncService == nil || !globalSyncService.isEnabled {
		return nil
	}

	close(globalSyncService.stopCh)
	globalSyncService.wg.Wait()

	// 退出前上传一次本地配置
	log.Printf("[Sync] Uploading local config before shutdown...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := globalSyncService.uploadConfig(ctx); err != nil {
		log.Printf("[Sync] Warning: Final upload failed: %v", err)
	} else {
		log.Printf("[Sync] Final upload completed successfully")
	}

	log.Printf("[Sync] Sync service stopped")
	return nil
}

// SyncNow 立即同步
func SyncNow(ctx context.Context) error {
	globalSyncMutex.RLock()
	defer globalSyncMutex.RUnlock()

	if globalSyncService == nil || !globalSyncService.isEnabled {
		return fmt.Errorf("sync service not available")
	}

	return globalSyncService.pullConfig(ctx)
}

// IsServiceEnabled 检查同步服务是否启用
func IsServiceEnabled() bool {
	globalSyncMutex.RLock()
	defer globalSyncMutex.RUnlock()

	return globalSyncService != nil && globalSyncService.isEnabled
}

// IsEnabled 检查同步功能是否启用（基于环境变量）
func IsEnabled() bool {
	return IsConfigComplete()
}

// ConfigSyncCallback 配置更新回调（在config包保存本地配置后调用）
func ConfigSyncCallback() {
	if !IsServiceEnabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		globalSyncMutex.RLock()
		defer globalSyncMutex.RUnlock()

		if err := globalSyncService.uploadConfig(ctx); err != nil {
			log.Printf("[Sync] Warning: Config upload to S3 failed: %v", err)
		} else {
			log.Printf("[Sync] Config uploaded to S3 successfully")
		}
	}()
}

// runCheckLoop 版本检查循环
func (s *SyncService) runCheckLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(syncCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.pullConfig(ctx); err != nil {
				log.Printf("[Sync] Warning: Periodic config check failed: %v", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// pullConfig 检查远端版本，有更新时下载配置并触发重载
func (s *SyncService) pullConfig(ctx context.Context) error {
	version, timestamp, err := s.client.GetVersion(ctx, s.config.ConfigKey)
	if err != nil {
		return fmt.Errorf("failed to check remote config version: %w", err)
	}

	s.mutex.Lock()
	unchanged := version == s.lastVersion
	s.mutex.Unlock()

	if unchanged {
		return nil
	}

	data, err := s.client.Download(ctx, s.config.ConfigKey)
	if err != nil {
		return fmt.Errorf("failed to download remote config: %w", err)
	}

	if err := s.writeLocalConfig(data); err != nil {
		return err
	}

	if s.reload != nil {
		if err := s.reload(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	s.mutex.Lock()
	s.lastVersion = version
	s.mutex.Unlock()

	log.Printf("[Sync] Remote config applied (version: %s, modified: %s)", version, timestamp.Format(time.RFC3339))
	return nil
}

// uploadConfig 上传本地配置到S3
func (s *SyncService) uploadConfig(ctx context.Context) error {
	data, err := os.ReadFile(s.localPath)
	if err != nil {
		return fmt.Errorf("failed to read local config: %w", err)
	}

	if err := s.client.Upload(ctx, s.config.ConfigKey, data); err != nil {
		return err
	}

	// 上传后刷新版本号，避免把自己的上传当成远端更新再拉一次
	version, _, err := s.client.GetVersion(ctx, s.config.ConfigKey)
	if err == nil {
		s.mutex.Lock()
		s.lastVersion = version
		s.mutex.Unlock()
	}

	return nil
}

// writeLocalConfig 原子写入本地配置文件
func (s *SyncService) writeLocalConfig(data []byte) error {
	dir := filepath.Dir(s.localPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmpPath := s.localPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, s.localPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace local config: %w", err)
	}

	return nil
}

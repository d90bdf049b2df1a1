package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var (
	configCallbacks []func(*Config)
	callbackMutex   sync.RWMutex
)

type ConfigManager struct {
	config     atomic.Value
	configPath string
	mu         sync.RWMutex
}

func NewConfigManager(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath: configPath,
	}

	// 加载配置
	config, err := cm.loadConfigFromFile()
	if err != nil {
		return nil, err
	}

	cm.config.Store(config)
	log.Printf("[ConfigManager] 配置已加载: %d 条最小化策略", len(config.Minify.Policies))

	return cm, nil
}

// loadConfigFromFile 从文件加载配置
func (cm *ConfigManager) loadConfigFromFile() (*Config, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		// 如果文件不存在，创建默认配置
		if os.IsNotExist(err) {
			if createErr := cm.createDefaultConfig(); createErr == nil {
				return cm.loadConfigFromFile() // 重新加载
			} else {
				return nil, createErr
			}
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// createDefaultConfig 创建默认配置文件
func (cm *ConfigManager) createDefaultConfig() error {
	// 创建目录（如果不存在）
	if dir := filepath.Dir(cm.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// 创建默认配置
	defaultConfig := DefaultConfig()

	// 序列化为JSON
	data, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return err
	}

	// 写入文件
	return os.WriteFile(cm.configPath, data, 0644)
}

// DefaultConfig 默认配置：对HTML页面做最小化，gzip/brotli压缩开启
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":3000",
		},
		Minify: MinifyConfig{
			Enabled:         true,
			MaxResponseSize: 10 * 1024 * 1024, // 10MB
			DefaultCharset:  "utf-8",
			PoweredByHeader: true,
			Policies: []PolicyConfig{
				{
					Name:              "html",
					Markup:            "html",
					Methods:           "GET",
					MediaTypes:        "text/html,application/xhtml+xml",
					CollectStatistics: true,
				},
				{
					Name:       "xml",
					Markup:     "xml",
					Methods:    "GET",
					MediaTypes: "text/xml,application/xml",
				},
			},
		},
		Compression: CompressionConfig{
			Gzip: CompressorConfig{
				Enabled: true,
				Level:   6,
			},
			Brotli: CompressorConfig{
				Enabled: true,
				Level:   6,
			},
			Zstd: CompressorConfig{
				Enabled: false,
				Level:   3,
			},
			Methods:    "GET",
			MediaTypes: "text/,application/json,application/javascript,application/xml,image/svg+xml",
		},
		Metrics: MetricsConfig{
			Enabled:      true,
			SavePath:     "data/metrics.json",
			SaveInterval: 10,
		},
	}
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config.Load().(*Config)
}

// UpdateConfig 更新配置
func (cm *ConfigManager) UpdateConfig(newConfig *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	// 保存到文件
	if err := cm.saveConfigToFile(newConfig); err != nil {
		return err
	}

	// 更新内存中的配置
	cm.config.Store(newConfig)

	// 触发回调
	TriggerCallbacks(newConfig)

	log.Printf("[ConfigManager] 配置已更新: %d 条最小化策略", len(newConfig.Minify.Policies))
	return nil
}

// ReloadConfig 从文件重新加载配置（远程同步下载后调用）
func (cm *ConfigManager) ReloadConfig() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	config, err := cm.loadConfigFromFile()
	if err != nil {
		return err
	}

	cm.config.Store(config)
	TriggerCallbacks(config)

	log.Printf("[ConfigManager] 配置已重新加载")
	return nil
}

// saveConfigToFile 保存配置到文件
func (cm *ConfigManager) saveConfigToFile(config *Config) error {
	configData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cm.configPath, configData, 0644)
}

// RegisterUpdateCallback 注册配置更新回调
func RegisterUpdateCallback(callback func(*Config)) {
	callbackMutex.Lock()
	defer callbackMutex.Unlock()
	configCallbacks = append(configCallbacks, callback)
}

// TriggerCallbacks 触发所有配置更新回调
func TriggerCallbacks(config *Config) {
	callbackMutex.RLock()
	defer callbackMutex.RUnlock()
	for _, callback := range configCallbacks {
		callback(config)
	}
}

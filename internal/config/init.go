package config

import "log"

func Init(configPath string) (*ConfigManager, error) {
	log.Printf("[Config] 加载最小化配置: %s", configPath)

	configManager, err := NewConfigManager(configPath)
	if err != nil {
		log.Printf("[Config] 最小化配置加载失败: %v", err)
		return nil, err
	}

	cfg := configManager.GetConfig()
	log.Printf("[Config] 配置就绪: %d 条最小化策略, gzip=%v brotli=%v zstd=%v",
		len(cfg.Minify.Policies),
		cfg.Compression.Gzip.Enabled,
		cfg.Compression.Brotli.Enabled,
		cfg.Compression.Zstd.Enabled)
	return configManager, nil
}

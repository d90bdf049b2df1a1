package initapp

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func Init(configPath string) {
	log.Printf("[Init] 开始初始化应用程序...")

	// 加载.env里的环境变量（文件不存在时跳过）
	if err := godotenv.Load(); err == nil {
		log.Printf("[Init] 已加载.env文件")
	}

	// 确保数据目录存在
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("[Init] 创建数据目录失败: %v", err)
		}
	}

	log.Printf("[Init] 应用程序初始化完成")
}

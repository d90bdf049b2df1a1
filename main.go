package main

import (
	"context"
	"encoding/json"
	"log"
	"markupmin-go/internal/compression"
	"markupmin-go/internal/config"
	"markupmin-go/internal/constants"
	"markupmin-go/internal/initapp"
	"markupmin-go/internal/metrics"
	"markupmin-go/internal/middleware"
	"markupmin-go/internal/minify"
	"markupmin-go/pkg/sync"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

// pipeline 一次配置加载对应的完整处理组件
type pipeline struct {
	minifyManager   minify.Manager
	compManager     compression.Manager
	compEligibility *compression.Eligibility
}

// buildPipeline 根据配置构建最小化与压缩组件
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	minifyManager, err := minify.NewManager(cfg.Minify)
	if err != nil {
		return nil, err
	}

	var compManager compression.Manager
	if cfg.Compression.Gzip.Enabled || cfg.Compression.Brotli.Enabled || cfg.Compression.Zstd.Enabled {
		compManager = compression.NewManager(compression.Config{
			Gzip:   compression.CompressorConfig(cfg.Compression.Gzip),
			Brotli: compression.CompressorConfig(cfg.Compression.Brotli),
			Zstd:   compression.CompressorConfig(cfg.Compression.Zstd),
		})
	}

	compEligibility := compression.NewEligibility(
		cfg.Compression.MethodList(),
		cfg.Compression.MediaTypeList(),
		cfg.Compression.ExcludeList(),
	)

	return &pipeline{
		minifyManager:   minifyManager,
		compManager:     compManager,
		compEligibility: compEligibility,
	}, nil
}

func main() {

	// 初始化应用程序（加载.env、准备数据目录）
	configPath := "data/config.json"
	initapp.Init(configPath)

	// 初始化配置管理器
	configManager, err := config.Init(configPath)
	if err != nil {
		log.Fatal("Error initializing config manager:", err)
	}

	// 获取配置
	cfg := configManager.GetConfig()

	// 更新常量配置
	constants.UpdateFromConfig(cfg)

	// 初始化统计服务
	metrics.Init(cfg)

	// 创建处理管线（使用atomic.Value来支持动态更新）
	var pipelineAtomic atomic.Value
	pl, err := buildPipeline(cfg)
	if err != nil {
		log.Fatal("Error building processing pipeline:", err)
	}
	pipelineAtomic.Store(pl)

	// 注册配置更新回调
	config.RegisterUpdateCallback(func(newCfg *config.Config) {
		constants.UpdateFromConfig(newCfg)

		newPl, err := buildPipeline(newCfg)
		if err != nil {
			log.Printf("[Config] 处理管线重建失败，沿用旧配置: %v", err)
			return
		}
		pipelineAtomic.Store(newPl)
		log.Printf("[Config] 处理管线配置已更新")
	})

	// 初始化配置同步服务
	if err := sync.InitSyncService(configPath, configManager.ReloadConfig); err != nil {
		log.Printf("[Sync] 同步服务初始化失败: %v", err)
	}

	// 创建内容处理器
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	})

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(sampleSitemap))
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 统计接口不经过最小化管线
	statsHandler := metrics.Handler()

	// 配置读写接口
	configHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(configManager.GetConfig())
		case http.MethodPost:
			var newCfg config.Config
			if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
				http.Error(w, "invalid config: "+err.Error(), http.StatusBadRequest)
				return
			}
			if err := configManager.UpdateConfig(&newCfg); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			sync.ConfigSyncCallback()
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// 构建中间件链（处理管线跟随配置热更新）
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/metrics" {
			statsHandler(w, r)
			return
		}
		if r.URL.Path == "/api/config" {
			configHandler(w, r)
			return
		}

		currentPl := pipelineAtomic.Load().(*pipeline)
		middleware.MarkupMinMiddleware(
			currentPl.minifyManager,
			currentPl.compManager,
			currentPl.compEligibility,
		)(mux).ServeHTTP(w, r)
	})

	// 创建服务器
	server := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: handler,
	}

	// 启动配置同步
	syncCtx, syncCancel := context.WithCancel(context.Background())
	if err := sync.StartSyncService(syncCtx); err != nil {
		log.Printf("[Sync] 同步服务启动失败: %v", err)
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server...")

		// 停止配置同步
		syncCancel()
		if err := sync.StopSyncService(); err != nil {
			log.Printf("Error stopping sync service: %v", err)
		}

		// 停止指标存储服务
		metrics.Shutdown()

		if err := server.Close(); err != nil {
			log.Printf("Error during server shutdown: %v\n", err)
		}
	}()

	// 启动服务器
	log.Printf("Starting markup minification server on %s", cfg.Server.Listen)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("Error starting server:", err)
	}
}

// 示例页面，带有可被最小化移除的多余空白
const samplePage = `<!DOCTYPE html>
<html>
	<head>
		<title>markupmin-go</title>
		<meta charset="utf-8">
	</head>
	<body>
		<h1>markupmin-go</h1>

		<p>
			响应体最小化与压缩示例页面。
		</p>

		<ul>
			<li><a href="/sitemap.xml">sitemap.xml</a></li>
			<li><a href="/api/status">/api/status</a></li>
			<li><a href="/api/metrics">/api/metrics</a></li>
		</ul>
	</body>
</html>
`

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url>
		<loc>http://localhost:3000/</loc>
		<changefreq>daily</changefreq>
	</url>
	<url>
		<loc>http://localhost:3000/api/status</loc>
		<changefreq>always</changefreq>
	</url>
</urlset>
`

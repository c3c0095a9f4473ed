package config

import (
	"os"
)

// IndexBackend 向量索引后端类型
type IndexBackend int

const (
	// IndexLocal 本地磁盘索引（sqlite）
	IndexLocal IndexBackend = iota
	// IndexRemote 远程 Qdrant 索引
	IndexRemote
)

// Config 应用配置
type Config struct {
	Env          string
	Port         string
	TMDBAPIKey   string
	GeminiAPIKey string
	GeminiModel  string
	OllamaHost   string
	OllamaModel  string
	QdrantURL    string
	QdrantAPIKey string
	IndexPath    string
	Backend      IndexBackend
}

// Load 加载配置
// 索引后端在启动时一次性确定：QDRANT_URL 和 QDRANT_API_KEY 同时存在走远程，
// 否则回退到 INDEX_PATH 指定的本地磁盘索引。
func Load() *Config {
	cfg := &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8000"),
		TMDBAPIKey:   os.Getenv("TMDB_API_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "all-minilm"),
		QdrantURL:    os.Getenv("QDRANT_URL"),
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),
		IndexPath:    getEnv("INDEX_PATH", "./index_data/movies.db"),
	}

	if cfg.QdrantURL != "" && cfg.QdrantAPIKey != "" {
		cfg.Backend = IndexRemote
	} else {
		cfg.Backend = IndexLocal
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/service"
	"github.com/user/cinematch/internal/utils"
	"github.com/user/cinematch/internal/vectorindex"
)

func main() {
	var startPage, endPage int

	rootCmd := &cobra.Command{
		Use:   "ingest",
		Short: "扫描 TMDB 高分榜页区间并写入向量索引",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("未找到 .env 文件，使用系统环境变量")
			}
			cfg := config.Load()

			index, err := vectorindex.Open(cfg)
			if err != nil {
				return fmt.Errorf("向量索引初始化失败: %w", err)
			}
			if local, ok := index.(*vectorindex.Local); ok {
				defer local.Close()
			}

			catalog := service.NewTMDBClient(cfg.TMDBAPIKey)
			embedder := utils.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel)
			ingest := service.NewIngestService(catalog, embedder, index)

			log.Printf("[Ingest] 扫描第 %d 到 %d 页...", startPage, endPage)
			total, err := ingest.Run(startPage, endPage)
			if err != nil {
				return err
			}

			fmt.Printf("完成，共写入 %d 条电影记录\n", total)
			return nil
		},
	}

	rootCmd.Flags().IntVar(&startPage, "start-page", 1, "起始页（含）")
	rootCmd.Flags().IntVar(&endPage, "end-page", 50, "结束页（含）")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

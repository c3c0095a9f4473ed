package service

import (
	"fmt"
	"log"
	"time"

	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/vectorindex"
)

const (
	// CollectionName 电影向量集合名
	CollectionName = "movies"
	// VectorDim 嵌入模型输出维度（all-MiniLM 系列为 384）
	VectorDim = 384

	// 批量写入阈值，控制峰值内存并摊薄索引写开销
	ingestBatchSize = 100
)

// IngestService 批量入库管道：拉目录页、过滤、向量化、分批写入索引
type IngestService struct {
	catalog  CatalogSource
	embedder Embedder
	index    vectorindex.Index

	// 相邻两次翻页之间的停顿，对外部源限速
	pageDelay time.Duration
}

// NewIngestService 创建入库管道
func NewIngestService(catalog CatalogSource, embedder Embedder, index vectorindex.Index) *IngestService {
	return &IngestService{
		catalog:   catalog,
		embedder:  embedder,
		index:     index,
		pageDelay: time.Second,
	}
}

// Run 扫描 [startPage, endPage]（含两端）并入库，返回写入的记录数
// 单页失败只跳过该页，索引写入失败保留批次稍后重试，都不中断整个扫描；
// 以 TMDB ID 为键 upsert，重复执行收敛到同一索引状态
func (s *IngestService) Run(startPage, endPage int) (int, error) {
	if startPage < 1 || endPage < startPage {
		return 0, fmt.Errorf("invalid page range [%d, %d]", startPage, endPage)
	}

	if err := s.index.EnsureCollection(CollectionName, VectorDim); err != nil {
		return 0, fmt.Errorf("ensure collection failed: %w", err)
	}

	total := 0
	var batch []vectorindex.Point

	for page := startPage; page <= endPage; page++ {
		if page > startPage && s.pageDelay > 0 {
			time.Sleep(s.pageDelay)
		}

		records, err := s.catalog.TopRated(page)
		if err != nil {
			log.Printf("[Ingest] 跳过第 %d 页: %v", page, err)
			continue
		}

		for _, rec := range records {
			// 没有简介的记录不入库，嵌入文本会退化
			if rec.Overview == "" {
				continue
			}

			vector, err := s.embedder.Embed(fmt.Sprintf("%s: %s", rec.Title, rec.Overview))
			if err != nil {
				// 放弃本页剩余记录，已攒的批次保留
				log.Printf("[Ingest] 第 %d 页向量化失败: %v", page, err)
				break
			}

			batch = append(batch, vectorindex.Point{
				ID:     uint64(rec.ID),
				Vector: vector,
				Payload: model.MoviePayload{
					Title:       rec.Title,
					Overview:    rec.Overview,
					PosterPath:  rec.PosterPath,
					VoteAverage: rec.VoteAverage,
					ReleaseDate: rec.ReleaseDate,
				},
			})

			if len(batch) >= ingestBatchSize {
				if err := s.index.Upsert(CollectionName, batch); err != nil {
					// 写入失败保留批次，下次触发阈值时连同新记录一起重试
					log.Printf("[Ingest] 批量写入失败（第 %d 页）: %v", page, err)
					continue
				}
				total += len(batch)
				log.Printf("[Ingest] 已写入一批（截至第 %d 页）", page)
				batch = nil
			}
		}
	}

	// 收尾批次无条件写入
	if len(batch) > 0 {
		if err := s.index.Upsert(CollectionName, batch); err != nil {
			log.Printf("[Ingest] 收尾批次写入失败，丢失 %d 条: %v", len(batch), err)
		} else {
			total += len(batch)
		}
	}

	log.Printf("[Ingest] 完成，共写入 %d 条", total)
	return total, nil
}

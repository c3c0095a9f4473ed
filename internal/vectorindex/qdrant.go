package vectorindex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/user/cinematch/internal/model"
)

// Qdrant 远程 Qdrant 索引的 REST 客户端
type Qdrant struct {
	url    string
	apiKey string
	client *http.Client
}

// NewQdrant 创建 Qdrant 客户端
func NewQdrant(url, apiKey string) *Qdrant {
	return &Qdrant{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// EnsureCollection 集合不存在时创建，已存在时不改动其配置
func (q *Qdrant) EnsureCollection(name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid vector dimension: %d", dim)
	}

	// 先探测集合是否存在
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/collections/%s", q.url, name), nil)
	if err != nil {
		return err
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("check collection failed: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	status, err := q.put(fmt.Sprintf("%s/collections/%s", q.url, name), body)
	if err != nil {
		return fmt.Errorf("create collection failed: %w", err)
	}
	// 并发创建时另一端可能抢先建好，冲突按已存在处理
	if status >= 300 && status != http.StatusConflict {
		return fmt.Errorf("create collection %s failed: status %d", name, status)
	}
	return nil
}

// Upsert 按 ID 批量写入，wait=true 保证写入落盘后返回
func (q *Qdrant) Upsert(collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": qdrantPoints(points)}
	return q.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, collection), body)
}

// Search 余弦相似度最近邻检索，返回按得分降序的命中
func (q *Qdrant) Search(collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	reqBody := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	var out struct {
		Result []struct {
			ID      uint64             `json:"id"`
			Score   float64            `json:"score"`
			Payload model.MoviePayload `json:"payload"`
		} `json:"result"`
	}
	if err := q.postJSON(fmt.Sprintf("%s/collections/%s/points/search", q.url, collection), reqBody, &out); err != nil {
		return nil, err
	}

	hits := make([]ScoredPoint, 0, len(out.Result))
	for _, r := range out.Result {
		hits = append(hits, ScoredPoint{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

func qdrantPoints(points []Point) []map[string]any {
	out := make([]map[string]any, len(points))
	for i, p := range points {
		out[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	return out
}

func (q *Qdrant) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}

func (q *Qdrant) putJSON(url string, body any) error {
	status, err := q.put(url, body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: status %d", url, status)
	}
	return nil
}

func (q *Qdrant) put(url string, body any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (q *Qdrant) postJSON(url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	q.setHeaders(req)

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

package vectorindex

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/user/cinematch/internal/model"
)

// Local 本地磁盘索引，向量持久化到 sqlite，检索时全量扫描算余弦相似度
// 写入前对向量做 L2 归一化，这样点积即余弦相似度
type Local struct {
	db *sql.DB
}

// OpenLocal 打开（必要时创建）本地索引文件
func OpenLocal(path string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir failed: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index failed: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		dim  INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS points (
		collection TEXT NOT NULL,
		id         INTEGER NOT NULL,
		vector     BLOB NOT NULL,
		payload    TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema failed: %w", err)
	}

	return &Local{db: db}, nil
}

// Close 关闭底层数据库
func (l *Local) Close() error {
	return l.db.Close()
}

// EnsureCollection 集合不存在时登记，已存在时不改动其维度
func (l *Local) EnsureCollection(name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid vector dimension: %d", dim)
	}
	_, err := l.db.Exec(`INSERT INTO collections (name, dim) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`, name, dim)
	return err
}

// Upsert 按 (collection, id) 写入，重复 ID 覆盖旧记录
func (l *Local) Upsert(collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO points (collection, id, vector, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			vector = excluded.vector,
			payload = excluded.payload`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(collection, int64(p.ID), encodeVector(normalize(p.Vector)), string(payload)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search 扫描集合内全部向量，按相似度降序返回前 limit 条
func (l *Local) Search(collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := normalize(vector)

	rows, err := l.db.Query(`SELECT id, vector, payload FROM points WHERE collection = ?`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ScoredPoint
	for rows.Next() {
		var id int64
		var blob []byte
		var payloadJSON string
		if err := rows.Scan(&id, &blob, &payloadJSON); err != nil {
			return nil, err
		}

		var payload model.MoviePayload
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, err
		}

		hits = append(hits, ScoredPoint{
			ID:      uint64(id),
			Score:   dot(query, decodeVector(blob)),
			Payload: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
